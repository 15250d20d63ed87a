package recsys

import (
	"math"
	"reflect"
	"testing"
)

// dataset chico: 10 es el item más popular, 30 el menos.
func testIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := BuildIndex([]Interaction{
		{UserID: 1, ItemID: 10},
		{UserID: 1, ItemID: 20},
		{UserID: 1, ItemID: 30},
		{UserID: 2, ItemID: 10},
		{UserID: 2, ItemID: 20},
		{UserID: 3, ItemID: 10},
	}, IndexOptions{NeedInverse: true})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	return ix
}

func checkSymmetry(t *testing.T, sim *SimMatrix) {
	t.Helper()
	for i, row := range sim.Scores {
		for j, sij := range row {
			sji, ok := sim.Scores[j][i]
			if !ok {
				t.Fatalf("sim(%d,%d) existe pero sim(%d,%d) no", i, j, j, i)
			}
			if math.Abs(sij-sji) > 1e-12 {
				t.Fatalf("sim(%d,%d)=%v != sim(%d,%d)=%v", i, j, sij, j, i, sji)
			}
		}
	}
}

func TestItemSimilaritySymmetry(t *testing.T) {
	sim, _ := BuildItemSimilarity(testIndex(t), nil)
	checkSymmetry(t, sim)
}

func TestItemSimilarityDeterminism(t *testing.T) {
	ix := testIndex(t)
	simA, countsA := BuildItemSimilarity(ix, nil)
	simB, countsB := BuildItemSimilarity(ix, nil)
	if !reflect.DeepEqual(simA.Scores, simB.Scores) {
		t.Fatal("dos construcciones idénticas dieron matrices distintas")
	}
	if !reflect.DeepEqual(simA.Order, simB.Order) {
		t.Fatal("dos construcciones idénticas dieron órdenes distintos")
	}
	if !reflect.DeepEqual(countsA, countsB) {
		t.Fatal("dos construcciones idénticas dieron contadores distintos")
	}
}

func TestItemSimilarityValues(t *testing.T) {
	ix := testIndex(t)
	sim, counts := BuildItemSimilarity(ix, nil)

	if got, want := counts[10], 3; got != want {
		t.Fatalf("counts[10] = %d, want %d", got, want)
	}

	// usuario 1 aporta 1/ln4 al par (10,20), usuario 2 aporta 1/ln3;
	// normalizado por sqrt(3*2)
	want := (1/math.Log(4) + 1/math.Log(3)) / math.Sqrt(6)
	if got := sim.Scores[10][20]; math.Abs(got-want) > 1e-12 {
		t.Fatalf("sim(10,20) = %v, want %v", got, want)
	}

	// item sin co-ocurrencias igual tiene fila (vacía), nunca ausente
	solo, err := BuildIndex([]Interaction{{UserID: 9, ItemID: 99}}, IndexOptions{})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	simSolo, _ := BuildItemSimilarity(solo, nil)
	row, ok := simSolo.Scores[99]
	if !ok || len(row) != 0 {
		t.Fatalf("Scores[99] = %v (ok=%v), want fila vacía", row, ok)
	}
}

func TestItemSimilarityCategoryFactor(t *testing.T) {
	ix, err := BuildIndex([]Interaction{
		{UserID: 1, ItemID: 10},
		{UserID: 1, ItemID: 20},
		{UserID: 1, ItemID: 30},
	}, IndexOptions{})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	cats := map[int]string{10: "novela", 20: "novela", 30: "poesía"}
	sim, _ := BuildItemSimilarity(ix, cats)

	same := sim.Scores[10][20]  // misma categoría: factor 1.0
	cross := sim.Scores[10][30] // categoría distinta: factor 0.8
	if ratio := cross / same; math.Abs(ratio-0.8) > 1e-12 {
		t.Fatalf("cross/same = %v, want 0.8", ratio)
	}

	// sin mapa de categorías el factor siempre es 1.0
	simPlain, _ := BuildItemSimilarity(ix, nil)
	if got, want := simPlain.Scores[10][30], same; math.Abs(got-want) > 1e-12 {
		t.Fatalf("sin categorías sim(10,30) = %v, want %v", got, want)
	}
}

func TestItemCFColdStartReturnsPopular(t *testing.T) {
	ix := testIndex(t)
	sim, counts := BuildItemSimilarity(ix, nil)

	// el fallback frío no depende de n
	for _, n := range []int{1, 5, 50} {
		rec := RecommendItemCF([]int{99}, ix, sim, counts, RecOptions{N: n, TopK: 2})
		if got, want := rec[99], []int{10, 20}; !reflect.DeepEqual(got, want) {
			t.Fatalf("n=%d: rec[99] = %v, want %v", n, got, want)
		}
	}
}

func TestItemCFRanking(t *testing.T) {
	ix := testIndex(t)
	sim, counts := BuildItemSimilarity(ix, nil)

	// usuario 3 solo vio 10; sus vecinos son 20 (más fuerte) y 30
	rec := RecommendItemCF([]int{3}, ix, sim, counts, RecOptions{TopK: 10})
	if got, want := rec[3], []int{20, 30}; !reflect.DeepEqual(got, want) {
		t.Fatalf("rec[3] = %v, want %v", got, want)
	}

	// tamaño acotado por topk en todos los modos
	rec = RecommendItemCF([]int{1, 2, 3, 99}, ix, sim, counts, RecOptions{TopK: 1})
	for uid, items := range rec {
		if len(items) > 1 {
			t.Fatalf("rec[%d] tiene %d items, want <= 1", uid, len(items))
		}
	}
}

func TestItemCFHotFill(t *testing.T) {
	ix := testIndex(t)
	sim, counts := BuildItemSimilarity(ix, nil)

	// sin hot-fill: solo los candidatos rankeados
	rec := RecommendItemCF([]int{3}, ix, sim, counts, RecOptions{TopK: 3})
	if got := len(rec[3]); got != 2 {
		t.Fatalf("sin hot-fill len = %d, want 2", got)
	}

	// con hot-fill: se completa con populares y NO se deduplica contra lo ya
	// rankeado (comportamiento heredado, fijado acá a propósito)
	rec = RecommendItemCF([]int{3}, ix, sim, counts, RecOptions{TopK: 3, HotFill: true})
	if got, want := rec[3], []int{20, 30, 10}; !reflect.DeepEqual(got, want) {
		t.Fatalf("con hot-fill rec[3] = %v, want %v", got, want)
	}

	rec = RecommendItemCF([]int{3}, ix, sim, counts, RecOptions{TopK: 4, HotFill: true})
	if got, want := rec[3], []int{20, 30, 10, 20}; !reflect.DeepEqual(got, want) {
		t.Fatalf("hot-fill debe poder repetir candidatos: rec[3] = %v, want %v", got, want)
	}
}

func TestItemCFExcludeSeen(t *testing.T) {
	ix, err := BuildIndex([]Interaction{
		{UserID: 1, ItemID: 10},
		{UserID: 1, ItemID: 20},
		{UserID: 2, ItemID: 10},
		{UserID: 2, ItemID: 30},
	}, IndexOptions{})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	sim, _ := BuildItemSimilarity(ix, nil)

	// por defecto los items del propio historial pueden volver a salir
	got := scoredIDs(CandidatesItemCF(1, ix, sim, RecOptions{TopK: 10}))
	if !contains(got, 10) {
		t.Fatalf("sin ExcludeSeen, 10 debería estar en %v", got)
	}

	got = scoredIDs(CandidatesItemCF(1, ix, sim, RecOptions{TopK: 10, ExcludeSeen: true}))
	for _, id := range got {
		if id == 10 || id == 20 {
			t.Fatalf("con ExcludeSeen salió el item visto %d: %v", id, got)
		}
	}
}

func contains(ids []int, want int) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}
