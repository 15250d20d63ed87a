package recsys

import (
	"math"
	"reflect"
	"testing"
)

func TestUserSimilaritySymmetry(t *testing.T) {
	sim, _, _ := BuildUserSimilarity(testIndex(t))
	checkSymmetry(t, sim)
}

func TestUserSimilarityDeterminism(t *testing.T) {
	ix := testIndex(t)
	simA, _, _ := BuildUserSimilarity(ix)
	simB, _, _ := BuildUserSimilarity(ix)
	if !reflect.DeepEqual(simA.Scores, simB.Scores) {
		t.Fatal("dos construcciones idénticas dieron matrices distintas")
	}
}

func TestUserSimilarityValues(t *testing.T) {
	ix := testIndex(t)
	sim, userCounts, itemCounts := BuildUserSimilarity(ix)

	// usuario 1 tocó 3 items, usuario 3 solo 1
	if got, want := userCounts[1], 3; got != want {
		t.Fatalf("userCounts[1] = %d, want %d", got, want)
	}
	// popularidad por item: cantidad de usuarios que lo tocaron
	if got, want := itemCounts[10], 3; got != want {
		t.Fatalf("itemCounts[10] = %d, want %d", got, want)
	}

	// usuarios 1 y 2 co-ocurren en el item 10 (3 usuarios) y en el 20 (2);
	// normalizado por sqrt(userCount_1 * userCount_2)
	want := (1/math.Log(4) + 1/math.Log(3)) / math.Sqrt(6)
	if got := sim.Scores[1][2]; math.Abs(got-want) > 1e-12 {
		t.Fatalf("sim(1,2) = %v, want %v", got, want)
	}
}

func TestUserCFColdStartReturnsPopular(t *testing.T) {
	ix := testIndex(t)
	sim, _, itemCounts := BuildUserSimilarity(ix)

	for _, n := range []int{1, 50} {
		rec := RecommendUserCF([]int{99}, ix, sim, itemCounts, RecOptions{N: n, TopK: 3})
		if got, want := rec[99], []int{10, 20, 30}; !reflect.DeepEqual(got, want) {
			t.Fatalf("n=%d: rec[99] = %v, want %v", n, got, want)
		}
	}
}

func TestUserCFRanking(t *testing.T) {
	ix := testIndex(t)
	sim, _, itemCounts := BuildUserSimilarity(ix)

	// para el usuario 3: el vecino 2 pesa más que el 1; los items de ambos
	// acumulan, empate entre 10 y 20 se resuelve por orden de inserción
	rec := RecommendUserCF([]int{3}, ix, sim, itemCounts, RecOptions{TopK: 10})
	if got, want := rec[3], []int{10, 20, 30}; !reflect.DeepEqual(got, want) {
		t.Fatalf("rec[3] = %v, want %v", got, want)
	}

	// tamaño acotado
	rec = RecommendUserCF([]int{1, 2, 3}, ix, sim, itemCounts, RecOptions{TopK: 2})
	for uid, items := range rec {
		if len(items) > 2 {
			t.Fatalf("rec[%d] tiene %d items, want <= 2", uid, len(items))
		}
	}
}

func TestUserCFHotFillLength(t *testing.T) {
	ix := testIndex(t)
	sim, _, itemCounts := BuildUserSimilarity(ix)

	// el usuario 3 junta 3 candidatos; con topk=5 y hot-fill la lista llega a
	// min(topk, rankeados + relleno popular)
	rec := RecommendUserCF([]int{3}, ix, sim, itemCounts, RecOptions{TopK: 5, HotFill: true})
	if got := len(rec[3]); got != 5 {
		t.Fatalf("con hot-fill len = %d, want 5", got)
	}
	rec = RecommendUserCF([]int{3}, ix, sim, itemCounts, RecOptions{TopK: 5})
	if got := len(rec[3]); got != 3 {
		t.Fatalf("sin hot-fill len = %d, want 3", got)
	}
}
