package recsys

import (
	"math"
	"reflect"
	"testing"
)

// Escenario de referencia: a y b puntúan X,Y,Z parecido, c diverge en Z,
// y solo a y c vieron R.
const (
	userA = 1
	userB = 2
	userC = 3
	itemX = 101
	itemY = 102
	itemZ = 103
	itemR = 104
)

func scenarioIndex(t *testing.T) *RatingIndex {
	t.Helper()
	rix, err := BuildRatingIndex([]Interaction{
		{UserID: userA, ItemID: itemX, Rating: 5},
		{UserID: userA, ItemID: itemY, Rating: 4},
		{UserID: userA, ItemID: itemZ, Rating: 1},
		{UserID: userA, ItemID: itemR, Rating: 5},
		{UserID: userB, ItemID: itemX, Rating: 4},
		{UserID: userB, ItemID: itemY, Rating: 3},
		{UserID: userB, ItemID: itemZ, Rating: 1},
		{UserID: userC, ItemID: itemX, Rating: 2},
		{UserID: userC, ItemID: itemY, Rating: 2},
		{UserID: userC, ItemID: itemZ, Rating: 5},
		{UserID: userC, ItemID: itemR, Rating: 1},
	})
	if err != nil {
		t.Fatalf("BuildRatingIndex: %v", err)
	}
	return rix
}

func TestRatingIndexDeduplicates(t *testing.T) {
	rix, err := BuildRatingIndex([]Interaction{
		{UserID: 1, ItemID: 10, Rating: 2},
		{UserID: 1, ItemID: 10, Rating: 4}, // recalificación: gana la última
	})
	if err != nil {
		t.Fatalf("BuildRatingIndex: %v", err)
	}
	if got, want := rix.Marks[1][10], 4.0; got != want {
		t.Fatalf("Marks[1][10] = %v, want %v", got, want)
	}
	if got, want := rix.UserItems[1], []int{10}; !reflect.DeepEqual(got, want) {
		t.Fatalf("UserItems[1] = %v, want %v", got, want)
	}
}

func TestRatingSimilarityValues(t *testing.T) {
	rix := scenarioIndex(t)
	sim, counts := BuildRatingSimilarity(rix)
	checkSymmetry(t, sim)

	// X la calificaron 3 usuarios, R solo 2; co-calificaron X y R dos (a, c)
	if got, want := counts[itemX], 3; got != want {
		t.Fatalf("counts[X] = %d, want %d", got, want)
	}
	want := 2 / math.Sqrt(3*2)
	if got := sim.Scores[itemX][itemR]; math.Abs(got-want) > 1e-12 {
		t.Fatalf("sim(X,R) = %v, want %v", got, want)
	}
}

func TestRecommendRatingCFSurfacesUnseenItem(t *testing.T) {
	rix := scenarioIndex(t)
	sim, _ := BuildRatingSimilarity(rix)

	// b no vio R y es lo único que le falta: topk=1 tiene que sacar R
	got := RecommendRatingCF(userB, rix, sim, RecOptions{N: 15, TopK: 1})
	if len(got) != 1 || got[0].ID != itemR {
		t.Fatalf("recomendación para b = %v, want [R]", got)
	}

	// los items ya calificados por b quedan fuera siempre
	all := RecommendRatingCF(userB, rix, sim, RecOptions{N: 15, TopK: 10})
	for _, s := range all {
		if _, rated := rix.Marks[userB][s.ID]; rated {
			t.Fatalf("la variante por rating devolvió un item ya calificado: %d", s.ID)
		}
	}
}

func TestRecommendRatingCFUnknownUser(t *testing.T) {
	rix := scenarioIndex(t)
	sim, _ := BuildRatingSimilarity(rix)
	if got := RecommendRatingCF(99, rix, sim, RecOptions{}); len(got) != 0 {
		t.Fatalf("usuario sin ratings devolvió %v, want lista vacía", got)
	}
}

func TestUserCosineSimilarityRanksLikeScenario(t *testing.T) {
	rix := scenarioIndex(t)
	sim := BuildUserCosineSimilarity(rix)
	checkSymmetry(t, sim)

	// a y b co-puntúan parecido, c diverge en Z
	if sim.Scores[userA][userB] <= sim.Scores[userA][userC] {
		t.Fatalf("sim(a,b)=%v debe superar sim(a,c)=%v",
			sim.Scores[userA][userB], sim.Scores[userA][userC])
	}
	if sim.Scores[userB][userA] <= sim.Scores[userB][userC] {
		t.Fatalf("sim(b,a)=%v debe superar sim(b,c)=%v",
			sim.Scores[userB][userA], sim.Scores[userB][userC])
	}
}

func TestRecommendRatingUserCFSurfacesUnseenItem(t *testing.T) {
	rix := scenarioIndex(t)
	sim := BuildUserCosineSimilarity(rix)

	got := RecommendRatingUserCF(userB, rix, sim, RecOptions{N: 15, TopK: 1})
	if len(got) != 1 || got[0].ID != itemR {
		t.Fatalf("recomendación para b = %v, want [R]", got)
	}
	if got := RecommendRatingUserCF(99, rix, sim, RecOptions{}); len(got) != 0 {
		t.Fatalf("usuario sin ratings devolvió %v, want lista vacía", got)
	}
}
