package recsys

import (
	"errors"
	"reflect"
	"testing"
)

func TestBuildIndexKeepsOrderAndDuplicates(t *testing.T) {
	records := []Interaction{
		{UserID: 1, ItemID: 10},
		{UserID: 1, ItemID: 20},
		{UserID: 2, ItemID: 10},
		{UserID: 1, ItemID: 10}, // duplicado, se conserva
	}
	ix, err := BuildIndex(records, IndexOptions{NeedInverse: true})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	if got, want := ix.UserItems[1], []int{10, 20, 10}; !reflect.DeepEqual(got, want) {
		t.Fatalf("UserItems[1] = %v, want %v", got, want)
	}
	if got, want := ix.ItemUsers[10], []int{1, 2, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ItemUsers[10] = %v, want %v", got, want)
	}
	if got, want := ix.Users, []int{1, 2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Users = %v, want %v", got, want)
	}
	if got, want := ix.Items, []int{10, 20}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Items = %v, want %v", got, want)
	}
}

func TestBuildIndexRejectsMalformedRecord(t *testing.T) {
	records := []Interaction{
		{UserID: 1, ItemID: 10},
		{UserID: 0, ItemID: 20},
	}
	_, err := BuildIndex(records, IndexOptions{})
	if err == nil {
		t.Fatal("BuildIndex con userId=0 no falló")
	}
	var dfe *DataFormatError
	if !errors.As(err, &dfe) {
		t.Fatalf("error = %T, want *DataFormatError", err)
	}
	if dfe.Row != 1 {
		t.Fatalf("Row = %d, want 1", dfe.Row)
	}
}

func TestBuildIndexWithoutInverse(t *testing.T) {
	ix, err := BuildIndex([]Interaction{{UserID: 1, ItemID: 10}}, IndexOptions{})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if ix.ItemUsers != nil {
		t.Fatalf("ItemUsers = %v, want nil sin NeedInverse", ix.ItemUsers)
	}
}

func TestBuildIndexMaxHistoryTruncates(t *testing.T) {
	records := []Interaction{
		{UserID: 1, ItemID: 10},
		{UserID: 1, ItemID: 20},
		{UserID: 1, ItemID: 30},
	}
	ix, err := BuildIndex(records, IndexOptions{NeedInverse: true, MaxHistory: 2})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if got, want := ix.UserItems[1], []int{10, 20}; !reflect.DeepEqual(got, want) {
		t.Fatalf("UserItems[1] = %v, want %v (truncado)", got, want)
	}
	// el índice inverso conserva la interacción recortada
	if got, want := ix.ItemUsers[30], []int{1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ItemUsers[30] = %v, want %v", got, want)
	}
}

// Un item visto solo más allá del tope queda en Items con contador 0: la lista
// de populares lo ordena último, nunca por delante de items con interacciones.
func TestMaxHistoryTruncatedItemSortsLastInPopular(t *testing.T) {
	records := []Interaction{
		{UserID: 1, ItemID: 10},
		{UserID: 1, ItemID: 20},
		{UserID: 1, ItemID: 30}, // recortado del historial directo
		{UserID: 2, ItemID: 20},
	}
	ix, err := BuildIndex(records, IndexOptions{NeedInverse: true, MaxHistory: 2})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	_, counts := BuildItemSimilarity(ix, nil)
	if counts[30] != 0 {
		t.Fatalf("counts[30] = %d, want 0 (solo aparece recortado)", counts[30])
	}

	popular := PopularItems(counts, ix.Items, 3)
	if got, want := popular, []int{20, 10, 30}; !reflect.DeepEqual(got, want) {
		t.Fatalf("PopularItems = %v, want %v (el item recortado al final)", got, want)
	}
}
