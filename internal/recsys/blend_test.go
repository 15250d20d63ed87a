package recsys

import (
	"context"
	"reflect"
	"testing"
)

// fakeCatalog ordena por la lista fija de popularidad.
type fakeCatalog struct {
	popular []int // ids en orden de popularidad descendente
}

func (f *fakeCatalog) TopPopular(_ context.Context, k int) ([]int, error) {
	out := f.popular
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func (f *fakeCatalog) PopularityRank(_ context.Context, ids []int) ([]int, error) {
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []int
	for _, id := range f.popular {
		if want[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

func TestBlendBothEmptyFallsBackToPopular(t *testing.T) {
	cat := &fakeCatalog{popular: []int{5, 4, 3, 2, 1}}
	got, err := Blend(context.Background(), 7, nil, nil, 0.8, 3, cat)
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}
	if want := []int{5, 4, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Blend = %v, want %v", got, want)
	}
}

func TestBlendOneEmptyUsesSurvivor(t *testing.T) {
	cat := &fakeCatalog{popular: []int{5, 4, 3, 2, 1}}
	itemList := []Scored{{ID: 1, Score: 0.9}, {ID: 4, Score: 0.1}}

	// lista de usuario vacía: salen los candidatos de item-cf, reordenados
	// por popularidad, nunca un error
	got, err := Blend(context.Background(), 7, nil, itemList, 0.8, 10, cat)
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}
	if want := []int{4, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Blend = %v, want %v", got, want)
	}

	// y simétrico con la lista de item-cf vacía
	userList := []Scored{{ID: 2, Score: 0.5}, {ID: 5, Score: 0.4}}
	got, err = Blend(context.Background(), 7, userList, nil, 0.8, 10, cat)
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}
	if want := []int{5, 2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Blend = %v, want %v", got, want)
	}
}

func TestBlendExcludesRequestingUserID(t *testing.T) {
	// el id del usuario puede coincidir con un id de item en el espacio
	// genérico de ids; el blend lo filtra del resultado
	cat := &fakeCatalog{popular: []int{7, 2}}
	userList := []Scored{{ID: 7, Score: 0.9}, {ID: 2, Score: 0.5}}
	got, err := Blend(context.Background(), 7, userList, nil, 0.8, 10, cat)
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}
	if want := []int{2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Blend = %v, want %v", got, want)
	}
}

func TestBlendCombinesScores(t *testing.T) {
	// popularidad neutra (orden natural) para observar la selección
	cat := &fakeCatalog{popular: []int{1, 2, 3}}
	userList := []Scored{{ID: 1, Score: 0.2}, {ID: 2, Score: 0.3}, {ID: 3, Score: 0.1}}
	itemList := []Scored{{ID: 1, Score: 0.9}, {ID: 3, Score: 0.2}}

	// w=0.5: 1 -> 0.55, 2 -> 0.15, 3 -> 0.15; con topk=1 gana 1
	got, err := Blend(context.Background(), 9, userList, itemList, 0.5, 1, cat)
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}
	if want := []int{1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Blend = %v, want %v", got, want)
	}
}

func TestBlendMonotonicityInW(t *testing.T) {
	// A tiene mejor score de user-cf que de item-cf: al subir w su ranking
	// solo puede mejorar; con topk=1 eso se ve como "una vez que A entra,
	// no vuelve a salir"
	cat := &fakeCatalog{popular: []int{100, 200}}
	userList := []Scored{{ID: 100, Score: 0.9}, {ID: 200, Score: 0.5}}
	itemList := []Scored{{ID: 100, Score: 0.1}, {ID: 200, Score: 0.9}}

	selected := false
	for _, w := range []float64{0.1, 0.3, 0.5, 0.7, 0.9, 1.0} {
		got, err := Blend(context.Background(), 9, userList, itemList, w, 1, cat)
		if err != nil {
			t.Fatalf("Blend(w=%v): %v", w, err)
		}
		isA := len(got) == 1 && got[0] == 100
		if selected && !isA {
			t.Fatalf("w=%v: el candidato 100 salió del top tras haber entrado", w)
		}
		if isA {
			selected = true
		}
	}
	if !selected {
		t.Fatal("el candidato 100 nunca entró al top con w alto")
	}
}
