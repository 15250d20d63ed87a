package recsys

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
)

// memStore es un BlobStore en memoria que serializa igual que Redis (JSON).
type memStore struct {
	blobs map[string][]byte
}

func newMemStore() *memStore { return &memStore{blobs: make(map[string][]byte)} }

func (m *memStore) Load(_ context.Context, key string, dest any) (bool, error) {
	b, ok := m.blobs[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *memStore) Save(_ context.Context, key string, value any, _ int) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.blobs[key] = b
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.blobs, key)
	return nil
}

func TestFingerprintChangesWithParams(t *testing.T) {
	p := BuildParams{Dataset: "books", Kind: "item_cf", Interactions: 100}
	q := p
	q.Interactions = 101
	if p.Fingerprint() == q.Fingerprint() {
		t.Fatal("parámetros distintos produjeron la misma huella")
	}
	if p.CacheKey() == q.CacheKey() {
		t.Fatal("parámetros distintos produjeron la misma clave")
	}
	// la huella es estable para los mismos parámetros
	if p.Fingerprint() != (BuildParams{Dataset: "books", Kind: "item_cf", Interactions: 100}).Fingerprint() {
		t.Fatal("la huella no es determinista")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	ix := testIndex(t)
	sim, counts := BuildItemSimilarity(ix, nil)

	params := BuildParams{Dataset: "books", Kind: "item_cf", Interactions: 6}
	snap := NewSnapshot(params)
	snap.Index = ix
	snap.Sim = sim
	snap.ItemCounts = counts

	store := newMemStore()
	if err := SaveSnapshot(context.Background(), store, snap); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	loaded := LoadSnapshot(context.Background(), store, params)
	if loaded == nil {
		t.Fatal("LoadSnapshot devolvió nil tras guardar")
	}
	if !reflect.DeepEqual(loaded.Sim.Scores, sim.Scores) {
		t.Fatal("la matriz no sobrevivió el round-trip")
	}
	if !reflect.DeepEqual(loaded.ItemCounts, counts) {
		t.Fatal("los contadores no sobrevivieron el round-trip")
	}
	if !reflect.DeepEqual(loaded.Index.UserItems, ix.UserItems) {
		t.Fatal("el índice no sobrevivió el round-trip")
	}
}

func TestSnapshotMissOnStaleOrCorrupt(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	params := BuildParams{Dataset: "books", Kind: "item_cf", Interactions: 6}

	// clave ausente
	if got := LoadSnapshot(ctx, store, params); got != nil {
		t.Fatalf("miss esperado con store vacío, got %+v", got)
	}

	// blob corrupto: miss silencioso, nunca error
	store.blobs[params.CacheKey()] = []byte("{no es json")
	if got := LoadSnapshot(ctx, store, params); got != nil {
		t.Fatalf("miss esperado con blob corrupto, got %+v", got)
	}

	// versión vieja
	snap := NewSnapshot(params)
	snap.Sim = newSimMatrix()
	snap.Version = SnapshotVersion + 1
	b, _ := json.Marshal(snap)
	store.blobs[params.CacheKey()] = b
	if got := LoadSnapshot(ctx, store, params); got != nil {
		t.Fatalf("miss esperado con versión distinta, got %+v", got)
	}

	// otros parámetros (dataset creció) no ven el snapshot viejo
	snap.Version = SnapshotVersion
	b, _ = json.Marshal(snap)
	store.blobs[params.CacheKey()] = b
	grown := params
	grown.Interactions = 7
	if got := LoadSnapshot(ctx, store, grown); got != nil {
		t.Fatalf("miss esperado con huella distinta, got %+v", got)
	}

	// sin store configurado también es miss silencioso
	if got := LoadSnapshot(ctx, nil, params); got != nil {
		t.Fatalf("miss esperado sin store, got %+v", got)
	}
}
