package recsys

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotVersion se incrementa cuando cambia el algoritmo de construcción o
// la forma serializada: un snapshot de otra versión es un miss, nunca se
// deserializa a ciegas.
const SnapshotVersion = 1

// BuildParams identifica una construcción concreta de la matriz. Su huella
// entra en la clave de cache: si cambian los parámetros o el dataset (número
// de interacciones), cambia la clave y el snapshot viejo queda obsoleto solo.
type BuildParams struct {
	Dataset       string `json:"dataset"` // "books" | "movies"
	Kind          string `json:"kind"`    // "item_cf" | "user_cf" | "rating_cf"
	Interactions  int    `json:"interactions"`
	CategoryAware bool   `json:"categoryAware"`
	MaxHistory    int    `json:"maxHistory,omitempty"`
}

// Fingerprint es el sha256 (truncado) del JSON canónico de los parámetros.
func (p BuildParams) Fingerprint() string {
	b, _ := json.Marshal(p)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:12])
}

// CacheKey arma la clave del blob store.
func (p BuildParams) CacheKey() string {
	return fmt.Sprintf("cf:snapshot:%s:%s:v%d:%s", p.Dataset, p.Kind, SnapshotVersion, p.Fingerprint())
}

// Snapshot es el artefacto serializable de una construcción: índice, matriz y
// contadores, más los metadatos para detectar obsolescencia.
type Snapshot struct {
	Version     int         `json:"version"`
	Params      BuildParams `json:"params"`
	Fingerprint string      `json:"fingerprint"`
	BuiltAt     time.Time   `json:"builtAt"`

	Index       *Index       `json:"index,omitempty"`
	RatingIndex *RatingIndex `json:"ratingIndex,omitempty"`
	Sim         *SimMatrix   `json:"sim"`
	ItemCounts  Counts       `json:"itemCounts"`
	UserCounts  Counts       `json:"userCounts,omitempty"`
}

// NewSnapshot sella un artefacto recién construido.
func NewSnapshot(params BuildParams) *Snapshot {
	return &Snapshot{
		Version:     SnapshotVersion,
		Params:      params,
		Fingerprint: params.Fingerprint(),
		BuiltAt:     time.Now().UTC(),
	}
}

// BlobStore es el colaborador de cache: un almacén opaco de blobs JSON por
// clave. La implementación Redis vive en internal/cache.
type BlobStore interface {
	Load(ctx context.Context, key string, dest any) (bool, error)
	Save(ctx context.Context, key string, value any, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// LoadSnapshot intenta recuperar un snapshot compatible. Cualquier problema
// (clave ausente, blob corrupto, versión o huella distinta, error del store)
// se trata como miss silencioso: el caller recalcula sin cache.
func LoadSnapshot(ctx context.Context, store BlobStore, params BuildParams) *Snapshot {
	if store == nil {
		return nil
	}
	var snap Snapshot
	ok, err := store.Load(ctx, params.CacheKey(), &snap)
	if err != nil || !ok {
		return nil
	}
	if snap.Version != SnapshotVersion || snap.Fingerprint != params.Fingerprint() {
		return nil
	}
	if snap.Sim == nil {
		return nil
	}
	return &snap
}

// SaveSnapshot persiste el snapshot sin TTL: vale hasta que se borre o se
// recalcule con un pedido explícito de rebuild.
func SaveSnapshot(ctx context.Context, store BlobStore, snap *Snapshot) error {
	if store == nil {
		return nil
	}
	return store.Save(ctx, snap.Params.CacheKey(), snap, 0)
}
