package models

// RecsysSummary es el estado del dataset y de los snapshots cacheados.
type RecsysSummary struct {
	Dataset      string `json:"dataset"`
	Users        int    `json:"users"`
	Items        int    `json:"items"`
	Interactions int    `json:"interactions"`

	ItemSnapshot bool   `json:"itemSnapshot"` // hay snapshot vigente en cache
	UserSnapshot bool   `json:"userSnapshot"`
	Fingerprint  string `json:"fingerprint"`
}

// RebuildRequest es el body de /admin/recsys/rebuild. El tope de historial no
// se pide acá: viene de RECSYS_MAX_HISTORY, compartido con el serving, porque
// entra en el fingerprint del snapshot.
type RebuildRequest struct {
	Dataset string `json:"dataset"` // books | movies
}

// RebuildResult resume una reconstrucción explícita de snapshots.
type RebuildResult struct {
	Dataset      string `json:"dataset"`
	Interactions int    `json:"interactions"`
	Snapshots    int    `json:"snapshots"`
	Fingerprint  string `json:"fingerprint"`
	ElapsedMs    int64  `json:"elapsedMs"`
}
