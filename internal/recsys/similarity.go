package recsys

import (
	"math"
	"sort"
)

// Neighbor es un vecino de la matriz con su score normalizado.
type Neighbor struct {
	ID    int     `json:"id"`
	Score float64 `json:"score"`
}

// SimMatrix es la matriz de similitud entidad -> (entidad relacionada -> score).
// Es simétrica por construcción: cada par co-ocurrente se incrementa en ambas
// direcciones en la misma pasada y el divisor sqrt(count_i*count_j) también es
// simétrico. Order registra la primera inserción por fila para que los
// desempates del top-N sean deterministas.
type SimMatrix struct {
	Scores map[int]map[int]float64 `json:"scores"`
	Order  map[int][]int           `json:"order"`
}

func newSimMatrix() *SimMatrix {
	return &SimMatrix{
		Scores: make(map[int]map[int]float64),
		Order:  make(map[int][]int),
	}
}

// ensureRow garantiza que toda entidad indexada tenga fila, aunque nunca
// co-ocurra con nadie (fila vacía, no ausente).
func (m *SimMatrix) ensureRow(i int) {
	if _, ok := m.Scores[i]; !ok {
		m.Scores[i] = make(map[int]float64)
	}
}

func (m *SimMatrix) add(i, j int, delta float64) {
	m.ensureRow(i)
	if _, ok := m.Scores[i][j]; !ok {
		m.Order[i] = append(m.Order[i], j)
	}
	m.Scores[i][j] += delta
}

// normalize divide cada celda por sqrt(count_i * count_j). Los contadores
// siempre son > 0 para entidades admitidas al índice (BuildIndex lo garantiza).
func (m *SimMatrix) normalize(counts Counts) {
	for i, row := range m.Scores {
		for j := range row {
			row[j] /= math.Sqrt(float64(counts[i]) * float64(counts[j]))
		}
	}
}

// Row devuelve los vecinos de i ordenados por score descendente; los empates
// conservan el orden de inserción en la fila.
func (m *SimMatrix) Row(i int) []Neighbor {
	order := m.Order[i]
	out := make([]Neighbor, 0, len(order))
	for _, j := range order {
		out = append(out, Neighbor{ID: j, Score: m.Scores[i][j]})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	return out
}

func topNeighbors(row []Neighbor, n int) []Neighbor {
	if len(row) > n {
		row = row[:n]
	}
	return row
}
