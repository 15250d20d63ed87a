package recsys

import "sort"

// Counts lleva cuántas interacciones acumula cada entidad.
type Counts map[int]int

// Scored es un candidato con su score acumulado.
type Scored struct {
	ID    int     `json:"id"`
	Score float64 `json:"score"`
}

// accumulator suma scores por candidato recordando el orden de primera
// inserción: los empates del top-K se resuelven por ese orden (sort estable),
// igual que el dict + sort del ranking original.
type accumulator struct {
	scores map[int]float64
	order  []int
}

func newAccumulator() *accumulator {
	return &accumulator{scores: make(map[int]float64)}
}

func (a *accumulator) add(id int, score float64) {
	if _, ok := a.scores[id]; !ok {
		a.order = append(a.order, id)
	}
	a.scores[id] += score
}

// top devuelve los k candidatos de mayor score, descendente.
func (a *accumulator) top(k int) []Scored {
	out := make([]Scored, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, Scored{ID: id, Score: a.scores[id]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if k >= 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// PopularItems devuelve los k items con más interacciones, descendente.
// itemOrder fija el desempate (orden de primera aparición en el índice).
func PopularItems(counts Counts, itemOrder []int, k int) []int {
	ids := make([]int, len(itemOrder))
	copy(ids, itemOrder)
	sort.SliceStable(ids, func(i, j int) bool { return counts[ids[i]] > counts[ids[j]] })
	if len(ids) > k {
		ids = ids[:k]
	}
	return ids
}

// RecOptions son los parámetros de ranking comunes a los dos modos.
type RecOptions struct {
	N       int  // amplitud de vecinos por item/usuario del historial
	TopK    int  // tamaño de la lista final
	HotFill bool // rellenar con populares si no se llega a TopK
	// ExcludeSeen quita del resultado los items que el usuario ya tiene en su
	// historial. Apagado por defecto: ItemCF/UserCF implícitos no excluían;
	// la variante por rating sí (lo fuerza ella misma).
	ExcludeSeen bool
}

func (o RecOptions) withDefaults() RecOptions {
	if o.N <= 0 {
		o.N = 50
	}
	if o.TopK <= 0 {
		o.TopK = 20
	}
	return o
}

func scoredIDs(list []Scored) []int {
	ids := make([]int, len(list))
	for i, s := range list {
		ids[i] = s.ID
	}
	return ids
}

// hotFill rellena hasta topk con populares. Ojo: no deduplica contra lo ya
// rankeado, comportamiento heredado del sistema original y fijado por test;
// cambiarlo es un cambio de contrato.
func hotFill(items, popular []int, topk int) []int {
	fill := topk - len(items)
	if fill <= 0 {
		return items
	}
	if fill > len(popular) {
		fill = len(popular)
	}
	return append(items, popular[:fill]...)
}
