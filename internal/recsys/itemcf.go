package recsys

import "math"

// BuildItemSimilarity construye la matriz item-item por co-ocurrencia.
//
// Por cada usuario con historial L, cada par {i,j} ⊆ L (i≠j, duplicados
// cuentan) aporta factor/log(1+|L|) a ambas direcciones: los usuarios muy
// activos co-ocurren con todo y sin el amortiguador dominarían la matriz.
// Si hay mapa de categorías, pares de la misma categoría pesan 1.0 y pares
// cruzados 0.8 (premia la categoría sin anular la señal cruzada).
// Al final se normaliza por sqrt(count_i*count_j).
//
// Devuelve además count por item (una vez por ocurrencia (usuario,item), sin
// deduplicar por usuario); el ranker lo reutiliza como popularidad.
//
// Memoria: el acumulador crece O(sum |L|^2); acotar historiales con
// IndexOptions.MaxHistory en catálogos grandes.
func BuildItemSimilarity(ix *Index, item2cate map[int]string) (*SimMatrix, Counts) {
	sim := newSimMatrix()
	counts := make(Counts)

	for _, user := range ix.Users {
		items := ix.UserItems[user]
		damp := math.Log(1 + float64(len(items)))
		for _, item := range items {
			counts[item]++
			sim.ensureRow(item)
			for _, related := range items {
				if item == related {
					continue
				}
				score := 1.0
				if item2cate != nil && item2cate[item] != item2cate[related] {
					score = 0.8
				}
				sim.add(item, related, score/damp)
			}
		}
	}

	sim.normalize(counts)
	return sim, counts
}

// CandidatesItemCF puntúa candidatos para un usuario con historial: por cada
// item del historial toma sus n vecinos más similares y acumula el score de
// similitud (un candidato sugerido por varios items del historial suma todas
// las contribuciones). Usuario sin historial -> nil (el caller decide el
// fallback frío).
func CandidatesItemCF(userID int, ix *Index, sim *SimMatrix, opts RecOptions) []Scored {
	opts = opts.withDefaults()
	if !ix.HasUser(userID) {
		return nil
	}

	var seen map[int]bool
	if opts.ExcludeSeen {
		seen = make(map[int]bool)
		for _, it := range ix.UserItems[userID] {
			seen[it] = true
		}
	}

	rank := newAccumulator()
	for _, hisItem := range ix.UserItems[userID] {
		for _, nb := range topNeighbors(sim.Row(hisItem), opts.N) {
			if seen != nil && seen[nb.ID] {
				continue
			}
			rank.add(nb.ID, nb.Score)
		}
	}
	return rank.top(opts.TopK)
}

// RecommendItemCF resuelve la lista final por usuario: fallback a populares
// para usuarios fríos y relleno hot-fill opcional.
func RecommendItemCF(users []int, ix *Index, sim *SimMatrix, counts Counts, opts RecOptions) map[int][]int {
	opts = opts.withDefaults()
	popular := PopularItems(counts, ix.Items, opts.TopK)

	rec := make(map[int][]int, len(users))
	for _, userID := range users {
		if !ix.HasUser(userID) {
			rec[userID] = popular
			continue
		}
		items := scoredIDs(CandidatesItemCF(userID, ix, sim, opts))
		if opts.HotFill {
			items = hotFill(items, popular, opts.TopK)
		}
		rec[userID] = items
	}
	return rec
}
