package recsys

import "math"

// BuildUserSimilarity construye la matriz usuario-usuario, espejo de la de
// items sobre el índice inverso: por cada item, cada par de usuarios que
// co-interactuaron aporta 1/log(1+|usuarios del item|) (los items muy
// populares aportan menos; a esta granularidad no hay categorías).
// Normaliza por sqrt(userCount_u * userCount_v).
//
// Devuelve userCount (items tocados por usuario, vía el bucle externo sobre
// items) e itemCount (usuarios por item), que el ranker usa como popularidad.
func BuildUserSimilarity(ix *Index) (*SimMatrix, Counts, Counts) {
	sim := newSimMatrix()
	userCounts := make(Counts)
	itemCounts := make(Counts)

	for _, item := range ix.Items {
		users := ix.ItemUsers[item]
		itemCounts[item] += len(users)
		damp := math.Log(1 + float64(len(users)))
		for _, user := range users {
			userCounts[user]++
			sim.ensureRow(user)
			for _, related := range users {
				if user == related {
					continue
				}
				sim.add(user, related, 1/damp)
			}
		}
	}

	sim.normalize(userCounts)
	return sim, userCounts, itemCounts
}

// CandidatesUserCF puntúa candidatos para un usuario: toma sus n usuarios más
// similares y acumula, por cada item del historial de cada vecino, el score
// de similitud del vecino que lo aporta. Usuario sin historial -> nil.
func CandidatesUserCF(userID int, ix *Index, sim *SimMatrix, opts RecOptions) []Scored {
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
	for _, nb := range topNeighbors(sim.Row(userID), opts.N) {
		for _, item := range ix.UserItems[nb.ID] {
			if seen != nil && seen[item] {
				continue
			}
			rank.add(item, nb.Score)
		}
	}
	return rank.top(opts.TopK)
}

// RecommendUserCF resuelve la lista final por usuario con la misma política
// de arranque frío y hot-fill que el modo item.
func RecommendUserCF(users []int, ix *Index, sim *SimMatrix, itemCounts Counts, opts RecOptions) map[int][]int {
	opts = opts.withDefaults()
	popular := PopularItems(itemCounts, ix.Items, opts.TopK)

	rec := make(map[int][]int, len(users))
	for _, userID := range users {
		if !ix.HasUser(userID) {
			rec[userID] = popular
			continue
		}
		items := scoredIDs(CandidatesUserCF(userID, ix, sim, opts))
		if opts.HotFill {
			items = hotFill(items, popular, opts.TopK)
		}
		rec[userID] = items
	}
	return rec
}
