package recsys

import "math"

// UserCF ponderado por rating: la similitud entre usuarios es el coseno entre
// sus vectores de calificaciones (usuarios que puntúan parecido sobre los
// mismos items quedan cerca aunque compartan pocos items), y el score de un
// candidato acumula sim(usuario, vecino) * rating_del_vecino.

// BuildUserCosineSimilarity calcula el coseno usuario-usuario sobre el índice
// de ratings. Solo los pares con al menos un item co-calificado tienen celda.
func BuildUserCosineSimilarity(rix *RatingIndex) *SimMatrix {
	// norma de cada vector de ratings
	norms := make(map[int]float64, len(rix.Users))
	for _, user := range rix.Users {
		var sum float64
		for _, item := range rix.UserItems[user] {
			r := rix.Marks[user][item]
			sum += r * r
		}
		norms[user] = math.Sqrt(sum)
	}

	// índice invertido item -> usuarios, en orden de aparición
	itemUsers := make(map[int][]int)
	var itemOrder []int
	for _, user := range rix.Users {
		for _, item := range rix.UserItems[user] {
			if _, ok := itemUsers[item]; !ok {
				itemOrder = append(itemOrder, item)
			}
			itemUsers[item] = append(itemUsers[item], user)
		}
	}

	// producto punto acumulado por pares co-calificantes
	sim := newSimMatrix()
	for _, user := range rix.Users {
		sim.ensureRow(user)
	}
	for _, item := range itemOrder {
		users := itemUsers[item]
		for _, u := range users {
			for _, v := range users {
				if u == v {
					continue
				}
				sim.add(u, v, rix.Marks[u][item]*rix.Marks[v][item])
			}
		}
	}

	for u, row := range sim.Scores {
		for v := range row {
			den := norms[u] * norms[v]
			if den > 0 {
				row[v] /= den
			}
		}
	}
	return sim
}

// RecommendRatingUserCF rankea para un usuario con sus n vecinos por coseno:
// cada item calificado por un vecino y no por el usuario acumula
// sim(usuario,vecino) * rating_del_vecino. Usuario sin ratings -> lista vacía.
func RecommendRatingUserCF(userID int, rix *RatingIndex, sim *SimMatrix, opts RecOptions) []Scored {
	opts = opts.withDefaults()
	marks, ok := rix.Marks[userID]
	if !ok {
		return nil
	}

	rank := newAccumulator()
	for _, nb := range topNeighbors(sim.Row(userID), opts.N) {
		for _, item := range rix.UserItems[nb.ID] {
			if _, rated := marks[item]; rated {
				continue
			}
			rank.add(item, nb.Score*rix.Marks[nb.ID][item])
		}
	}
	return rank.top(opts.TopK)
}
