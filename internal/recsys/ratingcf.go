package recsys

// Variante item-based ponderada por rating explícito (catálogo de películas):
// la co-ocurrencia no se amortigua ni usa categorías, el score de un candidato
// es rating_del_item_origen * similitud(origen, candidato), y los items que el
// usuario ya calificó quedan excluidos del resultado (política más estricta
// que la variante implícita, que no excluye nada).

// RatingIndex agrupa los ratings por usuario. A diferencia del índice
// implícito, las calificaciones repetidas de un (usuario,item) se deduplican:
// la última gana.
type RatingIndex struct {
	Marks     map[int]map[int]float64 `json:"marks"`
	UserItems map[int][]int           `json:"userItems"` // orden de primera calificación
	Users     []int                   `json:"users"`
}

// BuildRatingIndex agrupa registros con rating explícito.
func BuildRatingIndex(records []Interaction) (*RatingIndex, error) {
	rix := &RatingIndex{
		Marks:     make(map[int]map[int]float64),
		UserItems: make(map[int][]int),
	}
	for row, rec := range records {
		if rec.UserID <= 0 || rec.ItemID <= 0 {
			return nil, &DataFormatError{Row: row, Reason: "ids no positivos en rating"}
		}
		if _, ok := rix.Marks[rec.UserID]; !ok {
			rix.Marks[rec.UserID] = make(map[int]float64)
			rix.Users = append(rix.Users, rec.UserID)
		}
		if _, dup := rix.Marks[rec.UserID][rec.ItemID]; !dup {
			rix.UserItems[rec.UserID] = append(rix.UserItems[rec.UserID], rec.ItemID)
		}
		rix.Marks[rec.UserID][rec.ItemID] = rec.Rating
	}
	return rix, nil
}

// BuildRatingSimilarity arma la matriz item-item sobre el índice de ratings:
// C[i][j] cuenta usuarios que calificaron ambos, N[i] usuarios que calificaron
// i, y se normaliza por sqrt(N_i*N_j).
func BuildRatingSimilarity(rix *RatingIndex) (*SimMatrix, Counts) {
	sim := newSimMatrix()
	counts := make(Counts)

	for _, user := range rix.Users {
		items := rix.UserItems[user]
		for _, item := range items {
			counts[item]++
			sim.ensureRow(item)
			for _, related := range items {
				if item == related {
					continue
				}
				sim.add(item, related, 1)
			}
		}
	}

	sim.normalize(counts)
	return sim, counts
}

// RecommendRatingCF rankea para un usuario: por cada item calificado toma sus
// n vecinos, descarta los ya calificados y acumula rating*similitud. Usuario
// sin ratings -> lista vacía (esta variante no tiene fallback a populares).
func RecommendRatingCF(userID int, rix *RatingIndex, sim *SimMatrix, opts RecOptions) []Scored {
	opts = opts.withDefaults()
	marks, ok := rix.Marks[userID]
	if !ok {
		return nil
	}

	rank := newAccumulator()
	for _, item := range rix.UserItems[userID] {
		mark := marks[item]
		for _, nb := range topNeighbors(sim.Row(item), opts.N) {
			if _, rated := marks[nb.ID]; rated {
				continue
			}
			rank.add(nb.ID, mark*nb.Score)
		}
	}
	return rank.top(opts.TopK)
}
