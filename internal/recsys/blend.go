package recsys

import "context"

// DefaultBlendWeight pondera la lista de UserCF en la mezcla híbrida.
const DefaultBlendWeight = 0.8

// CatalogLookup es la frontera con el catálogo: el núcleo nunca consulta
// storage directamente, solo pide ordenamientos por popularidad.
type CatalogLookup interface {
	// TopPopular devuelve los k ids más populares del catálogo completo.
	TopPopular(ctx context.Context, k int) ([]int, error)
	// PopularityRank reordena los ids dados por popularidad descendente.
	PopularityRank(ctx context.Context, ids []int) ([]int, error)
}

// Blend mezcla la lista de UserCF con la de ItemCF para un usuario:
//
//	score = w*score_usercf + (1-w)*score_itemcf
//
// con w por defecto 0.8. Si ambas listas están vacías cae a populares del
// catálogo; si solo una sobrevive, sus candidatos se reordenan por
// popularidad. El orden final siempre lo da el catálogo, no el score
// mezclado (decisión heredada del sistema original). El id del usuario se
// filtra del conjunto de candidatos: en un espacio de ids genérico podría
// colarse como item.
func Blend(
	ctx context.Context,
	userID int,
	userList, itemList []Scored,
	w float64,
	topk int,
	catalog CatalogLookup,
) ([]int, error) {
	if topk <= 0 {
		topk = 10
	}
	if w < 0 || w > 1 {
		w = DefaultBlendWeight
	}

	if len(userList) == 0 && len(itemList) == 0 {
		return catalog.TopPopular(ctx, topk)
	}

	var selected []int
	switch {
	case len(userList) == 0:
		selected = scoredIDs(itemList)
	case len(itemList) == 0:
		selected = scoredIDs(userList)
	default:
		itemScore := make(map[int]float64, len(itemList))
		for _, s := range itemList {
			itemScore[s.ID] = s.Score
		}
		rank := newAccumulator()
		for _, s := range userList {
			// 0 si el candidato no aparece en la lista de ItemCF
			rank.add(s.ID, w*s.Score+(1-w)*itemScore[s.ID])
		}
		selected = scoredIDs(rank.top(topk))
	}

	selected = withoutID(selected, userID)
	ranked, err := catalog.PopularityRank(ctx, selected)
	if err != nil {
		return nil, err
	}
	if len(ranked) > topk {
		ranked = ranked[:topk]
	}
	return ranked, nil
}

func withoutID(ids []int, drop int) []int {
	out := ids[:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
