// Package recsys implementa el núcleo de filtrado colaborativo:
// índice de interacciones, matrices de similitud item/usuario,
// ranking top-K y mezcla híbrida. No toca Mongo ni Redis.
package recsys

import "fmt"

// Interaction es un registro crudo (userId, itemId, rating opcional).
type Interaction struct {
	UserID int     `json:"userId"`
	ItemID int     `json:"itemId"`
	Rating float64 `json:"rating,omitempty"`
}

// DataFormatError señala un registro mal formado en la carga de datos.
// Se propaga al caller, no se recupera localmente.
type DataFormatError struct {
	Row    int
	Reason string
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("registro %d mal formado: %s", e.Row, e.Reason)
}

// IndexOptions configura la construcción del índice.
type IndexOptions struct {
	// NeedInverse indica si hay que construir también item->usuarios
	// (lo necesitan UserCF y el resumen admin; ItemCF solo usa el directo).
	NeedInverse bool
	// MaxHistory trunca historiales de usuario más largos (0 = sin límite).
	// El acumulador de ItemCF crece O(sum |historial|^2), este es el freno.
	// Las interacciones recortadas sobreviven solo en el índice inverso: un
	// item visto únicamente más allá del tope queda en Items con contador 0
	// y sin fila de similitud, así que ordena último en los populares.
	MaxHistory int
}

// Index guarda la adyacencia usuario<->item. Se construye una vez por
// snapshot de datos y después es de solo lectura.
type Index struct {
	UserItems map[int][]int `json:"userItems"`
	ItemUsers map[int][]int `json:"itemUsers,omitempty"`

	// Orden de primera aparición, para recorridos y desempates deterministas.
	Users []int `json:"users"`
	Items []int `json:"items"`

	itemSet map[int]struct{} // solo durante la construcción
}

// BuildIndex arma el índice desde los registros crudos. El orden de
// interacción se conserva y los duplicados se mantienen (cuentan).
// Un registro con ids no positivos corta la construcción con DataFormatError:
// es la garantía de que ninguna entidad con cero interacciones entra al
// índice (la normalización posterior asume contadores > 0).
func BuildIndex(records []Interaction, opts IndexOptions) (*Index, error) {
	ix := &Index{
		UserItems: make(map[int][]int),
		itemSet:   make(map[int]struct{}),
	}
	if opts.NeedInverse {
		ix.ItemUsers = make(map[int][]int)
	}

	for row, rec := range records {
		if rec.UserID <= 0 {
			return nil, &DataFormatError{Row: row, Reason: fmt.Sprintf("userId inválido: %d", rec.UserID)}
		}
		if rec.ItemID <= 0 {
			return nil, &DataFormatError{Row: row, Reason: fmt.Sprintf("itemId inválido: %d", rec.ItemID)}
		}

		if _, ok := ix.UserItems[rec.UserID]; !ok {
			ix.Users = append(ix.Users, rec.UserID)
			ix.UserItems[rec.UserID] = nil
		}
		ix.noteItem(rec.ItemID)

		if opts.NeedInverse {
			ix.ItemUsers[rec.ItemID] = append(ix.ItemUsers[rec.ItemID], rec.UserID)
		}

		if opts.MaxHistory > 0 && len(ix.UserItems[rec.UserID]) >= opts.MaxHistory {
			continue // historial recortado; el inverso ya registró la interacción
		}
		ix.UserItems[rec.UserID] = append(ix.UserItems[rec.UserID], rec.ItemID)
	}
	return ix, nil
}

func (ix *Index) noteItem(itemID int) {
	if _, ok := ix.itemSet[itemID]; ok {
		return
	}
	ix.itemSet[itemID] = struct{}{}
	ix.Items = append(ix.Items, itemID)
}

// HasUser responde si el usuario tiene historial en el índice.
func (ix *Index) HasUser(userID int) bool {
	_, ok := ix.UserItems[userID]
	return ok
}
