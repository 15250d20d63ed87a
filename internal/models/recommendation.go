package models

import "time"

type RecItem struct {
	ItemID int     `bson:"itemId" json:"itemId"`
	Score  float64 `bson:"score"  json:"score"`
}

// Recommendation es el historial que queda en Mongo por cada corrida.
type Recommendation struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    int       `bson:"userId"        json:"userId"`
	Dataset   string    `bson:"dataset"       json:"dataset"` // books | movies
	Algo      string    `bson:"algo"          json:"algo"`    // item_cf | user_cf | hybrid | rating_item_cf | rating_user_cf
	Params    any       `bson:"params"        json:"params"`
	Items     []RecItem `bson:"items"         json:"items"`
	CreatedAt time.Time `bson:"createdAt"     json:"createdAt"`
}
