package models

// RatingDoc vive en book_ratings y movie_ratings (misma forma).
type RatingDoc struct {
	UserID    int     `json:"userId" bson:"userId"`
	ItemID    int     `json:"itemId" bson:"itemId"`
	Rating    float64 `json:"rating" bson:"rating"`
	Timestamp int64   `json:"timestamp" bson:"timestamp"`
}
