package repository

import (
	"context"
	"time"

	"recomendador/internal/db"
	"recomendador/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RatingRepository sirve tanto para book_ratings como movie_ratings:
// se instancia una vez por colección.
type RatingRepository struct {
	col *mongo.Collection
}

func NewRatingRepository(collection string) *RatingRepository {
	return &RatingRepository{col: db.DB().Collection(collection)}
}

func (r *RatingRepository) Upsert(ctx context.Context, userID, itemID int, rating float64) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"userId": userID, "itemId": itemID},
		bson.M{"$set": bson.M{
			"rating": rating,
			// guardamos epoch (int64)
			"timestamp": time.Now().Unix(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *RatingRepository) GetOne(ctx context.Context, userID, itemID int) (*models.RatingDoc, error) {
	var doc models.RatingDoc
	err := r.col.FindOne(ctx, bson.M{"userId": userID, "itemId": itemID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// helpers de casteo seguro: los imports masivos dejan números con tipos
// bson mezclados (int32/int64/double)
func asInt(v any) int {
	switch x := v.(type) {
	case int32:
		return int(x)
	case int64:
		return int(x)
	case float64:
		return int(x)
	default:
		return 0
	}
}

func asInt64(v any) int64 {
	switch x := v.(type) {
	case int32:
		return int64(x)
	case int64:
		return x
	case float64:
		return int64(x)
	default:
		return 0
	}
}

func asFloat64(v any) float64 {
	switch x := v.(type) {
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float64:
		return x
	default:
		return 0
	}
}

func (r *RatingRepository) decodeAll(ctx context.Context, cur *mongo.Cursor) ([]models.RatingDoc, error) {
	defer cur.Close(ctx)

	var out []models.RatingDoc
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, models.RatingDoc{
			UserID:    asInt(raw["userId"]),
			ItemID:    asInt(raw["itemId"]),
			Rating:    asFloat64(raw["rating"]),
			Timestamp: asInt64(raw["timestamp"]),
		})
	}
	return out, cur.Err()
}

func (r *RatingRepository) GetByUser(ctx context.Context, userID, limit, offset int) ([]models.RatingDoc, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetLimit(int64(limit)).SetSkip(int64(offset)),
	)
	if err != nil {
		return nil, err
	}
	return r.decodeAll(ctx, cur)
}

// GetAll trae el dataset completo para construir el índice CF.
// Orden estable por (timestamp, _id) para que dos construcciones sobre el
// mismo snapshot de datos vean los registros igual.
func (r *RatingRepository) GetAll(ctx context.Context) ([]models.RatingDoc, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "timestamp", Value: 1},
		{Key: "_id", Value: 1},
	})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	return r.decodeAll(ctx, cur)
}

func (r *RatingRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
