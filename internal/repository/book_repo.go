package repository

import (
	"context"

	"recomendador/internal/db"
	"recomendador/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BookRepository struct {
	col *mongo.Collection
}

func NewBookRepository() *BookRepository {
	return &BookRepository{col: db.DB().Collection("books")}
}

func (r *BookRepository) GetByID(ctx context.Context, bookID int) (*models.BookDoc, error) {
	var b models.BookDoc
	err := r.col.FindOne(ctx, bson.M{"bookId": bookID}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &b, err
}

func (r *BookRepository) GetNextBookID(ctx context.Context) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "bookId", Value: -1}})
	var b models.BookDoc
	err := r.col.FindOne(ctx, bson.M{}, opts).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return b.BookID + 1, nil
}

func (r *BookRepository) Insert(ctx context.Context, b *models.BookDoc) error {
	_, err := r.col.InsertOne(ctx, b)
	return err
}

func (r *BookRepository) Update(ctx context.Context, b *models.BookDoc) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"bookId": b.BookID}, b)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *BookRepository) Search(ctx context.Context, q, tag string, limit, offset int) ([]models.BookDoc, error) {
	filter := bson.M{}
	if q != "" {
		filter["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": q, "$options": "i"}},
			bson.M{"author": bson.M{"$regex": q, "$options": "i"}},
		}
	}
	if tag != "" {
		filter["tag"] = tag
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.BookDoc
	for cur.Next(ctx) {
		var b models.BookDoc
		if err := cur.Decode(&b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, cur.Err()
}

// Top por cantidad de colecciones (sump).
func (r *BookRepository) Top(ctx context.Context, limit int) ([]models.BookDoc, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "stats.sump", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.BookDoc
	for cur.Next(ctx) {
		var b models.BookDoc
		if err := cur.Decode(&b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, cur.Err()
}

// GetByIDs trae libros puntuales (el orden lo decide el caller).
func (r *BookRepository) GetByIDs(ctx context.Context, ids []int) (map[int]models.BookDoc, error) {
	if len(ids) == 0 {
		return map[int]models.BookDoc{}, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"bookId": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[int]models.BookDoc, len(ids))
	for cur.Next(ctx) {
		var b models.BookDoc
		if err := cur.Decode(&b); err != nil {
			return nil, err
		}
		out[b.BookID] = b
	}
	return out, cur.Err()
}

// TagMap arma el mapa libro -> tag para el factor de categoría de ItemCF.
func (r *BookRepository) TagMap(ctx context.Context) (map[int]string, error) {
	opts := options.Find().SetProjection(bson.M{"bookId": 1, "tag": 1})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[int]string)
	for cur.Next(ctx) {
		var doc struct {
			BookID int    `bson:"bookId"`
			Tag    string `bson:"tag"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out[doc.BookID] = doc.Tag
	}
	return out, cur.Err()
}

// =======================================================
//  recsys.CatalogLookup: el blender ordena por popularidad
//  sin saber nada de Mongo
// =======================================================

func (r *BookRepository) TopPopular(ctx context.Context, k int) ([]int, error) {
	books, err := r.Top(ctx, k)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(books))
	for i, b := range books {
		ids[i] = b.BookID
	}
	return ids, nil
}

func (r *BookRepository) PopularityRank(ctx context.Context, ids []int) ([]int, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "stats.sump", Value: -1}}).
		SetProjection(bson.M{"bookId": 1})

	cur, err := r.col.Find(ctx, bson.M{"bookId": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []int
	for cur.Next(ctx) {
		var doc struct {
			BookID int `bson:"bookId"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.BookID)
	}
	return out, cur.Err()
}
