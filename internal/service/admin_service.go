package service

import (
	"context"
	"fmt"
	"time"

	"recomendador/internal/cache"
	"recomendador/internal/models"
	"recomendador/internal/recsys"
	"recomendador/internal/repository"
)

// AdminService expone el mantenimiento del recomendador: estado de los
// snapshots, reconstrucción explícita e invalidación de cache.
type AdminService struct {
	bookRatings  *repository.RatingRepository
	movieRatings *repository.RatingRepository
	books        *repository.BookRepository
	store        recsys.BlobStore
	maxHistory   int // el mismo tope que usa el serving
}

func NewAdminService(
	bookRatings, movieRatings *repository.RatingRepository,
	books *repository.BookRepository,
	store recsys.BlobStore,
	maxHistory int,
) *AdminService {
	return &AdminService{
		bookRatings:  bookRatings,
		movieRatings: movieRatings,
		books:        books,
		store:        store,
		maxHistory:   maxHistory,
	}
}

func (s *AdminService) ratingsFor(ctx context.Context, dataset string) ([]recsys.Interaction, error) {
	var repo *repository.RatingRepository
	switch dataset {
	case "books":
		repo = s.bookRatings
	case "movies":
		repo = s.movieRatings
	default:
		return nil, fmt.Errorf("dataset inválido: %q (books|movies)", dataset)
	}
	docs, err := repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return toInteractions(docs), nil
}

// Summary reporta tamaño del dataset y si hay snapshots vigentes en cache.
func (s *AdminService) Summary(ctx context.Context, dataset string) (*models.RecsysSummary, error) {
	records, err := s.ratingsFor(ctx, dataset)
	if err != nil {
		return nil, err
	}

	ix, err := recsys.BuildIndex(records, recsys.IndexOptions{NeedInverse: true})
	if err != nil {
		return nil, err
	}

	itemParams, userParams := snapshotParams(dataset, len(records), s.maxHistory)
	if dataset == "books" {
		// el fingerprint del snapshot ItemCF incluye si hubo mapa de categorías
		cats, err := s.books.TagMap(ctx)
		if err != nil {
			return nil, err
		}
		itemParams.CategoryAware = len(cats) > 0
	}
	itemSnap := recsys.LoadSnapshot(ctx, s.store, itemParams)
	userSnap := recsys.LoadSnapshot(ctx, s.store, userParams)

	return &models.RecsysSummary{
		Dataset:      dataset,
		Users:        len(ix.Users),
		Items:        len(ix.Items),
		Interactions: len(records),
		ItemSnapshot: itemSnap != nil,
		UserSnapshot: userSnap != nil,
		Fingerprint:  itemParams.Fingerprint(),
	}, nil
}

// snapshotParams es la única fábrica de BuildParams: serving y rebuild pasan
// por acá para que un snapshot reconstruido sea exactamente el que el serving
// busca. El índice de ratings no trunca historiales, así que para movies el
// tope no entra al fingerprint (describiría un recorte que no ocurre).
func snapshotParams(dataset string, interactions, maxHistory int) (item, user recsys.BuildParams) {
	if dataset == "movies" {
		item = recsys.BuildParams{Dataset: dataset, Kind: "rating_item_cf", Interactions: interactions}
		user = recsys.BuildParams{Dataset: dataset, Kind: "rating_user_cf", Interactions: interactions}
		return
	}
	item = recsys.BuildParams{Dataset: dataset, Kind: "item_cf", Interactions: interactions, MaxHistory: maxHistory}
	user = recsys.BuildParams{Dataset: dataset, Kind: "user_cf", Interactions: interactions, MaxHistory: maxHistory}
	return
}

// Rebuild reconstruye los snapshots del dataset sin esperar a la próxima
// petición de recomendación.
func (s *AdminService) Rebuild(ctx context.Context, req models.RebuildRequest) (*models.RebuildResult, error) {
	start := time.Now()

	records, err := s.ratingsFor(ctx, req.Dataset)
	if err != nil {
		return nil, err
	}

	itemParams, userParams := snapshotParams(req.Dataset, len(records), s.maxHistory)
	built := 0

	if req.Dataset == "movies" {
		rix, err := recsys.BuildRatingIndex(records)
		if err != nil {
			return nil, err
		}

		itemSnap := recsys.NewSnapshot(itemParams)
		itemSnap.RatingIndex = rix
		itemSnap.Sim, itemSnap.ItemCounts = recsys.BuildRatingSimilarity(rix)
		if err := recsys.SaveSnapshot(ctx, s.store, itemSnap); err != nil {
			return nil, err
		}
		built++

		userSnap := recsys.NewSnapshot(userParams)
		userSnap.RatingIndex = rix
		userSnap.Sim = recsys.BuildUserCosineSimilarity(rix)
		if err := recsys.SaveSnapshot(ctx, s.store, userSnap); err != nil {
			return nil, err
		}
		built++
	} else {
		cats, err := s.books.TagMap(ctx)
		if err != nil {
			return nil, err
		}
		itemParams.CategoryAware = len(cats) > 0

		ix, err := recsys.BuildIndex(records, recsys.IndexOptions{NeedInverse: true, MaxHistory: s.maxHistory})
		if err != nil {
			return nil, err
		}

		itemSnap := recsys.NewSnapshot(itemParams)
		itemSnap.Index = ix
		itemSnap.Sim, itemSnap.ItemCounts = recsys.BuildItemSimilarity(ix, cats)
		if err := recsys.SaveSnapshot(ctx, s.store, itemSnap); err != nil {
			return nil, err
		}
		built++

		userSnap := recsys.NewSnapshot(userParams)
		userSnap.Index = ix
		userSnap.Sim, userSnap.UserCounts, userSnap.ItemCounts = recsys.BuildUserSimilarity(ix)
		if err := recsys.SaveSnapshot(ctx, s.store, userSnap); err != nil {
			return nil, err
		}
		built++
	}

	return &models.RebuildResult{
		Dataset:      req.Dataset,
		Interactions: len(records),
		Snapshots:    built,
		Fingerprint:  itemParams.Fingerprint(),
		ElapsedMs:    time.Since(start).Milliseconds(),
	}, nil
}

// Invalidate borra snapshots y listas finales cacheadas del dataset.
func (s *AdminService) Invalidate(ctx context.Context, dataset string) (int, error) {
	if dataset != "books" && dataset != "movies" {
		return 0, fmt.Errorf("dataset inválido: %q (books|movies)", dataset)
	}
	n1, err := cache.DelByPattern(ctx, fmt.Sprintf("cf:snapshot:%s:*", dataset))
	if err != nil {
		return 0, err
	}
	n2, err := cache.DelByPattern(ctx, fmt.Sprintf("rec:%s:user:*", dataset))
	if err != nil {
		return n1, err
	}
	return n1 + n2, nil
}
