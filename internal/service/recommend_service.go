package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"recomendador/internal/cache"
	"recomendador/internal/models"
	"recomendador/internal/recsys"
	"recomendador/internal/repository"
)

const (
	DefaultK = 10
	MaxK     = 50 // por seguridad, no deja pedir 1000 ítems

	DefaultNBooks  = 50
	DefaultNMovies = 15

	recListTTL = 60 * 60 // 1 hora para las listas finales
)

// RecommendService orquesta el pipeline CF completo: ratings -> índice ->
// snapshot (o rebuild) -> ranking -> blend -> entidades del catálogo.
type RecommendService struct {
	bookRatings  *repository.RatingRepository
	movieRatings *repository.RatingRepository
	books        *repository.BookRepository
	movies       *repository.MovieRepository
	recRepo      *repository.RecommendationRepository
	store        recsys.BlobStore

	// tope de historial configurado; forma parte del fingerprint de los
	// snapshots, así que serving y rebuild lo comparten
	maxHistory int
}

func NewRecommendService(
	bookRatings, movieRatings *repository.RatingRepository,
	books *repository.BookRepository,
	movies *repository.MovieRepository,
	recRepo *repository.RecommendationRepository,
	store recsys.BlobStore,
	maxHistory int,
) *RecommendService {
	return &RecommendService{
		bookRatings:  bookRatings,
		movieRatings: movieRatings,
		books:        books,
		movies:       movies,
		recRepo:      recRepo,
		store:        store,
		maxHistory:   maxHistory,
	}
}

// ====== Petición de recomendaciones (solo lo que cambia en runtime) ======

type RecRequest struct {
	UserID  int
	K       int
	N       int
	Method  string  // books: item_cf | user_cf | hybrid; movies: item_cf | user_cf
	W       float64 // peso de la lista user-cf en el híbrido
	HotFill bool
	Refresh bool

	// Progress se invoca en cada etapa del pipeline (lo usa el endpoint WS).
	Progress func(stage string)
}

func (req *RecRequest) report(stage string) {
	if req.Progress != nil {
		req.Progress(stage)
	}
}

func (req *RecRequest) normalize(defaultN int, defaultMethod string) {
	if req.K <= 0 {
		req.K = DefaultK
	} else if req.K > MaxK {
		req.K = MaxK
	}
	if req.N <= 0 {
		req.N = defaultN
	}
	if req.Method == "" {
		req.Method = defaultMethod
	}
	if req.W <= 0 || req.W > 1 {
		req.W = recsys.DefaultBlendWeight
	}
}

// recCacheKey cubre todos los parámetros que cambian la lista final: dos
// peticiones con distinto w o hotFill no pueden compartir entrada de cache.
func recCacheKey(dataset string, req RecRequest) string {
	return fmt.Sprintf("rec:%s:user:%d:k:%d:n:%d:m:%s:w:%g:hf:%t",
		dataset, req.UserID, req.K, req.N, req.Method, req.W, req.HotFill)
}

func toInteractions(ratings []models.RatingDoc) []recsys.Interaction {
	out := make([]recsys.Interaction, len(ratings))
	for i, r := range ratings {
		out[i] = recsys.Interaction{UserID: r.UserID, ItemID: r.ItemID, Rating: r.Rating}
	}
	return out
}

// ========================= LIBROS (implícito + híbrido) =========================

// RecommendBooks corre ItemCF, UserCF o el híbrido sobre los ratings de libros.
func (s *RecommendService) RecommendBooks(ctx context.Context, req RecRequest) ([]models.BookDoc, error) {
	req.normalize(DefaultNBooks, "hybrid")

	switch req.Method {
	case "item_cf", "user_cf", "hybrid":
	default:
		return nil, fmt.Errorf("method inválido: %q (item_cf|user_cf|hybrid)", req.Method)
	}

	// 1) cache Redis de la lista final (solo si refresh = false)
	key := recCacheKey("books", req)
	if !req.Refresh {
		var cached []models.BookDoc
		if ok, err := cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	// 2) dataset completo de interacciones
	req.report("loading_ratings")
	ratings, err := s.bookRatings.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return []models.BookDoc{}, nil
	}
	records := toInteractions(ratings)
	req.report("building_model")

	// 3) snapshots (se construyen una vez y quedan en el blob store)
	opts := recsys.RecOptions{N: req.N, TopK: req.K, HotFill: req.HotFill}

	var ids []int
	var scores map[int]float64

	switch req.Method {
	case "item_cf":
		snap, err := s.bookItemSnapshot(ctx, records)
		if err != nil {
			return nil, err
		}
		rec := recsys.RecommendItemCF([]int{req.UserID}, snap.Index, snap.Sim, snap.ItemCounts, opts)
		ids = rec[req.UserID]
		scores = candidateScores(recsys.CandidatesItemCF(req.UserID, snap.Index, snap.Sim, opts))

	case "user_cf":
		snap, err := s.bookUserSnapshot(ctx, records)
		if err != nil {
			return nil, err
		}
		rec := recsys.RecommendUserCF([]int{req.UserID}, snap.Index, snap.Sim, snap.ItemCounts, opts)
		ids = rec[req.UserID]
		scores = candidateScores(recsys.CandidatesUserCF(req.UserID, snap.Index, snap.Sim, opts))

	case "hybrid":
		ids, scores, err = s.blendBooks(ctx, req, records, opts)
		if err != nil {
			return nil, err
		}
	}

	req.report("ranking")
	books, err := s.resolveBooks(ctx, ids)
	if err != nil {
		return nil, err
	}

	// 4) historial en Mongo (no rompemos la respuesta si falla)
	s.saveHistory(ctx, "books", req, ids, scores)

	// 5) cache de la lista final
	if err := cache.SetJSON(ctx, key, books, recListTTL); err != nil {
		log.Printf("[recsys] error cacheando recomendación: %v", err)
	}
	return books, nil
}

// blendBooks corre los dos brazos CF en paralelo y mezcla.
func (s *RecommendService) blendBooks(
	ctx context.Context,
	req RecRequest,
	records []recsys.Interaction,
	opts recsys.RecOptions,
) ([]int, map[int]float64, error) {

	var (
		wg       sync.WaitGroup
		itemList []recsys.Scored
		userList []recsys.Scored
		itemErr  error
		userErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		snap, err := s.bookItemSnapshot(ctx, records)
		if err != nil {
			itemErr = err
			return
		}
		itemList = recsys.CandidatesItemCF(req.UserID, snap.Index, snap.Sim, opts)
	}()
	go func() {
		defer wg.Done()
		snap, err := s.bookUserSnapshot(ctx, records)
		if err != nil {
			userErr = err
			return
		}
		userList = recsys.CandidatesUserCF(req.UserID, snap.Index, snap.Sim, opts)
	}()
	wg.Wait()

	if itemErr != nil {
		return nil, nil, itemErr
	}
	if userErr != nil {
		return nil, nil, userErr
	}

	ids, err := recsys.Blend(ctx, req.UserID, userList, itemList, req.W, req.K, s.books)
	if err != nil {
		return nil, nil, err
	}

	// scores informativos para el historial: el blend reordena por
	// popularidad, acá queda lo que aportó cada brazo
	scores := candidateScores(userList)
	for id, sc := range candidateScores(itemList) {
		if _, ok := scores[id]; !ok {
			scores[id] = sc
		}
	}
	return ids, scores, nil
}

func (s *RecommendService) bookItemSnapshot(ctx context.Context, records []recsys.Interaction) (*recsys.Snapshot, error) {
	cats, err := s.books.TagMap(ctx)
	if err != nil {
		return nil, err
	}
	params, _ := snapshotParams("books", len(records), s.maxHistory)
	params.CategoryAware = len(cats) > 0
	if snap := recsys.LoadSnapshot(ctx, s.store, params); snap != nil && snap.Index != nil {
		return snap, nil
	}

	ix, err := recsys.BuildIndex(records, recsys.IndexOptions{MaxHistory: s.maxHistory})
	if err != nil {
		return nil, err
	}
	sim, counts := recsys.BuildItemSimilarity(ix, cats)

	snap := recsys.NewSnapshot(params)
	snap.Index = ix
	snap.Sim = sim
	snap.ItemCounts = counts
	if err := recsys.SaveSnapshot(ctx, s.store, snap); err != nil {
		log.Printf("[recsys] error guardando snapshot %s: %v", params.CacheKey(), err)
	}
	return snap, nil
}

func (s *RecommendService) bookUserSnapshot(ctx context.Context, records []recsys.Interaction) (*recsys.Snapshot, error) {
	_, params := snapshotParams("books", len(records), s.maxHistory)
	if snap := recsys.LoadSnapshot(ctx, s.store, params); snap != nil && snap.Index != nil {
		return snap, nil
	}

	ix, err := recsys.BuildIndex(records, recsys.IndexOptions{NeedInverse: true, MaxHistory: s.maxHistory})
	if err != nil {
		return nil, err
	}
	sim, userCounts, itemCounts := recsys.BuildUserSimilarity(ix)

	snap := recsys.NewSnapshot(params)
	snap.Index = ix
	snap.Sim = sim
	snap.UserCounts = userCounts
	snap.ItemCounts = itemCounts
	if err := recsys.SaveSnapshot(ctx, s.store, snap); err != nil {
		log.Printf("[recsys] error guardando snapshot %s: %v", params.CacheKey(), err)
	}
	return snap, nil
}

// ================== PELÍCULAS (variante ponderada por rating) ==================

// RecommendMovies corre la variante con ratings explícitos. Un usuario sin
// ratings recibe lista vacía (acá no hay fallback a populares).
func (s *RecommendService) RecommendMovies(ctx context.Context, req RecRequest) ([]models.MovieDoc, error) {
	req.normalize(DefaultNMovies, "item_cf")

	if req.Method != "item_cf" && req.Method != "user_cf" {
		return nil, fmt.Errorf("method inválido: %q (item_cf|user_cf)", req.Method)
	}

	key := recCacheKey("movies", req)
	if !req.Refresh {
		var cached []models.MovieDoc
		if ok, err := cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	req.report("loading_ratings")
	ratings, err := s.movieRatings.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return []models.MovieDoc{}, nil
	}

	req.report("building_model")
	snap, err := s.movieSnapshot(ctx, toInteractions(ratings), req.Method)
	if err != nil {
		return nil, err
	}

	opts := recsys.RecOptions{N: req.N, TopK: req.K}
	var ranked []recsys.Scored
	if req.Method == "user_cf" {
		ranked = recsys.RecommendRatingUserCF(req.UserID, snap.RatingIndex, snap.Sim, opts)
	} else {
		ranked = recsys.RecommendRatingCF(req.UserID, snap.RatingIndex, snap.Sim, opts)
	}

	ids := make([]int, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
	}

	req.report("ranking")
	movies, err := s.resolveMovies(ctx, ids)
	if err != nil {
		return nil, err
	}

	s.saveHistory(ctx, "movies", req, ids, candidateScores(ranked))

	if err := cache.SetJSON(ctx, key, movies, recListTTL); err != nil {
		log.Printf("[recsys] error cacheando recomendación: %v", err)
	}
	return movies, nil
}

func (s *RecommendService) movieSnapshot(ctx context.Context, records []recsys.Interaction, method string) (*recsys.Snapshot, error) {
	itemParams, userParams := snapshotParams("movies", len(records), s.maxHistory)
	params := itemParams
	if method == "user_cf" {
		params = userParams
	}
	if snap := recsys.LoadSnapshot(ctx, s.store, params); snap != nil && snap.RatingIndex != nil {
		return snap, nil
	}

	rix, err := recsys.BuildRatingIndex(records)
	if err != nil {
		return nil, err
	}

	snap := recsys.NewSnapshot(params)
	snap.RatingIndex = rix
	if method == "user_cf" {
		snap.Sim = recsys.BuildUserCosineSimilarity(rix)
	} else {
		sim, counts := recsys.BuildRatingSimilarity(rix)
		snap.Sim = sim
		snap.ItemCounts = counts
	}
	if err := recsys.SaveSnapshot(ctx, s.store, snap); err != nil {
		log.Printf("[recsys] error guardando snapshot %s: %v", params.CacheKey(), err)
	}
	return snap, nil
}

// ============================== helpers ==============================

func candidateScores(list []recsys.Scored) map[int]float64 {
	out := make(map[int]float64, len(list))
	for _, s := range list {
		out[s.ID] = s.Score
	}
	return out
}

// resolveBooks trae las entidades respetando el orden de los ids.
func (s *RecommendService) resolveBooks(ctx context.Context, ids []int) ([]models.BookDoc, error) {
	byID, err := s.books.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.BookDoc, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *RecommendService) resolveMovies(ctx context.Context, ids []int) ([]models.MovieDoc, error) {
	byID, err := s.movies.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.MovieDoc, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *RecommendService) saveHistory(ctx context.Context, dataset string, req RecRequest, ids []int, scores map[int]float64) {
	if s.recRepo == nil {
		return
	}
	items := make([]models.RecItem, len(ids))
	for i, id := range ids {
		items[i] = models.RecItem{ItemID: id, Score: scores[id]}
	}
	hist := &models.Recommendation{
		UserID:  req.UserID,
		Dataset: dataset,
		Algo:    req.Method,
		Params: map[string]any{
			"k":       req.K,
			"n":       req.N,
			"w":       req.W,
			"hotFill": req.HotFill,
			"refresh": req.Refresh,
		},
		Items:     items,
		CreatedAt: time.Now(),
	}
	if err := s.recRepo.Insert(ctx, hist); err != nil {
		log.Printf("[recsys] error guardando historial en Mongo: %v", err)
	}
}

// History expone el historial de corridas de un usuario.
func (s *RecommendService) History(ctx context.Context, userID int, limit int64) ([]models.Recommendation, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.recRepo.FindByUser(ctx, userID, limit)
}
