package service

import (
	"context"
	"fmt"
	"time"

	"recomendador/internal/models"
	"recomendador/internal/repository"
)

// RatingService mantiene las dos colecciones de ratings y los agregados
// de popularidad del catálogo que consume el recomendador.
type RatingService struct {
	bookRatings  *repository.RatingRepository
	movieRatings *repository.RatingRepository
	books        *repository.BookRepository
	movies       *repository.MovieRepository
}

func NewRatingService(
	bookRatings, movieRatings *repository.RatingRepository,
	books *repository.BookRepository,
	movies *repository.MovieRepository,
) *RatingService {
	return &RatingService{
		bookRatings:  bookRatings,
		movieRatings: movieRatings,
		books:        books,
		movies:       movies,
	}
}

// RateBook registra (o pisa) el rating de un usuario sobre un libro y
// actualiza los agregados stats del libro.
func (s *RatingService) RateBook(ctx context.Context, userID, bookID int, rating float64) error {
	if rating < 0 || rating > 5 {
		return fmt.Errorf("rating fuera de rango (0-5)")
	}

	prev, err := s.bookRatings.GetOne(ctx, userID, bookID)
	if err != nil {
		return err
	}
	existedBefore := prev != nil

	if err := s.bookRatings.Upsert(ctx, userID, bookID, rating); err != nil {
		return err
	}

	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return err
	}
	if book == nil {
		return fmt.Errorf("book %d no encontrado", bookID)
	}

	st := &book.Stats
	if !existedBefore {
		total := st.Average*float64(st.RateNum) + rating
		st.RateNum++
		st.Average = total / float64(st.RateNum)
		// un rating nuevo cuenta como colección: sube la popularidad
		st.Sump++
	} else {
		total := st.Average*float64(st.RateNum) - prev.Rating + rating
		if st.RateNum > 0 {
			st.Average = total / float64(st.RateNum)
		}
	}
	book.UpdatedAt = time.Now().Format(time.RFC3339)

	return s.books.Update(ctx, book)
}

// RateMovie hace lo mismo sobre movie_ratings y ratingStats.
func (s *RatingService) RateMovie(ctx context.Context, userID, movieID int, rating float64) error {
	if rating < 0 || rating > 5 {
		return fmt.Errorf("rating fuera de rango (0-5)")
	}

	prev, err := s.movieRatings.GetOne(ctx, userID, movieID)
	if err != nil {
		return err
	}
	existedBefore := prev != nil

	if err := s.movieRatings.Upsert(ctx, userID, movieID, rating); err != nil {
		return err
	}

	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return err
	}
	if movie == nil {
		return fmt.Errorf("movie %d no encontrada", movieID)
	}

	if movie.RatingStats == nil {
		movie.RatingStats = &models.RatingStats{}
	}
	rs := movie.RatingStats

	if !existedBefore {
		total := rs.Average*float64(rs.Count) + rating
		rs.Count++
		rs.Average = total / float64(rs.Count)
	} else {
		total := rs.Average*float64(rs.Count) - prev.Rating + rating
		if rs.Count > 0 {
			rs.Average = total / float64(rs.Count)
		}
	}

	nowStr := time.Now().Format(time.RFC3339)
	rs.LastRatedAt = nowStr
	movie.UpdatedAt = nowStr

	return s.movies.Update(ctx, movie)
}

func (s *RatingService) BookRatingsByUser(ctx context.Context, userID, limit, offset int) ([]models.RatingDoc, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.bookRatings.GetByUser(ctx, userID, limit, offset)
}

func (s *RatingService) MovieRatingsByUser(ctx context.Context, userID, limit, offset int) ([]models.RatingDoc, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.movieRatings.GetByUser(ctx, userID, limit, offset)
}
