package service

import (
	"context"

	"recomendador/internal/models"
	"recomendador/internal/repository"
)

type MovieService struct {
	movies *repository.MovieRepository
}

func NewMovieService(movies *repository.MovieRepository) *MovieService {
	return &MovieService{movies: movies}
}

func (s *MovieService) GetByID(ctx context.Context, movieID int) (*models.MovieDoc, error) {
	return s.movies.GetByID(ctx, movieID)
}

func (s *MovieService) Search(ctx context.Context, q, genre string, yearFrom, yearTo, limit, offset int) ([]models.MovieDoc, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.movies.Search(ctx, q, genre, yearFrom, yearTo, limit, offset)
}

// Top acepta metric = popular | rating.
func (s *MovieService) Top(ctx context.Context, metric string, limit int) ([]models.MovieDoc, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if metric == "" {
		metric = "popular"
	}
	return s.movies.Top(ctx, metric, limit)
}
