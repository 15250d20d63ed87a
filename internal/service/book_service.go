package service

import (
	"context"
	"fmt"
	"time"

	"recomendador/internal/models"
	"recomendador/internal/repository"
)

type BookService struct {
	books *repository.BookRepository
}

func NewBookService(books *repository.BookRepository) *BookService {
	return &BookService{books: books}
}

func (s *BookService) GetByID(ctx context.Context, bookID int) (*models.BookDoc, error) {
	return s.books.GetByID(ctx, bookID)
}

func (s *BookService) Search(ctx context.Context, q, tag string, limit, offset int) ([]models.BookDoc, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.books.Search(ctx, q, tag, limit, offset)
}

// Top devuelve los más coleccionados (la lista que ve un usuario frío).
func (s *BookService) Top(ctx context.Context, limit int) ([]models.BookDoc, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.books.Top(ctx, limit)
}

func (s *BookService) Create(ctx context.Context, req models.BookCreateRequest) (*models.BookDoc, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("title es obligatorio")
	}

	nextID, err := s.books.GetNextBookID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().Format(time.RFC3339)
	b := &models.BookDoc{
		BookID:    nextID,
		Title:     req.Title,
		Author:    req.Author,
		Intro:     req.Intro,
		Tag:       req.Tag,
		Pic:       req.Pic,
		Good:      req.Good,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.books.Insert(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// RegisterView suma una visita (contador blando, no afecta al CF).
func (s *BookService) RegisterView(ctx context.Context, bookID int) error {
	b, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return err
	}
	if b == nil {
		return fmt.Errorf("book %d no encontrado", bookID)
	}
	b.Views++
	return s.books.Update(ctx, b)
}
