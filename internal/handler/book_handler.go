package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"recomendador/internal/models"
	"recomendador/internal/service"

	"github.com/go-chi/chi/v5"
)

type BookHandler struct {
	svc *service.BookService
}

func NewBookHandler(s *service.BookService) *BookHandler {
	return &BookHandler{svc: s}
}

// @Summary Buscar libros
// @Tags books
// @Produce json
// @Param q query string false "texto en título o autor"
// @Param tag query string false "categoría"
// @Success 200 {array} models.BookDoc
// @Router /books [get]
func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	q := r.URL.Query().Get("q")
	tag := r.URL.Query().Get("tag")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	books, err := h.svc.Search(r.Context(), q, tag, limit, offset)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(books)
}

// @Summary Detalle de un libro
// @Tags books
// @Produce json
// @Param id path int true "bookId"
// @Success 200 {object} models.BookDoc
// @Router /books/{id} [get]
func (h *BookHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	bookID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	b, err := h.svc.GetByID(r.Context(), bookID)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	if b == nil {
		http.Error(w, "book not found", 404)
		return
	}

	// sumar la visita no debe tumbar la respuesta
	if err := h.svc.RegisterView(r.Context(), bookID); err != nil {
		log.Printf("[books] error registrando visita: %v", err)
	}

	_ = json.NewEncoder(w).Encode(b)
}

// @Summary Libros más populares
// @Tags books
// @Produce json
// @Param limit query int false "cuántos (máx 100)"
// @Success 200 {array} models.BookDoc
// @Router /books/top [get]
func (h *BookHandler) Top(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	books, err := h.svc.Top(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(books)
}

// @Summary Crear libro (admin)
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.BookCreateRequest true "datos del libro"
// @Success 201 {object} models.BookDoc
// @Router /admin/books [post]
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req models.BookCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", 400)
		return
	}

	b, err := h.svc.Create(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(b)
}
