package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"recomendador/internal/service"

	"github.com/go-chi/chi/v5"
)

type MovieHandler struct {
	svc *service.MovieService
}

func NewMovieHandler(s *service.MovieService) *MovieHandler {
	return &MovieHandler{svc: s}
}

// @Summary Buscar películas
// @Tags movies
// @Produce json
// @Param q query string false "texto en el título"
// @Param genre query string false "género"
// @Param yearFrom query int false "año desde"
// @Param yearTo query int false "año hasta"
// @Success 200 {array} models.MovieDoc
// @Router /movies [get]
func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	q := r.URL.Query().Get("q")
	genre := r.URL.Query().Get("genre")
	yearFrom, _ := strconv.Atoi(r.URL.Query().Get("yearFrom"))
	yearTo, _ := strconv.Atoi(r.URL.Query().Get("yearTo"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	movies, err := h.svc.Search(r.Context(), q, genre, yearFrom, yearTo, limit, offset)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(movies)
}

// @Summary Detalle de una película
// @Tags movies
// @Produce json
// @Param id path int true "movieId"
// @Success 200 {object} models.MovieDoc
// @Router /movies/{id} [get]
func (h *MovieHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	movieID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	m, err := h.svc.GetByID(r.Context(), movieID)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	if m == nil {
		http.Error(w, "movie not found", 404)
		return
	}
	_ = json.NewEncoder(w).Encode(m)
}

// @Summary Películas top
// @Tags movies
// @Produce json
// @Param metric query string false "popular | rating"
// @Param limit query int false "cuántas (máx 100)"
// @Success 200 {array} models.MovieDoc
// @Router /movies/top [get]
func (h *MovieHandler) Top(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	metric := r.URL.Query().Get("metric")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	movies, err := h.svc.Top(r.Context(), metric, limit)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(movies)
}
