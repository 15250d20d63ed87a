package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"recomendador/internal/service"

	"github.com/go-chi/chi/v5"
)

type RatingHandler struct {
	svc *service.RatingService
}

func NewRatingHandler(s *service.RatingService) *RatingHandler {
	return &RatingHandler{svc: s}
}

type rateRequest struct {
	ItemID int     `json:"itemId"`
	Rating float64 `json:"rating"`
}

func (h *RatingHandler) postRating(w http.ResponseWriter, r *http.Request, userID int, dataset string) {
	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", 400)
		return
	}

	var err error
	if dataset == "books" {
		err = h.svc.RateBook(r.Context(), userID, req.ItemID, req.Rating)
	} else {
		err = h.svc.RateMovie(r.Context(), userID, req.ItemID, req.Rating)
	}
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RatingHandler) listRatings(w http.ResponseWriter, r *http.Request, userID int, dataset string) {
	w.Header().Set("Content-Type", "application/json")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	var (
		ratings any
		err     error
	)
	if dataset == "books" {
		ratings, err = h.svc.BookRatingsByUser(r.Context(), userID, limit, offset)
	} else {
		ratings, err = h.svc.MovieRatingsByUser(r.Context(), userID, limit, offset)
	}
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(ratings)
}

// @Summary Calificar un libro
// @Tags ratings
// @Accept json
// @Security BearerAuth
// @Param body body rateRequest true "itemId y rating 0-5"
// @Success 204
// @Router /me/ratings/books [post]
func (h *RatingHandler) PostMyBookRating(w http.ResponseWriter, r *http.Request) {
	h.postRating(w, r, UserIDFromContext(r.Context()), "books")
}

// @Summary Calificar una película
// @Tags ratings
// @Accept json
// @Security BearerAuth
// @Param body body rateRequest true "itemId y rating 0-5"
// @Success 204
// @Router /me/ratings/movies [post]
func (h *RatingHandler) PostMyMovieRating(w http.ResponseWriter, r *http.Request) {
	h.postRating(w, r, UserIDFromContext(r.Context()), "movies")
}

// @Summary Mis ratings de libros
// @Tags ratings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.RatingDoc
// @Router /me/ratings/books [get]
func (h *RatingHandler) GetMyBookRatings(w http.ResponseWriter, r *http.Request) {
	h.listRatings(w, r, UserIDFromContext(r.Context()), "books")
}

// @Summary Mis ratings de películas
// @Tags ratings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.RatingDoc
// @Router /me/ratings/movies [get]
func (h *RatingHandler) GetMyMovieRatings(w http.ResponseWriter, r *http.Request) {
	h.listRatings(w, r, UserIDFromContext(r.Context()), "movies")
}

// ---- espejos admin sobre /users/{id} ----

func userIDFromPath(r *http.Request) int {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	return id
}

// @Summary Ratings de libros de un usuario (admin)
// @Tags ratings
// @Produce json
// @Security BearerAuth
// @Param id path int true "userId"
// @Success 200 {array} models.RatingDoc
// @Router /users/{id}/ratings/books [get]
func (h *RatingHandler) GetUserBookRatings(w http.ResponseWriter, r *http.Request) {
	h.listRatings(w, r, userIDFromPath(r), "books")
}

// @Summary Ratings de películas de un usuario (admin)
// @Tags ratings
// @Produce json
// @Security BearerAuth
// @Param id path int true "userId"
// @Success 200 {array} models.RatingDoc
// @Router /users/{id}/ratings/movies [get]
func (h *RatingHandler) GetUserMovieRatings(w http.ResponseWriter, r *http.Request) {
	h.listRatings(w, r, userIDFromPath(r), "movies")
}

// @Summary Calificar un libro en nombre de un usuario (admin)
// @Tags ratings
// @Accept json
// @Security BearerAuth
// @Param id path int true "userId"
// @Param body body rateRequest true "itemId y rating 0-5"
// @Success 204
// @Router /users/{id}/ratings/books [post]
func (h *RatingHandler) PostUserBookRating(w http.ResponseWriter, r *http.Request) {
	h.postRating(w, r, userIDFromPath(r), "books")
}

// @Summary Calificar una película en nombre de un usuario (admin)
// @Tags ratings
// @Accept json
// @Security BearerAuth
// @Param id path int true "userId"
// @Param body body rateRequest true "itemId y rating 0-5"
// @Success 204
// @Router /users/{id}/ratings/movies [post]
func (h *RatingHandler) PostUserMovieRating(w http.ResponseWriter, r *http.Request) {
	h.postRating(w, r, userIDFromPath(r), "movies")
}
