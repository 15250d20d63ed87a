package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"recomendador/internal/service"

	"github.com/gorilla/websocket"
)

type RecommendHandler struct {
	svc *service.RecommendService
}

func NewRecommendHandler(s *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{svc: s}
}

func recRequestFromQuery(r *http.Request, userID int) service.RecRequest {
	k, _ := strconv.Atoi(r.URL.Query().Get("k"))
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))
	w, _ := strconv.ParseFloat(r.URL.Query().Get("w"), 64)

	return service.RecRequest{
		UserID:  userID,
		K:       k,
		N:       n,
		W:       w,
		Method:  r.URL.Query().Get("method"),
		HotFill: r.URL.Query().Get("hotFill") == "true",
		Refresh: r.URL.Query().Get("refresh") == "true",
	}
}

func (h *RecommendHandler) recommendBooks(w http.ResponseWriter, r *http.Request, userID int) {
	w.Header().Set("Content-Type", "application/json")

	books, err := h.svc.RecommendBooks(r.Context(), recRequestFromQuery(r, userID))
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(books)
}

func (h *RecommendHandler) recommendMovies(w http.ResponseWriter, r *http.Request, userID int) {
	w.Header().Set("Content-Type", "application/json")

	movies, err := h.svc.RecommendMovies(r.Context(), recRequestFromQuery(r, userID))
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(movies)
}

// @Summary Libros recomendados para el usuario autenticado
// @Tags recommend
// @Produce json
// @Security BearerAuth
// @Param k query int false "cantidad de recomendaciones (máx 50)"
// @Param method query string false "item_cf | user_cf | hybrid"
// @Param hotFill query bool false "rellenar con populares si faltan"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {array} models.BookDoc
// @Router /me/recommendations/books [get]
func (h *RecommendHandler) GetMyBookRecommendations(w http.ResponseWriter, r *http.Request) {
	h.recommendBooks(w, r, UserIDFromContext(r.Context()))
}

// @Summary Películas recomendadas para el usuario autenticado
// @Tags recommend
// @Produce json
// @Security BearerAuth
// @Param k query int false "cantidad de recomendaciones (máx 50)"
// @Param method query string false "item_cf | user_cf"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {array} models.MovieDoc
// @Router /me/recommendations/movies [get]
func (h *RecommendHandler) GetMyMovieRecommendations(w http.ResponseWriter, r *http.Request) {
	h.recommendMovies(w, r, UserIDFromContext(r.Context()))
}

// @Summary Libros recomendados para cualquier usuario (admin)
// @Tags recommend
// @Produce json
// @Security BearerAuth
// @Param id path int true "userId"
// @Success 200 {array} models.BookDoc
// @Router /users/{id}/recommendations/books [get]
func (h *RecommendHandler) GetUserBookRecommendations(w http.ResponseWriter, r *http.Request) {
	h.recommendBooks(w, r, userIDFromPath(r))
}

// @Summary Películas recomendadas para cualquier usuario (admin)
// @Tags recommend
// @Produce json
// @Security BearerAuth
// @Param id path int true "userId"
// @Success 200 {array} models.MovieDoc
// @Router /users/{id}/recommendations/movies [get]
func (h *RecommendHandler) GetUserMovieRecommendations(w http.ResponseWriter, r *http.Request) {
	h.recommendMovies(w, r, userIDFromPath(r))
}

// @Summary Historial de recomendaciones
// @Tags recommend
// @Produce json
// @Security BearerAuth
// @Param limit query int false "cuántas corridas (default 20)"
// @Success 200 {array} models.Recommendation
// @Router /me/recommendations/history [get]
func (h *RecommendHandler) History(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID := UserIDFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	hist, err := h.svc.History(r.Context(), userID, int64(limit))
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(hist)
}

// upgrader global (no afecta a swagger)
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (h *RecommendHandler) recommendBooksWS(w http.ResponseWriter, r *http.Request, userID int) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "no se pudo abrir WebSocket", 400)
		return
	}
	defer conn.Close()

	req := recRequestFromQuery(r, userID)
	req.Progress = func(stage string) {
		conn.WriteJSON(map[string]any{
			"type":  "progress",
			"stage": stage,
		})
	}

	conn.WriteJSON(map[string]any{
		"type": "start",
		"msg":  "Conexión WS abierta, iniciando cálculo…",
	})

	books, err := h.svc.RecommendBooks(r.Context(), req)
	if err != nil {
		conn.WriteJSON(map[string]any{
			"type":  "error",
			"error": err.Error(),
		})
		return
	}

	conn.WriteJSON(map[string]any{
		"type":        "recommendations",
		"userId":      userID,
		"items":       books,
		"generatedAt": time.Now(),
	})
}

// @Summary Recomendaciones de libros con progreso (WebSocket)
// @Tags recommend
// @Produce json
// @Security BearerAuth
// @Param k query int false "cantidad de recomendaciones (máx 50)"
// @Param method query string false "item_cf | user_cf | hybrid"
// @Success 200 {object} map[string]interface{}
// @Router /me/ws/recommendations/books [get]
func (h *RecommendHandler) GetMyBookRecommendationsWS(w http.ResponseWriter, r *http.Request) {
	h.recommendBooksWS(w, r, UserIDFromContext(r.Context()))
}

// @Summary Recomendaciones de libros con progreso para cualquier usuario (admin, WebSocket)
// @Tags recommend
// @Produce json
// @Security BearerAuth
// @Param id path int true "userId"
// @Success 200 {object} map[string]interface{}
// @Router /users/{id}/ws/recommendations/books [get]
func (h *RecommendHandler) GetUserBookRecommendationsWS(w http.ResponseWriter, r *http.Request) {
	h.recommendBooksWS(w, r, userIDFromPath(r))
}
