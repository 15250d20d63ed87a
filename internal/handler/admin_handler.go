package handler

import (
	"encoding/json"
	"net/http"

	"recomendador/internal/models"
	"recomendador/internal/service"
)

type AdminHandler struct {
	svc *service.AdminService
}

func NewAdminHandler(s *service.AdminService) *AdminHandler {
	return &AdminHandler{svc: s}
}

// @Summary Estado del recomendador (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param dataset query string true "books | movies"
// @Success 200 {object} models.RecsysSummary
// @Router /admin/recsys/summary [get]
func (h *AdminHandler) Summary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	dataset := r.URL.Query().Get("dataset")
	if dataset == "" {
		dataset = "books"
	}

	sum, err := h.svc.Summary(r.Context(), dataset)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	_ = json.NewEncoder(w).Encode(sum)
}

// @Summary Reconstruir snapshots CF (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.RebuildRequest true "dataset a reconstruir"
// @Success 200 {object} models.RebuildResult
// @Router /admin/recsys/rebuild [post]
func (h *AdminHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req models.RebuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", 400)
		return
	}

	res, err := h.svc.Rebuild(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// @Summary Invalidar cache del recomendador (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param dataset query string true "books | movies"
// @Success 200 {object} map[string]interface{}
// @Router /admin/recsys/invalidate [post]
func (h *AdminHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	dataset := r.URL.Query().Get("dataset")
	deleted, err := h.svc.Invalidate(r.Context(), dataset)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"dataset": dataset,
		"deleted": deleted,
	})
}
