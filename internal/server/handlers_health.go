package server

import (
	"net/http"

	"github.com/iammorganparry/articles/internal/store"
)

type HealthResponse struct {
	Status       string `json:"status"`
	ArticleCount int    `json:"article_count"`
	Message      string `json:"message,omitempty"`
}

type HealthHandler struct {
	db *store.DB
}

func NewHealthHandler(db *store.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.db.ArticleCount()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", ArticleCount: count})
}
