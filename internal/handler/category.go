package handler

import (
	"log/slog"
	"net/http"

	"receitas-api/internal/service"
)

// CategoryHandler serves the read-only category catalog.
type CategoryHandler struct {
	service *service.CategoryService
	logger  *slog.Logger
}

func NewCategoryHandler(service *service.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{service: service, logger: logger}
}

// HandleList returns all categories sorted by name.
//
// HTTP: GET /api/categorias (bearer)
func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}
