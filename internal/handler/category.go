package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/spendwise/spendwise/internal/middleware"
	"github.com/spendwise/spendwise/internal/model"
)

// CategoryStore lists the category reference data.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]*model.Category, error)
}

// CategoryHandler serves the category list. Categories are shared reference
// data, so the route is public.
type CategoryHandler struct {
	store  CategoryStore
	logger *slog.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(store CategoryStore, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		store:  store,
		logger: logger,
	}
}

// List handles GET /api/categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("list categories failed",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	if categories == nil {
		categories = make([]*model.Category, 0)
	}

	writeJSON(w, http.StatusOK, categories)
}
