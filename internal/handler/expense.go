package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/spendwise/spendwise/internal/auth"
	"github.com/spendwise/spendwise/internal/handler/dto"
	"github.com/spendwise/spendwise/internal/middleware"
	"github.com/spendwise/spendwise/internal/service"
)

// ExpenseHandler handles owner-scoped expense CRUD. All routes run behind
// the session middleware, so a subject is always present in the context.
type ExpenseHandler struct {
	expenses *service.ExpenseService
	logger   *slog.Logger
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenses *service.ExpenseService, logger *slog.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		expenses: expenses,
		logger:   logger,
	}
}

// List handles GET /api/expenses.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	subject := auth.MustSubjectFromContext(r.Context())

	expenses, err := h.expenses.List(r.Context(), subject.UserID)
	if err != nil {
		h.logger.Error("list expenses failed",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, expenses)
}

// Get handles GET /api/expenses/{id}.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	subject := auth.MustSubjectFromContext(r.Context())

	id, ok := expenseID(r)
	if !ok {
		writeExpenseNotFound(w)
		return
	}

	expense, err := h.expenses.Get(r.Context(), id, subject.UserID)
	if err != nil {
		if errors.Is(err, service.ErrExpenseNotFound) {
			writeExpenseNotFound(w)
			return
		}
		h.logger.Error("get expense failed",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, expense)
}

// Create handles POST /api/expenses.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	subject := auth.MustSubjectFromContext(r.Context())

	input, ok := decodeExpenseInput(w, r)
	if !ok {
		return
	}

	expense, err := h.expenses.Create(r.Context(), subject.UserID, input)
	if err != nil {
		h.writeExpenseError(w, r, err, "create expense failed")
		return
	}

	h.logger.Info("expense created",
		slog.Int64("expense_id", expense.ID),
		slog.Int64("user_id", subject.UserID),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)

	writeJSON(w, http.StatusCreated, dto.CreateExpenseResponse{
		Message: "Expense added successfully",
		ID:      expense.ID,
	})
}

// Update handles PUT /api/expenses/{id}.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	subject := auth.MustSubjectFromContext(r.Context())

	id, ok := expenseID(r)
	if !ok {
		writeExpenseNotFound(w)
		return
	}

	input, ok := decodeExpenseInput(w, r)
	if !ok {
		return
	}

	if err := h.expenses.Update(r.Context(), id, subject.UserID, input); err != nil {
		h.writeExpenseError(w, r, err, "update expense failed")
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Expense updated successfully"})
}

// Delete handles DELETE /api/expenses/{id}.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	subject := auth.MustSubjectFromContext(r.Context())

	id, ok := expenseID(r)
	if !ok {
		writeExpenseNotFound(w)
		return
	}

	if err := h.expenses.Delete(r.Context(), id, subject.UserID); err != nil {
		h.writeExpenseError(w, r, err, "delete expense failed")
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Expense deleted successfully"})
}

// writeExpenseError maps expense service errors onto HTTP responses.
func (h *ExpenseHandler) writeExpenseError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrExpenseNotFound):
		writeExpenseNotFound(w)
	case errors.Is(err, service.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, "INVALID_CATEGORY", "Category is missing or unknown")
	case errors.Is(err, service.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "INVALID_AMOUNT", "Amount is missing or invalid")
	default:
		h.logger.Error(logMsg,
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeExpenseNotFound covers both absent and foreign-owned expenses with a
// single indistinguishable response.
func writeExpenseNotFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "EXPENSE_NOT_FOUND", "Expense not found")
}

// expenseID parses the {id} route parameter. A non-numeric id cannot name an
// existing expense, so callers treat it as not found.
func expenseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeExpenseInput decodes the shared create/update request body. It writes
// the error response itself and reports success through the bool.
func decodeExpenseInput(w http.ResponseWriter, r *http.Request) (service.ExpenseInput, bool) {
	var req dto.ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is not valid JSON")
		return service.ExpenseInput{}, false
	}
	return service.ExpenseInput{
		CategoryID: req.Category,
		Amount:     req.Amount,
	}, true
}
