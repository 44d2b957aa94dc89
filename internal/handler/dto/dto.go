// Package dto defines request and response shapes for the HTTP API.
package dto

import (
	"github.com/shopspring/decimal"
)

// ErrorBody carries a machine-readable code and a human-readable message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// NewError builds an ErrorResponse.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Code: code, Message: message}}
}

// MessageResponse is the envelope for operations that only confirm success.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse confirms a successful login.
type LoginResponse struct {
	Message  string `json:"message"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// ExpenseRequest is the body of POST /api/expenses and PUT /api/expenses/{id}.
// Amount accepts a JSON number or a decimal string; either way it is parsed
// as a fixed-point decimal, never a float.
type ExpenseRequest struct {
	Category int64           `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// CreateExpenseResponse confirms a created expense.
type CreateExpenseResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}
