package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a single spending record owned by exactly one user.
// Amount is a fixed-point decimal; the database column is NUMERIC(12,2).
type Expense struct {
	ID         int64           `json:"id"`
	OwnerID    int64           `json:"owner_id"`
	CategoryID int64           `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Category is read-only reference data for classifying expenses.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
