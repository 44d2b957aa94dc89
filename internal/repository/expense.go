package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/spendwise/spendwise/internal/model"
)

// Common errors for expense repository operations.
var (
	// ErrExpenseNotFound covers both a missing row and a row owned by someone
	// else; callers must not be able to tell the two apart.
	ErrExpenseNotFound = errors.New("expense not found")
	// ErrUnknownCategory indicates a category id with no matching row.
	ErrUnknownCategory = errors.New("unknown category")
)

// CreateExpense inserts a new expense and fills in the generated ID and
// creation time. The owner comes from the authenticated session, never from
// client input.
func (r *Repository) CreateExpense(ctx context.Context, expense *model.Expense) error {
	query := `
		INSERT INTO expenses (owner_id, category_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		expense.OwnerID,
		expense.CategoryID,
		expense.Amount,
	).Scan(&expense.ID, &expense.CreatedAt)

	if err != nil {
		if violatedConstraint(err, pgForeignKeyViolation) == "expenses_category_id_fkey" {
			return ErrUnknownCategory
		}
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return nil
}

// GetExpenseByID retrieves an expense by ID, scoped to the owner. A row that
// exists under a different owner yields ErrExpenseNotFound, identical to a
// row that does not exist at all.
func (r *Repository) GetExpenseByID(ctx context.Context, id, ownerID int64) (*model.Expense, error) {
	query := `
		SELECT id, owner_id, category_id, amount, created_at
		FROM expenses
		WHERE id = $1 AND owner_id = $2
	`

	expense, err := scanExpense(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to get expense by ID: %w", err)
	}

	return expense, nil
}

// ListExpensesByOwner returns all expenses belonging to the owner, newest
// first. An owner with no expenses gets an empty slice, not an error.
func (r *Repository) ListExpensesByOwner(ctx context.Context, ownerID int64) ([]*model.Expense, error) {
	query := `
		SELECT id, owner_id, category_id, amount, created_at
		FROM expenses
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]*model.Expense, 0)
	for rows.Next() {
		expense, err := scanExpenseFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

// UpdateExpense updates the category and amount of an expense matching
// id+owner. No row under a foreign owner is ever touched, even when the id
// exists.
func (r *Repository) UpdateExpense(ctx context.Context, id, ownerID, categoryID int64, amount decimal.Decimal) error {
	query := `
		UPDATE expenses
		SET category_id = $3, amount = $4
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.pool.Exec(ctx, query, id, ownerID, categoryID, amount)
	if err != nil {
		if violatedConstraint(err, pgForeignKeyViolation) == "expenses_category_id_fkey" {
			return ErrUnknownCategory
		}
		return fmt.Errorf("failed to update expense: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrExpenseNotFound
	}

	return nil
}

// DeleteExpense removes an expense matching id+owner, with the same
// not-found-vs-foreign semantics as UpdateExpense.
func (r *Repository) DeleteExpense(ctx context.Context, id, ownerID int64) error {
	query := `DELETE FROM expenses WHERE id = $1 AND owner_id = $2`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrExpenseNotFound
	}

	return nil
}

func scanExpense(row pgx.Row) (*model.Expense, error) {
	var expense model.Expense
	err := row.Scan(
		&expense.ID,
		&expense.OwnerID,
		&expense.CategoryID,
		&expense.Amount,
		&expense.CreatedAt,
	)
	return &expense, err
}

func scanExpenseFromRows(rows pgx.Rows) (*model.Expense, error) {
	var expense model.Expense
	err := rows.Scan(
		&expense.ID,
		&expense.OwnerID,
		&expense.CategoryID,
		&expense.Amount,
		&expense.CreatedAt,
	)
	return &expense, err
}
