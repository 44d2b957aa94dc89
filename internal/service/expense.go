package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/spendwise/spendwise/internal/metrics"
	"github.com/spendwise/spendwise/internal/model"
	"github.com/spendwise/spendwise/internal/repository"
)

// Expense service errors.
var (
	// ErrExpenseNotFound is returned for absent rows and foreign-owned rows
	// alike; existence of another user's expense must not be observable.
	ErrExpenseNotFound = errors.New("expense not found")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidAmount   = errors.New("invalid amount")
)

// Monetary amounts are stored with two decimal places.
const amountScale = 2

// ExpenseStore is the persistence required by ExpenseService. Every method
// takes the owner as a mandatory filter, so ownership enforcement cannot be
// forgotten at a call site.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, expense *model.Expense) error
	GetExpenseByID(ctx context.Context, id, ownerID int64) (*model.Expense, error)
	ListExpensesByOwner(ctx context.Context, ownerID int64) ([]*model.Expense, error)
	UpdateExpense(ctx context.Context, id, ownerID, categoryID int64, amount decimal.Decimal) error
	DeleteExpense(ctx context.Context, id, ownerID int64) error
}

// ExpenseService handles owner-scoped expense CRUD.
type ExpenseService struct {
	store   ExpenseStore
	metrics metrics.Recorder
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store ExpenseStore, recorder metrics.Recorder) *ExpenseService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ExpenseService{
		store:   store,
		metrics: recorder,
	}
}

// ExpenseInput carries the client-mutable fields of an expense.
type ExpenseInput struct {
	CategoryID int64
	Amount     decimal.Decimal
}

// validate rejects absent categories and zero amounts before the store is
// touched. Amounts are normalized to two decimal places.
func (in *ExpenseInput) validate() (decimal.Decimal, error) {
	if in.CategoryID <= 0 {
		return decimal.Decimal{}, ErrInvalidCategory
	}
	if in.Amount.IsZero() {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return in.Amount.Round(amountScale), nil
}

// Create records a new expense for the owner.
func (s *ExpenseService) Create(ctx context.Context, ownerID int64, input ExpenseInput) (*model.Expense, error) {
	amount, err := input.validate()
	if err != nil {
		return nil, err
	}

	expense := &model.Expense{
		OwnerID:    ownerID,
		CategoryID: input.CategoryID,
		Amount:     amount,
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		if errors.Is(err, repository.ErrUnknownCategory) {
			return nil, ErrInvalidCategory
		}
		return nil, fmt.Errorf("create expense: %w", err)
	}

	s.metrics.IncExpenseCreated()

	return expense, nil
}

// Get retrieves one expense owned by ownerID.
func (s *ExpenseService) Get(ctx context.Context, id, ownerID int64) (*model.Expense, error) {
	expense, err := s.store.GetExpenseByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrExpenseNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return expense, nil
}

// List retrieves all expenses owned by ownerID, newest first.
// An owner with no expenses gets an empty slice.
func (s *ExpenseService) List(ctx context.Context, ownerID int64) ([]*model.Expense, error) {
	expenses, err := s.store.ListExpensesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	if expenses == nil {
		expenses = make([]*model.Expense, 0)
	}
	return expenses, nil
}

// Update replaces the category and amount of an owned expense.
func (s *ExpenseService) Update(ctx context.Context, id, ownerID int64, input ExpenseInput) error {
	amount, err := input.validate()
	if err != nil {
		return err
	}

	if err := s.store.UpdateExpense(ctx, id, ownerID, input.CategoryID, amount); err != nil {
		switch {
		case errors.Is(err, repository.ErrExpenseNotFound):
			return ErrExpenseNotFound
		case errors.Is(err, repository.ErrUnknownCategory):
			return ErrInvalidCategory
		}
		return fmt.Errorf("update expense: %w", err)
	}

	s.metrics.IncExpenseUpdated()

	return nil
}

// Delete removes an owned expense.
func (s *ExpenseService) Delete(ctx context.Context, id, ownerID int64) error {
	if err := s.store.DeleteExpense(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrExpenseNotFound) {
			return ErrExpenseNotFound
		}
		return fmt.Errorf("delete expense: %w", err)
	}

	s.metrics.IncExpenseDeleted()

	return nil
}
