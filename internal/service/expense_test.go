package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendwise/spendwise/internal/metrics"
	"github.com/spendwise/spendwise/internal/model"
	"github.com/spendwise/spendwise/internal/repository"
)

// fakeExpenseStore keeps expenses in memory with the same owner-scoped
// semantics as the real repository.
type fakeExpenseStore struct {
	expenses   []*model.Expense
	nextID     int64
	categories map[int64]bool
}

func newFakeExpenseStore() *fakeExpenseStore {
	return &fakeExpenseStore{
		categories: map[int64]bool{1: true, 2: true, 3: true},
	}
}

func (s *fakeExpenseStore) CreateExpense(ctx context.Context, expense *model.Expense) error {
	if !s.categories[expense.CategoryID] {
		return repository.ErrUnknownCategory
	}
	s.nextID++
	expense.ID = s.nextID
	expense.CreatedAt = time.Now().UTC()
	s.expenses = append(s.expenses, expense)
	return nil
}

func (s *fakeExpenseStore) GetExpenseByID(ctx context.Context, id, ownerID int64) (*model.Expense, error) {
	for _, e := range s.expenses {
		if e.ID == id && e.OwnerID == ownerID {
			return e, nil
		}
	}
	return nil, repository.ErrExpenseNotFound
}

func (s *fakeExpenseStore) ListExpensesByOwner(ctx context.Context, ownerID int64) ([]*model.Expense, error) {
	var owned []*model.Expense
	for _, e := range s.expenses {
		if e.OwnerID == ownerID {
			owned = append(owned, e)
		}
	}
	return owned, nil
}

func (s *fakeExpenseStore) UpdateExpense(ctx context.Context, id, ownerID, categoryID int64, amount decimal.Decimal) error {
	if !s.categories[categoryID] {
		return repository.ErrUnknownCategory
	}
	for _, e := range s.expenses {
		if e.ID == id && e.OwnerID == ownerID {
			e.CategoryID = categoryID
			e.Amount = amount
			return nil
		}
	}
	return repository.ErrExpenseNotFound
}

func (s *fakeExpenseStore) DeleteExpense(ctx context.Context, id, ownerID int64) error {
	for i, e := range s.expenses {
		if e.ID == id && e.OwnerID == ownerID {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return repository.ErrExpenseNotFound
}

func newExpenseService() (*ExpenseService, *fakeExpenseStore, *metrics.InMemoryRecorder) {
	store := newFakeExpenseStore()
	recorder := metrics.NewInMemory()
	return NewExpenseService(store, recorder), store, recorder
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestExpenseService_Create(t *testing.T) {
	svc, _, recorder := newExpenseService()

	expense, err := svc.Create(context.Background(), 7, ExpenseInput{CategoryID: 1, Amount: amount("45.50")})
	require.NoError(t, err)

	assert.NotZero(t, expense.ID)
	assert.Equal(t, int64(7), expense.OwnerID)
	assert.Equal(t, int64(1), expense.CategoryID)
	assert.True(t, expense.Amount.Equal(amount("45.50")))
	assert.False(t, expense.CreatedAt.IsZero())
	assert.Equal(t, uint64(1), recorder.Snapshot().ExpensesCreated)
}

func TestExpenseService_Create_RoundsAmount(t *testing.T) {
	svc, _, _ := newExpenseService()

	expense, err := svc.Create(context.Background(), 7, ExpenseInput{CategoryID: 1, Amount: amount("10.005")})
	require.NoError(t, err)
	assert.Equal(t, "10.01", expense.Amount.StringFixed(2))
}

func TestExpenseService_Create_Invalid(t *testing.T) {
	svc, _, recorder := newExpenseService()

	testCases := []struct {
		name    string
		input   ExpenseInput
		wantErr error
	}{
		{name: "missing category", input: ExpenseInput{Amount: amount("10")}, wantErr: ErrInvalidCategory},
		{name: "negative category", input: ExpenseInput{CategoryID: -1, Amount: amount("10")}, wantErr: ErrInvalidCategory},
		{name: "unknown category", input: ExpenseInput{CategoryID: 999, Amount: amount("10")}, wantErr: ErrInvalidCategory},
		{name: "zero amount", input: ExpenseInput{CategoryID: 1}, wantErr: ErrInvalidAmount},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 7, tc.input)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	assert.Equal(t, uint64(0), recorder.Snapshot().ExpensesCreated)
}

func TestExpenseService_Get_OwnershipIndistinguishable(t *testing.T) {
	svc, _, _ := newExpenseService()

	mine, err := svc.Create(context.Background(), 7, ExpenseInput{CategoryID: 1, Amount: amount("20")})
	require.NoError(t, err)

	// Owner sees it.
	got, err := svc.Get(context.Background(), mine.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)

	// Another user gets the same error as for a nonexistent id.
	_, errForeign := svc.Get(context.Background(), mine.ID, 8)
	_, errAbsent := svc.Get(context.Background(), 9999, 8)
	assert.ErrorIs(t, errForeign, ErrExpenseNotFound)
	assert.ErrorIs(t, errAbsent, ErrExpenseNotFound)
	assert.Equal(t, errForeign.Error(), errAbsent.Error())
}

func TestExpenseService_List(t *testing.T) {
	svc, _, _ := newExpenseService()

	_, err := svc.Create(context.Background(), 7, ExpenseInput{CategoryID: 1, Amount: amount("10")})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 7, ExpenseInput{CategoryID: 2, Amount: amount("20")})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 8, ExpenseInput{CategoryID: 1, Amount: amount("99")})
	require.NoError(t, err)

	mine, err := svc.List(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, e := range mine {
		assert.Equal(t, int64(7), e.OwnerID)
	}
}

func TestExpenseService_List_EmptyIsNotNil(t *testing.T) {
	svc, _, _ := newExpenseService()

	expenses, err := svc.List(context.Background(), 42)
	require.NoError(t, err)
	assert.NotNil(t, expenses, "empty list must serialize as [], not null")
	assert.Len(t, expenses, 0)
}

func TestExpenseService_Update(t *testing.T) {
	svc, store, recorder := newExpenseService()

	expense, err := svc.Create(context.Background(), 7, ExpenseInput{CategoryID: 1, Amount: amount("10")})
	require.NoError(t, err)

	err = svc.Update(context.Background(), expense.ID, 7, ExpenseInput{CategoryID: 2, Amount: amount("33.33")})
	require.NoError(t, err)

	updated, err := store.GetExpenseByID(context.Background(), expense.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.CategoryID)
	assert.True(t, updated.Amount.Equal(amount("33.33")))
	assert.Equal(t, uint64(1), recorder.Snapshot().ExpensesUpdated)

	// Foreign owner cannot update.
	err = svc.Update(context.Background(), expense.ID, 8, ExpenseInput{CategoryID: 1, Amount: amount("1")})
	assert.ErrorIs(t, err, ErrExpenseNotFound)
}

func TestExpenseService_Delete(t *testing.T) {
	svc, _, recorder := newExpenseService()

	expense, err := svc.Create(context.Background(), 7, ExpenseInput{CategoryID: 1, Amount: amount("10")})
	require.NoError(t, err)

	// Foreign owner cannot delete, and the row survives.
	err = svc.Delete(context.Background(), expense.ID, 8)
	assert.ErrorIs(t, err, ErrExpenseNotFound)

	_, err = svc.Get(context.Background(), expense.ID, 7)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), expense.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), recorder.Snapshot().ExpensesDeleted)

	_, err = svc.Get(context.Background(), expense.ID, 7)
	assert.ErrorIs(t, err, ErrExpenseNotFound)
}
