package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/spendwise/spendwise/internal/auth"
	"github.com/spendwise/spendwise/internal/middleware"
	"github.com/spendwise/spendwise/internal/model"
	"github.com/spendwise/spendwise/internal/repository"
	"github.com/spendwise/spendwise/internal/service"
)

const testCookieName = "test_session"

// fakeUserStore backs the account service with in-memory users.
type fakeUserStore struct {
	users  []*model.User
	nextID int64
}

func (s *fakeUserStore) CreateUser(ctx context.Context, user *model.User) error {
	for _, u := range s.users {
		if u.Username == user.Username {
			return repository.ErrUsernameExists
		}
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now().UTC()
	s.users = append(s.users, user)
	return nil
}

func (s *fakeUserStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) FindUsersByUsernameOrEmail(ctx context.Context, username, email string) ([]*model.User, error) {
	var matches []*model.User
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			matches = append(matches, u)
		}
	}
	return matches, nil
}

func (s *fakeUserStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.users, nil
}

// fakeSessions is an in-memory session store usable both as the account
// service's session store and as the middleware's resolver.
type fakeSessions struct {
	subjects map[string]*model.Subject
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{subjects: make(map[string]*model.Subject)}
}

func (s *fakeSessions) Create(ctx context.Context, user *model.User) (string, *model.Subject, error) {
	token, err := auth.NewSessionToken()
	if err != nil {
		return "", nil, err
	}
	subject := &model.Subject{
		SessionID: "01TESTSESSION",
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: time.Now().UTC(),
	}
	s.subjects[token] = subject
	return token, subject, nil
}

func (s *fakeSessions) Resolve(ctx context.Context, token string) (*model.Subject, error) {
	return s.subjects[token], nil
}

func (s *fakeSessions) Destroy(ctx context.Context, token string) error {
	delete(s.subjects, token)
	return nil
}

// fakeExpenseStore backs the expense service with in-memory rows.
type fakeExpenseStore struct {
	expenses   []*model.Expense
	nextID     int64
	categories []*model.Category
}

func newFakeExpenseStore() *fakeExpenseStore {
	return &fakeExpenseStore{
		categories: []*model.Category{
			{ID: 1, Name: "Food"},
			{ID: 2, Name: "Transport"},
			{ID: 3, Name: "Other"},
		},
	}
}

func (s *fakeExpenseStore) knownCategory(id int64) bool {
	for _, c := range s.categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (s *fakeExpenseStore) CreateExpense(ctx context.Context, expense *model.Expense) error {
	if !s.knownCategory(expense.CategoryID) {
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
	if !s.knownCategory(categoryID) {
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

func (s *fakeExpenseStore) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.categories, nil
}

// testEnv wires handlers, services, and fakes behind a real router.
type testEnv struct {
	router   *chi.Mux
	users    *fakeUserStore
	sessions *fakeSessions
	store    *fakeExpenseStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := &fakeUserStore{}
	sessions := newFakeSessions()
	store := newFakeExpenseStore()

	accountService := service.NewAccountService(users, sessions, nil)
	expenseService := service.NewExpenseService(store, nil)

	cookieCfg := CookieConfig{Name: testCookieName, Secure: false, TTL: time.Hour}
	authHandler := NewAuthHandler(accountService, logger, cookieCfg)
	expenseHandler := NewExpenseHandler(expenseService, logger)
	categoryHandler := NewCategoryHandler(store, logger)
	userHandler := NewUserHandler(users, logger)

	authMW := middleware.Auth(middleware.AuthConfig{
		Logger:     logger,
		Sessions:   sessions,
		CookieName: testCookieName,
	})

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/categories", categoryHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(authMW)
			r.Post("/logout", authHandler.Logout)
			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", expenseHandler.List)
				r.Post("/", expenseHandler.Create)
				r.Get("/{id}", expenseHandler.Get)
				r.Put("/{id}", expenseHandler.Update)
				r.Delete("/{id}", expenseHandler.Delete)
			})
			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Get("/{id}", userHandler.Get)
			})
		})
	})

	base := New()
	r.NotFound(base.NotFound)
	r.MethodNotAllowed(base.MethodNotAllowed)

	return &testEnv{router: r, users: users, sessions: sessions, store: store}
}

// do performs a JSON request against the test router. A non-nil cookie is
// attached as the session.
func (e *testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// register creates an account through the API.
func (e *testEnv) register(t *testing.T, username, email, password string) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

// login authenticates through the API and returns the session cookie.
func (e *testEnv) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/login", map[string]string{
		"username": username,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName {
			return c
		}
	}
	t.Fatal("login response missing session cookie")
	return nil
}

// errorCode extracts the error code from a response body.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Error.Code
}
