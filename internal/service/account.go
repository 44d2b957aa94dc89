// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/spendwise/spendwise/internal/auth"
	"github.com/spendwise/spendwise/internal/metrics"
	"github.com/spendwise/spendwise/internal/model"
	"github.com/spendwise/spendwise/internal/repository"
)

// Account service errors.
var (
	ErrMissingFields      = errors.New("required fields are missing")
	ErrDuplicateUser      = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserStore is the credential persistence required by AccountService.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	FindUsersByUsernameOrEmail(ctx context.Context, username, email string) ([]*model.User, error)
}

// SessionStore issues and destroys sessions for authenticated users.
type SessionStore interface {
	Create(ctx context.Context, user *model.User) (string, *model.Subject, error)
	Destroy(ctx context.Context, token string) error
}

// AccountService handles registration, login, and logout.
type AccountService struct {
	users    UserStore
	sessions SessionStore
	metrics  metrics.Recorder
}

// NewAccountService creates a new AccountService.
func NewAccountService(users UserStore, sessions SessionStore, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		users:    users,
		sessions: sessions,
		metrics:  recorder,
	}
}

// Register creates a new account. The plaintext password is hashed here and
// never persisted. Duplicate usernames or emails fail with ErrDuplicateUser
// whether caught by the pre-insert check or by the unique constraints.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	// Friendly-path duplicate check. The insert below remains race-safe on
	// its own through the unique constraints.
	existing, err := s.users.FindUsersByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("check existing users: %w", err)
	}
	if len(existing) > 0 {
		return nil, ErrDuplicateUser
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) || errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, nil
}

// Login verifies the credentials and issues a session. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, *model.Subject, error) {
	if username == "" || password == "" {
		return "", nil, ErrMissingFields
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLoginFailure()
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("load user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		// A stored hash that cannot be parsed is a server-side defect.
		return "", nil, fmt.Errorf("verify password: %w", err)
	}
	if !match {
		s.metrics.IncLoginFailure()
		return "", nil, ErrInvalidCredentials
	}

	token, subject, err := s.sessions.Create(ctx, user)
	if err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	s.metrics.IncLoginSuccess()

	return token, subject, nil
}

// Logout destroys the session bound to token. Store failures surface to the
// caller so they are never mistaken for a successful logout.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	s.metrics.IncSessionDestroyed()
	return nil
}
