package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/spendwise/spendwise/internal/testutil"
)

func TestRepository_CreateAndGetUser(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := testutil.NewTestUser(t, "alice")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected generated user ID")
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("expected server-assigned created_at")
	}

	byID, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user by ID: %v", err)
	}
	if byID.Username != user.Username || byID.Email != user.Email {
		t.Fatalf("loaded user mismatch: %+v", byID)
	}

	byName, err := repo.GetUserByUsername(ctx, user.Username)
	if err != nil {
		t.Fatalf("get user by username: %v", err)
	}
	if byName.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, byName.ID)
	}
}

func TestRepository_CreateUser_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := testutil.NewTestUser(t, "bob")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	duplicate := testutil.NewTestUser(t, "bob2")
	duplicate.Username = user.Username
	if err := repo.CreateUser(ctx, duplicate); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}

	// First user must be unaffected by the failed duplicate.
	if _, err := repo.GetUserByID(ctx, user.ID); err != nil {
		t.Fatalf("original user should survive: %v", err)
	}
}

func TestRepository_CreateUser_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := testutil.NewTestUser(t, "carol")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	duplicate := testutil.NewTestUser(t, "carol2")
	duplicate.Email = user.Email
	if err := repo.CreateUser(ctx, duplicate); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestRepository_FindUsersByUsernameOrEmail(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	first := testutil.NewTestUser(t, "dave")
	second := testutil.NewTestUser(t, "erin")
	if err := repo.CreateUser(ctx, first); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if err := repo.CreateUser(ctx, second); err != nil {
		t.Fatalf("create second: %v", err)
	}

	// Match on the first user's username and the second user's email.
	matches, err := repo.FindUsersByUsernameOrEmail(ctx, first.Username, second.Email)
	if err != nil {
		t.Fatalf("find users: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}

	none, err := repo.FindUsersByUsernameOrEmail(ctx, "no-such-user", "no-such@example.com")
	if err != nil {
		t.Fatalf("find users: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no matches, got %d", len(none))
	}
}

func TestRepository_GetUserByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	if _, err := repo.GetUserByID(ctx, 999999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRepository_ListUsers(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	for _, prefix := range []string{"frank", "grace"} {
		if err := repo.CreateUser(ctx, testutil.NewTestUser(t, prefix)); err != nil {
			t.Fatalf("create %s: %v", prefix, err)
		}
	}

	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}
