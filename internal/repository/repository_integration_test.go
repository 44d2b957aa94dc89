package repository

import (
	"context"
	"testing"

	"github.com/spendwise/spendwise/internal/testutil"
)

// newTestRepository connects to the database named by DATABASE_URL, applies
// migrations, and truncates mutable tables. Tests are skipped when no
// database is configured.
func newTestRepository(t *testing.T, ctx context.Context) *Repository {
	t.Helper()

	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	if err := Migrate(dbURL); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		if err := unlock(); err != nil {
			t.Errorf("release db lock: %v", err)
		}
	})

	if err := testutil.TruncateAll(ctx, repo.Pool()); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	return repo
}
