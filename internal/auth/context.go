package auth

import (
	"context"

	"github.com/spendwise/spendwise/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const subjectContextKey contextKey = "auth_subject"

// ContextWithSubject returns a context carrying the authenticated subject.
func ContextWithSubject(ctx context.Context, sub *model.Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey, sub)
}

// SubjectFromContext retrieves the authenticated subject from the context.
// Returns nil for anonymous requests.
func SubjectFromContext(ctx context.Context) *model.Subject {
	sub, ok := ctx.Value(subjectContextKey).(*model.Subject)
	if !ok {
		return nil
	}
	return sub
}

// MustSubjectFromContext retrieves the subject and panics if absent.
// Only for handlers mounted behind the session middleware.
func MustSubjectFromContext(ctx context.Context) *model.Subject {
	sub := SubjectFromContext(ctx)
	if sub == nil {
		panic("auth subject not found - ensure session middleware is applied")
	}
	return sub
}
