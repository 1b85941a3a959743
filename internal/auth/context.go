package auth

import (
	"context"

	"github.com/google/uuid"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	CompanyID   uuid.UUID
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// GetCompanyFilter returns the company ID repositories must scope queries to.
// Every authenticated request is bound to exactly one company; a nil return
// means the context is unauthenticated (tests and internal jobs set their
// own scope instead).
func GetCompanyFilter(ctx context.Context) *uuid.UUID {
	if userCtx, ok := FromContext(ctx); ok {
		return &userCtx.CompanyID
	}
	return nil
}
