package service

import (
	"context"

	"github.com/google/uuid"
)

// IdentityResolver yields the authenticated caller, or false for anonymous requests.
type IdentityResolver interface {
	ResolveCaller(ctx context.Context) (uuid.UUID, bool)
}

type callerKey struct{}

func WithCaller(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, callerKey{}, userID)
}

func CallerFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(callerKey{}).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// ContextIdentity reads the caller stored by WithCaller.
type ContextIdentity struct{}

func (ContextIdentity) ResolveCaller(ctx context.Context) (uuid.UUID, bool) {
	return CallerFromContext(ctx)
}
