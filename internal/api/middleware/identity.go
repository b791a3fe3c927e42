package middleware

import (
	"context"

	"github.com/AmitLevy9/DailyBite/internal/store"
)

// ContextIdentity adapts the session context to the store.Identity contract,
// so core services resolve the current user without importing the HTTP layer.
type ContextIdentity struct{}

func (ContextIdentity) CurrentUID(ctx context.Context) (string, bool) {
	return UIDFromContext(ctx)
}

var _ store.Identity = ContextIdentity{}
