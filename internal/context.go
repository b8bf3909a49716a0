package internal

import (
	"context"

	"github.com/frahmantamala/pos-management/internal/core/identity"
)

type ctxKey string

const ContextIdentityKey ctxKey = "identity"

// ContextWithIdentity stores the authenticated identity for the rest of the request.
func ContextWithIdentity(ctx context.Context, id identity.Identity) context.Context {
	return context.WithValue(ctx, ContextIdentityKey, id)
}

func IdentityFromContext(ctx context.Context) (identity.Identity, bool) {
	if ctx == nil {
		return identity.Identity{}, false
	}
	id, ok := ctx.Value(ContextIdentityKey).(identity.Identity)
	return id, ok
}
