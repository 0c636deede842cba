package session

import (
	"context"

	"github.com/stcker/backend/internal/model"
)

type identityKey struct{}

func WithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	if identity == nil {
		return ctx
	}
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *model.Identity {
	identity, _ := ctx.Value(identityKey{}).(*model.Identity)
	return identity
}
