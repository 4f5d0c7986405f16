package middlewarex

import (
	"context"

	"fullstack/internal/auth"
)

type ctxKey string

const (
	ctxClaims ctxKey = "claims"
)

func WithClaims(ctx context.Context, c *auth.Claims) context.Context {
	return context.WithValue(ctx, ctxClaims, c)
}

func Claims(ctx context.Context) (*auth.Claims, bool) {
	v, ok := ctx.Value(ctxClaims).(*auth.Claims)
	return v, ok
}
