package httpx

import (
	"context"

	"github.com/aussiebroadwan/controlpin/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyClaims ctxKey = "claims"
)

func contextWithClaims(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// ClaimsFromContext returns the operator claims injected by the authn
// middlewares, if any.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(jwtx.Claims)
	return c, ok
}

// HasScope reports whether the authenticated caller holds scope.
func HasScope(ctx context.Context, scope string) bool {
	c, ok := ClaimsFromContext(ctx)
	return ok && c.HasScope(scope)
}
