package common

import (
	"context"

	"github.com/sngm3741/stagelink/api/internal/public/application"
)

type contextKey string

const principalContextKey contextKey = "principal"

// ContextWithPrincipal stores the authenticated caller into context.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated caller from context.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}
