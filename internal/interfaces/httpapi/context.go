package httpapi

import (
	"context"

	"github.com/launchforge/accelerator-api/internal/domain/user"
	"github.com/launchforge/accelerator-api/internal/domain/workspace"
)

type contextKey string

const (
	principalContextKey contextKey = "auth_principal"
	workspaceContextKey contextKey = "workspace_context"
)

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(user.Principal)
	return p, ok
}

func withWorkspaceContext(ctx context.Context, wctx workspace.Context) context.Context {
	return context.WithValue(ctx, workspaceContextKey, wctx)
}

func workspaceContextFrom(ctx context.Context) (workspace.Context, bool) {
	wctx, ok := ctx.Value(workspaceContextKey).(workspace.Context)
	return wctx, ok
}
