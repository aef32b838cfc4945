package program

import "context"

type Repository interface {
	GetByID(ctx context.Context, applicationID string) (Application, bool, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]Application, error)
}
