package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/launchforge/accelerator-api/internal/domain/program"
	"github.com/launchforge/accelerator-api/internal/domain/user"
	"github.com/launchforge/accelerator-api/internal/domain/workspace"
)

// WorkspaceService resolves the caller's tenant scope once per request and
// answers membership questions for the evaluation services.
type WorkspaceService struct {
	workspaceRepo workspace.Repository
	programRepo   program.Repository
}

func NewWorkspaceService(workspaceRepo workspace.Repository, programRepo program.Repository) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		programRepo:   programRepo,
	}
}

// ResolveContext turns (principal, workspace id) into an explicit
// workspace.Context value. Non-members get ErrForbidden, unknown workspaces
// ErrNotFound.
func (s *WorkspaceService) ResolveContext(ctx context.Context, principal user.Principal, workspaceID string) (workspace.Context, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WorkspaceService.ResolveContext")
	defer span.End()

	workspaceID = strings.TrimSpace(workspaceID)
	if workspaceID == "" {
		return workspace.Context{}, fmt.Errorf("%w: workspace id is required", ErrInvalidInput)
	}

	_, exists, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return workspace.Context{}, fmt.Errorf("get workspace: %w", err)
	}
	if !exists {
		return workspace.Context{}, fmt.Errorf("%w: workspace=%s", ErrNotFound, workspaceID)
	}

	member, exists, err := s.workspaceRepo.GetMember(ctx, workspaceID, principal.UserID)
	if err != nil {
		return workspace.Context{}, fmt.Errorf("get workspace member: %w", err)
	}
	if !exists {
		return workspace.Context{}, fmt.Errorf("%w: user is not a member of workspace %s", ErrForbidden, workspaceID)
	}

	return workspace.Context{
		WorkspaceID: workspaceID,
		UserID:      principal.UserID,
		Role:        member.Role,
		Permissions: member.EffectivePermissions(),
	}, nil
}

// CountJudges reports how many workspace members may score submissions.
// Zero is reported as-is: gating treats it as an explicit unconfigured
// state rather than defaulting to one judge.
func (s *WorkspaceService) CountJudges(ctx context.Context, workspaceID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WorkspaceService.CountJudges")
	defer span.End()

	members, err := s.workspaceRepo.ListMembers(ctx, workspaceID)
	if err != nil {
		return 0, fmt.Errorf("list workspace members: %w", err)
	}
	return workspace.CountJudges(members), nil
}

// ApplicationInWorkspace loads an application and verifies it belongs to the
// caller's workspace. A foreign application reads as not found so tenants
// cannot probe each other's ids.
func (s *WorkspaceService) ApplicationInWorkspace(ctx context.Context, wctx workspace.Context, applicationID string) (program.Application, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WorkspaceService.ApplicationInWorkspace")
	defer span.End()

	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		return program.Application{}, fmt.Errorf("%w: application id is required", ErrInvalidInput)
	}

	app, exists, err := s.programRepo.GetByID(ctx, applicationID)
	if err != nil {
		return program.Application{}, fmt.Errorf("get application: %w", err)
	}
	if !exists || app.WorkspaceID != wctx.WorkspaceID {
		return program.Application{}, fmt.Errorf("%w: application=%s", ErrNotFound, applicationID)
	}

	return app, nil
}
