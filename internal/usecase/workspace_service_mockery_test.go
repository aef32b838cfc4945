package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/launchforge/accelerator-api/internal/domain/user"
	"github.com/launchforge/accelerator-api/internal/domain/workspace"
	programmock "github.com/launchforge/accelerator-api/internal/mocks/domain/program"
	workspacemock "github.com/launchforge/accelerator-api/internal/mocks/domain/workspace"
)

func TestWorkspaceService_ResolveContext_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	workspaceRepo := workspacemock.NewRepository(t)
	programRepo := programmock.NewRepository(t)

	service := NewWorkspaceService(workspaceRepo, programRepo)
	principal := user.Principal{UserID: "user-1"}

	workspaceRepo.
		On("GetByID", mock.Anything, "ws-1").
		Return(workspace.Workspace{ID: "ws-1", Name: "Launch Forge"}, true, nil).
		Once()
	workspaceRepo.
		On("GetMember", mock.Anything, "ws-1", "user-1").
		Return(workspace.Member{
			WorkspaceID: "ws-1",
			UserID:      "user-1",
			Role:        workspace.RoleJudge,
			Permissions: workspace.DefaultPermissions(workspace.RoleJudge),
		}, true, nil).
		Once()

	wctx, err := service.ResolveContext(ctx, principal, "ws-1")
	if err != nil {
		t.Fatalf("resolve context: %v", err)
	}
	if wctx.WorkspaceID != "ws-1" || wctx.UserID != "user-1" {
		t.Fatalf("unexpected context: %+v", wctx)
	}
	if !wctx.Can(workspace.PermissionScoreSubmissions) {
		t.Fatalf("expected judge to score submissions")
	}
}

func TestWorkspaceService_ResolveContext_RepoErrorPropagatesUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	workspaceRepo := workspacemock.NewRepository(t)
	programRepo := programmock.NewRepository(t)

	service := NewWorkspaceService(workspaceRepo, programRepo)
	repoErr := errors.New("connection reset")

	workspaceRepo.
		On("GetByID", mock.Anything, "ws-1").
		Return(workspace.Workspace{}, false, repoErr).
		Once()

	_, err := service.ResolveContext(ctx, user.Principal{UserID: "user-1"}, "ws-1")
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
}

func TestWorkspaceService_CountJudges_UsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	workspaceRepo := workspacemock.NewRepository(t)
	programRepo := programmock.NewRepository(t)

	service := NewWorkspaceService(workspaceRepo, programRepo)

	workspaceRepo.
		On("ListMembers", mock.Anything, "ws-1").
		Return([]workspace.Member{
			{UserID: "u1", Permissions: workspace.DefaultPermissions(workspace.RoleAdmin)},
			{UserID: "u2", Permissions: workspace.DefaultPermissions(workspace.RoleJudge)},
			{UserID: "u3", Permissions: workspace.DefaultPermissions(workspace.RoleJudge)},
			{UserID: "u4", Permissions: workspace.DefaultPermissions(workspace.RoleViewer)},
		}, nil).
		Once()

	count, err := service.CountJudges(ctx, "ws-1")
	if err != nil {
		t.Fatalf("count judges: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 judges, got %d", count)
	}
}

func TestWorkspaceService_CountJudges_RoleDefaultsUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	workspaceRepo := workspacemock.NewRepository(t)
	programRepo := programmock.NewRepository(t)

	service := NewWorkspaceService(workspaceRepo, programRepo)

	// Rows inserted with the schema default carry an empty permission set;
	// the denominator must still see the judge-role members.
	workspaceRepo.
		On("ListMembers", mock.Anything, "ws-1").
		Return([]workspace.Member{
			{UserID: "u1", Role: workspace.RoleJudge},
			{UserID: "u2", Role: workspace.RoleJudge},
			{UserID: "u3", Role: workspace.RoleViewer},
		}, nil).
		Once()

	count, err := service.CountJudges(ctx, "ws-1")
	if err != nil {
		t.Fatalf("count judges: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 judges from role defaults, got %d", count)
	}
}
