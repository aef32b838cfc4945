package memory

import (
	"time"

	"github.com/launchforge/accelerator-api/internal/domain/program"
	"github.com/launchforge/accelerator-api/internal/domain/submission"
	"github.com/launchforge/accelerator-api/internal/domain/workspace"
)

const (
	WorkspaceIDDemo = "ws_demo"

	ApplicationIDBatch12 = "app_batch12"
)

func SeedWorkspaces() []workspace.Workspace {
	return []workspace.Workspace{
		{
			ID:        WorkspaceIDDemo,
			Name:      "LaunchForge Demo",
			Slug:      "launchforge-demo",
			CreatedAt: time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC),
		},
	}
}

func SeedMembers() []workspace.Member {
	joined := time.Date(2025, 11, 1, 9, 30, 0, 0, time.UTC)
	return []workspace.Member{
		{
			WorkspaceID: WorkspaceIDDemo,
			UserID:      "user_admin",
			Email:       "program@launchforge.dev",
			Role:        workspace.RoleAdmin,
			Permissions: workspace.DefaultPermissions(workspace.RoleAdmin),
			JoinedAt:    joined,
		},
		{
			WorkspaceID: WorkspaceIDDemo,
			UserID:      "user_judge_ayu",
			Email:       "ayu@launchforge.dev",
			Role:        workspace.RoleJudge,
			Permissions: workspace.DefaultPermissions(workspace.RoleJudge),
			JoinedAt:    joined,
		},
		{
			WorkspaceID: WorkspaceIDDemo,
			UserID:      "user_judge_bram",
			Email:       "bram@launchforge.dev",
			Role:        workspace.RoleJudge,
			Permissions: workspace.DefaultPermissions(workspace.RoleJudge),
			JoinedAt:    joined,
		},
		{
			WorkspaceID: WorkspaceIDDemo,
			UserID:      "user_judge_citra",
			Email:       "citra@launchforge.dev",
			Role:        workspace.RoleJudge,
			Permissions: workspace.DefaultPermissions(workspace.RoleJudge),
			JoinedAt:    joined,
		},
		{
			WorkspaceID: WorkspaceIDDemo,
			UserID:      "user_viewer",
			Email:       "observer@launchforge.dev",
			Role:        workspace.RoleViewer,
			Permissions: workspace.DefaultPermissions(workspace.RoleViewer),
			JoinedAt:    joined,
		},
	}
}

func SeedApplications() []program.Application {
	return []program.Application{
		{
			ID:          ApplicationIDBatch12,
			WorkspaceID: WorkspaceIDDemo,
			Name:        "Batch 12 Intake",
			Status:      program.ApplicationStatusOpen,
			CreatedAt:   time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC),
		},
	}
}

func SeedSubmissions() []submission.Submission {
	submitted := time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC)
	return []submission.Submission{
		{
			ID:            "sub_heliotech",
			ApplicationID: ApplicationIDBatch12,
			TeamName:      "HelioTech",
			FounderEmail:  "founders@heliotech.id",
			CurrentStep:   submission.StepReview,
			Status:        submission.StatusSubmitted,
			SubmittedAt:   submitted,
			UpdatedAt:     submitted,
		},
		{
			ID:            "sub_kiranafarm",
			ApplicationID: ApplicationIDBatch12,
			TeamName:      "Kirana Farm",
			FounderEmail:  "hello@kiranafarm.co",
			CurrentStep:   submission.StepReview,
			Status:        submission.StatusSubmitted,
			SubmittedAt:   submitted.Add(30 * time.Minute),
			UpdatedAt:     submitted.Add(30 * time.Minute),
		},
		{
			ID:            "sub_pasarlink",
			ApplicationID: ApplicationIDBatch12,
			TeamName:      "PasarLink",
			FounderEmail:  "team@pasarlink.app",
			CurrentStep:   submission.StepReview,
			Status:        submission.StatusSubmitted,
			SubmittedAt:   submitted.Add(time.Hour),
			UpdatedAt:     submitted.Add(time.Hour),
		},
	}
}
