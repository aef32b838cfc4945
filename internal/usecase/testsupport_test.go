package usecase

import (
	"context"
	"testing"

	"github.com/launchforge/accelerator-api/internal/domain/evaluation"
	"github.com/launchforge/accelerator-api/internal/domain/user"
	"github.com/launchforge/accelerator-api/internal/domain/workspace"
	"github.com/launchforge/accelerator-api/internal/infrastructure/repository/memory"
	idgen "github.com/launchforge/accelerator-api/internal/platform/id"
)

type fixture struct {
	workspaceRepo  *memory.WorkspaceRepository
	programRepo    *memory.ProgramRepository
	submissionRepo *memory.SubmissionRepository
	evaluationRepo *memory.EvaluationRepository
	interviewRepo  *memory.InterviewRepository

	workspaceSvc  *WorkspaceService
	evaluationSvc *EvaluationService
	scoringSvc    *ScoringService
	workflowSvc   *WorkflowService
	interviewSvc  *InterviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		workspaceRepo:  memory.NewWorkspaceRepository(memory.SeedWorkspaces(), memory.SeedMembers()),
		programRepo:    memory.NewProgramRepository(memory.SeedApplications()),
		submissionRepo: memory.NewSubmissionRepository(memory.SeedSubmissions()),
		evaluationRepo: memory.NewEvaluationRepository(),
		interviewRepo:  memory.NewInterviewRepository(),
	}

	ids := idgen.NewRandomGenerator()
	f.workspaceSvc = NewWorkspaceService(f.workspaceRepo, f.programRepo)
	f.evaluationSvc = NewEvaluationService(f.workspaceSvc, f.evaluationRepo, ids)
	f.scoringSvc = NewScoringService(f.workspaceSvc, f.evaluationRepo, f.submissionRepo, ids, nil)
	f.workflowSvc = NewWorkflowService(f.workspaceSvc, f.scoringSvc, f.evaluationRepo, f.submissionRepo, nil, nil)
	f.interviewSvc = NewInterviewService(f.workspaceSvc, f.evaluationRepo, f.submissionRepo, f.interviewRepo, ids)
	return f
}

func (f *fixture) adminContext(t *testing.T) workspace.Context {
	return f.memberContext(t, "user_admin")
}

func (f *fixture) memberContext(t *testing.T, userID string) workspace.Context {
	t.Helper()

	wctx, err := f.workspaceSvc.ResolveContext(t.Context(), user.Principal{UserID: userID}, memory.WorkspaceIDDemo)
	if err != nil {
		t.Fatalf("resolve workspace context for %s: %v", userID, err)
	}
	return wctx
}

// setupDefaultSteps configures the two-step pipeline used by most tests:
// step 1 with two equally weighted criteria, step 2 with one, scores on a
// 1..10 range with 75% judge coverage required.
func (f *fixture) setupDefaultSteps(t *testing.T) []evaluation.Step {
	t.Helper()

	steps, err := f.evaluationSvc.SetupSteps(t.Context(), f.adminContext(t), SetupStepsInput{
		ApplicationID:               memory.ApplicationIDBatch12,
		ScoreMin:                    1,
		ScoreMax:                    10,
		RequiredEvaluatorPercentage: 75,
		Steps: []StepInput{
			{
				Number: 1,
				Name:   "Application Review",
				Criteria: []CriterionInput{
					{Label: "Team", Weight: 1},
					{Label: "Market", Weight: 1},
				},
			},
			{
				Number: 2,
				Name:   "Interview",
				Criteria: []CriterionInput{
					{Label: "Interview Performance", Weight: 1},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("setup steps: %v", err)
	}
	return steps
}

func (f *fixture) submitScore(t *testing.T, judgeID string, step evaluation.Step, submissionID string, values map[string]float64) {
	t.Helper()

	_, err := f.scoringSvc.SubmitScore(t.Context(), f.memberContext(t, judgeID), SubmitScoreInput{
		ApplicationID: memory.ApplicationIDBatch12,
		StepID:        step.ID,
		SubmissionID:  submissionID,
		Values:        values,
	})
	if err != nil {
		t.Fatalf("submit score by %s for %s: %v", judgeID, submissionID, err)
	}
}

// evenScore builds a score map giving the same value to every criterion.
func evenScore(step evaluation.Step, value float64) map[string]float64 {
	values := make(map[string]float64, len(step.Criteria))
	for _, criterion := range step.Criteria {
		values[criterion.ID] = value
	}
	return values
}

func advanceSubmissions(ctx context.Context, t *testing.T, f *fixture, wctx workspace.Context, ids []string, force bool) TransitionResult {
	t.Helper()

	result, err := f.workflowSvc.AdvanceToInterview(ctx, wctx, TransitionInput{
		ApplicationID: memory.ApplicationIDBatch12,
		SubmissionIDs: ids,
		Force:         force,
	})
	if err != nil {
		t.Fatalf("advance to interview: %v", err)
	}
	return result
}
