package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/launchforge/accelerator-api/internal/domain/evaluation"
	"github.com/launchforge/accelerator-api/internal/domain/submission"
	"github.com/launchforge/accelerator-api/internal/domain/workspace"
	"github.com/launchforge/accelerator-api/internal/platform/cache"
	idgen "github.com/launchforge/accelerator-api/internal/platform/id"
)

// ScoringService accepts judge scores and produces the aggregated, gated
// scoreboard for a step.
type ScoringService struct {
	workspaceSvc   *WorkspaceService
	evaluationRepo evaluation.Repository
	submissionRepo submission.Repository
	ids            idgen.Generator
	scoreboardTTL  *cache.Store
	now            func() time.Time
}

func NewScoringService(
	workspaceSvc *WorkspaceService,
	evaluationRepo evaluation.Repository,
	submissionRepo submission.Repository,
	ids idgen.Generator,
	scoreboardCache *cache.Store,
) *ScoringService {
	return &ScoringService{
		workspaceSvc:   workspaceSvc,
		evaluationRepo: evaluationRepo,
		submissionRepo: submissionRepo,
		ids:            ids,
		scoreboardTTL:  scoreboardCache,
		now:            time.Now,
	}
}

type SubmitScoreInput struct {
	ApplicationID string
	StepID        string
	SubmissionID  string
	Values        map[string]float64
	Notes         string
}

// SubmitScore records one judge's score. The judge identity comes from the
// workspace context, never from the payload. A second score for the same
// (submission, step, judge) triple fails with evaluation.ErrAlreadyScored.
func (s *ScoringService) SubmitScore(ctx context.Context, wctx workspace.Context, input SubmitScoreInput) (evaluation.Score, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.SubmitScore")
	defer span.End()

	if !wctx.Can(workspace.PermissionScoreSubmissions) {
		return evaluation.Score{}, fmt.Errorf("%w: evaluation.score is required", ErrForbidden)
	}

	app, err := s.workspaceSvc.ApplicationInWorkspace(ctx, wctx, input.ApplicationID)
	if err != nil {
		return evaluation.Score{}, err
	}

	step, err := s.stepInApplication(ctx, app.ID, input.StepID)
	if err != nil {
		return evaluation.Score{}, err
	}

	sub, exists, err := s.submissionRepo.GetByID(ctx, strings.TrimSpace(input.SubmissionID))
	if err != nil {
		return evaluation.Score{}, fmt.Errorf("get submission: %w", err)
	}
	if !exists || sub.ApplicationID != app.ID {
		return evaluation.Score{}, fmt.Errorf("%w: submission=%s", ErrNotFound, input.SubmissionID)
	}

	settings, exists, err := s.evaluationRepo.GetSettings(ctx, app.ID)
	if err != nil {
		return evaluation.Score{}, fmt.Errorf("get settings: %w", err)
	}
	if !exists {
		settings = evaluation.DefaultSettings(app.ID)
	}

	if err := evaluation.ValidateScoreValues(input.Values, step.Criteria, settings); err != nil {
		return evaluation.Score{}, err
	}

	scoreID, err := s.ids.NewID("score")
	if err != nil {
		return evaluation.Score{}, fmt.Errorf("generate score id: %w", err)
	}

	score := evaluation.Score{
		ID:           scoreID,
		SubmissionID: sub.ID,
		StepID:       step.ID,
		JudgeID:      wctx.UserID,
		Values:       input.Values,
		Notes:        strings.TrimSpace(input.Notes),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.evaluationRepo.CreateScore(ctx, score); err != nil {
		return evaluation.Score{}, fmt.Errorf("create score: %w", err)
	}

	s.invalidateScoreboard(ctx, app.ID, step.ID)
	return score, nil
}

// ScoreboardRow is one submission's aggregate and gating verdict at a step.
type ScoreboardRow struct {
	Submission submission.Submission
	Aggregate  evaluation.Aggregate
	Gating     evaluation.Gating
}

type Scoreboard struct {
	StepID                      string
	StepNumber                  int
	Cutoff                      *float64
	RequiredEvaluatorPercentage float64
	TotalJudges                 int
	Rows                        []ScoreboardRow
}

// GetScoreboard aggregates every submission (or one, when submissionID is
// set) at a step and applies cutoff/coverage gating. Full-step boards are
// briefly cached with singleflight-deduplicated recomputes.
func (s *ScoringService) GetScoreboard(ctx context.Context, wctx workspace.Context, applicationID, stepID, submissionID string) (Scoreboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.GetScoreboard")
	defer span.End()

	if !wctx.Can(workspace.PermissionViewScoreboard) {
		return Scoreboard{}, fmt.Errorf("%w: evaluation.scoreboard.view is required", ErrForbidden)
	}

	app, err := s.workspaceSvc.ApplicationInWorkspace(ctx, wctx, applicationID)
	if err != nil {
		return Scoreboard{}, err
	}

	submissionID = strings.TrimSpace(submissionID)
	if submissionID != "" || s.scoreboardTTL == nil {
		return s.buildScoreboard(ctx, wctx, app.ID, stepID, submissionID)
	}

	key := "scoreboard:" + app.ID + ":" + stepID
	value, err := s.scoreboardTTL.GetOrLoad(ctx, key, func() (any, error) {
		board, buildErr := s.buildScoreboard(ctx, wctx, app.ID, stepID, "")
		if buildErr != nil {
			return nil, buildErr
		}
		return board, nil
	})
	if err != nil {
		return Scoreboard{}, err
	}

	board, ok := value.(Scoreboard)
	if !ok {
		return Scoreboard{}, fmt.Errorf("unexpected scoreboard cache entry type %T", value)
	}
	return board, nil
}

func (s *ScoringService) buildScoreboard(ctx context.Context, wctx workspace.Context, applicationID, stepID, submissionID string) (Scoreboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.buildScoreboard")
	defer span.End()

	step, err := s.stepInApplication(ctx, applicationID, stepID)
	if err != nil {
		return Scoreboard{}, err
	}

	totalJudges, err := s.workspaceSvc.CountJudges(ctx, wctx.WorkspaceID)
	if err != nil {
		return Scoreboard{}, err
	}

	settings, exists, err := s.evaluationRepo.GetSettings(ctx, applicationID)
	if err != nil {
		return Scoreboard{}, fmt.Errorf("get settings: %w", err)
	}
	if !exists {
		settings = evaluation.DefaultSettings(applicationID)
	}

	cutoffs, err := s.evaluationRepo.ListCutoffs(ctx, applicationID)
	if err != nil {
		return Scoreboard{}, fmt.Errorf("list cutoffs: %w", err)
	}
	cutoff, cutoffConfigured := evaluation.CutoffFor(cutoffs, step.Number)

	var subs []submission.Submission
	if submissionID != "" {
		sub, found, getErr := s.submissionRepo.GetByID(ctx, submissionID)
		if getErr != nil {
			return Scoreboard{}, fmt.Errorf("get submission: %w", getErr)
		}
		if !found || sub.ApplicationID != applicationID {
			return Scoreboard{}, fmt.Errorf("%w: submission=%s", ErrNotFound, submissionID)
		}
		subs = []submission.Submission{sub}
	} else {
		subs, err = s.submissionRepo.ListByApplication(ctx, applicationID)
		if err != nil {
			return Scoreboard{}, fmt.Errorf("list submissions: %w", err)
		}
	}

	scores, err := s.evaluationRepo.ListScoresByStep(ctx, step.ID)
	if err != nil {
		return Scoreboard{}, fmt.Errorf("list scores: %w", err)
	}
	scoresBySubmission := make(map[string][]evaluation.Score, len(subs))
	for _, score := range scores {
		scoresBySubmission[score.SubmissionID] = append(scoresBySubmission[score.SubmissionID], score)
	}

	board := Scoreboard{
		StepID:                      step.ID,
		StepNumber:                  step.Number,
		RequiredEvaluatorPercentage: settings.RequiredEvaluatorPercentage,
		TotalJudges:                 totalJudges,
		Rows:                        make([]ScoreboardRow, 0, len(subs)),
	}
	if cutoffConfigured {
		board.Cutoff = &cutoff
	}

	for _, sub := range subs {
		agg := evaluation.AggregateScores(scoresBySubmission[sub.ID], step.Criteria, totalJudges)
		board.Rows = append(board.Rows, ScoreboardRow{
			Submission: sub,
			Aggregate:  agg,
			Gating:     evaluation.Gate(agg, cutoff, settings.RequiredEvaluatorPercentage),
		})
	}

	// Highest average first; unscored submissions sink to the bottom.
	sort.SliceStable(board.Rows, func(i, j int) bool {
		left, right := board.Rows[i].Aggregate.AverageScore, board.Rows[j].Aggregate.AverageScore
		switch {
		case left == nil:
			return false
		case right == nil:
			return true
		default:
			return *left > *right
		}
	})

	return board, nil
}

func (s *ScoringService) stepInApplication(ctx context.Context, applicationID, stepID string) (evaluation.Step, error) {
	stepID = strings.TrimSpace(stepID)
	if stepID == "" {
		return evaluation.Step{}, fmt.Errorf("%w: step id is required", ErrInvalidInput)
	}

	step, exists, err := s.evaluationRepo.GetStepByID(ctx, stepID)
	if err != nil {
		return evaluation.Step{}, fmt.Errorf("get step: %w", err)
	}
	if !exists || step.ApplicationID != applicationID {
		return evaluation.Step{}, fmt.Errorf("%w: step=%s", ErrNotFound, stepID)
	}
	return step, nil
}

func (s *ScoringService) invalidateScoreboard(ctx context.Context, applicationID, stepID string) {
	if s.scoreboardTTL == nil {
		return
	}
	s.scoreboardTTL.Delete(ctx, "scoreboard:"+applicationID+":"+stepID)
}
