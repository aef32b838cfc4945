package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/launchforge/accelerator-api/internal/domain/evaluation"
	"github.com/launchforge/accelerator-api/internal/domain/submission"
	"github.com/launchforge/accelerator-api/internal/domain/workspace"
	"github.com/launchforge/accelerator-api/internal/platform/logging"
)

const defaultGatingWorkers = 8

// WorkflowService moves submissions through the evaluation pipeline:
// review (step 1) to interview (step 2), then admission. Transitions are
// bulk, idempotent, and verified against the gating rules server-side
// unless the caller forces them through.
type WorkflowService struct {
	workspaceSvc   *WorkspaceService
	scoringSvc     *ScoringService
	evaluationRepo evaluation.Repository
	submissionRepo submission.Repository
	notifier       Notifier
	logger         *logging.Logger
	gatingWorkers  int
}

func NewWorkflowService(
	workspaceSvc *WorkspaceService,
	scoringSvc *ScoringService,
	evaluationRepo evaluation.Repository,
	submissionRepo submission.Repository,
	notifier Notifier,
	logger *logging.Logger,
) *WorkflowService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &WorkflowService{
		workspaceSvc:   workspaceSvc,
		scoringSvc:     scoringSvc,
		evaluationRepo: evaluationRepo,
		submissionRepo: submissionRepo,
		notifier:       notifier,
		logger:         logger,
		gatingWorkers:  defaultGatingWorkers,
	}
}

// SkipReason explains why a submission was left out of a bulk transition.
type SkipReason string

const (
	SkipNotFound      SkipReason = "not-found"
	SkipAlreadyThere  SkipReason = "already-transitioned"
	SkipGatingFailed  SkipReason = "gating-not-passed"
	SkipWrongStep     SkipReason = "wrong-step"
	SkipNotSubmitted  SkipReason = "not-in-submitted-status"
	SkipGatingUnknown SkipReason = "gating-check-failed"
)

type SkippedSubmission struct {
	SubmissionID string
	Reason       SkipReason
	GateStatus   evaluation.GateStatus
}

type TransitionResult struct {
	TransitionedIDs []string
	Skipped         []SkippedSubmission
}

type TransitionInput struct {
	ApplicationID string
	// StepID, when set on AdvanceToInterview, must name the application's
	// review step; it guards against posting an advance against the wrong
	// step's URL.
	StepID        string
	SubmissionIDs []string
	// Force skips the server-side gating check. Admins use it to pull a
	// borderline team through a missed cutoff.
	Force bool
}

// AdvanceToInterview moves submissions from the review step to the interview
// step. Each candidate must currently sit at step 1 and, unless forced, have
// passed step 1 gating. Submissions already at step 2 are reported as
// skipped, not errors, so retries of a partially applied batch converge.
func (s *WorkflowService) AdvanceToInterview(ctx context.Context, wctx workspace.Context, input TransitionInput) (TransitionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WorkflowService.AdvanceToInterview")
	defer span.End()

	if !wctx.Can(workspace.PermissionManageSubmissions) {
		return TransitionResult{}, fmt.Errorf("%w: submissions.manage is required", ErrForbidden)
	}

	app, err := s.workspaceSvc.ApplicationInWorkspace(ctx, wctx, input.ApplicationID)
	if err != nil {
		return TransitionResult{}, err
	}

	if stepID := strings.TrimSpace(input.StepID); stepID != "" {
		step, exists, stepErr := s.evaluationRepo.GetStepByID(ctx, stepID)
		if stepErr != nil {
			return TransitionResult{}, fmt.Errorf("get step: %w", stepErr)
		}
		if !exists || step.ApplicationID != app.ID {
			return TransitionResult{}, fmt.Errorf("%w: step=%s", ErrNotFound, stepID)
		}
		if step.Number != submission.StepReview {
			return TransitionResult{}, fmt.Errorf("%w: submissions advance from the review step only", ErrInvalidInput)
		}
	}

	candidates, skipped, err := s.loadCandidates(ctx, app.ID, input.SubmissionIDs)
	if err != nil {
		return TransitionResult{}, err
	}

	var eligible []submission.Submission
	for _, sub := range candidates {
		switch {
		case sub.CurrentStep >= submission.StepInterview:
			skipped = append(skipped, SkippedSubmission{SubmissionID: sub.ID, Reason: SkipAlreadyThere})
		case sub.CurrentStep != submission.StepReview:
			skipped = append(skipped, SkippedSubmission{SubmissionID: sub.ID, Reason: SkipWrongStep})
		default:
			eligible = append(eligible, sub)
		}
	}

	if !input.Force && len(eligible) > 0 {
		eligible, skipped = s.filterByGating(ctx, wctx, app.ID, submission.StepReview, eligible, skipped)
	}

	result := TransitionResult{Skipped: skipped}
	if len(eligible) == 0 {
		return result, nil
	}

	ids := submissionIDs(eligible)
	if _, err := s.submissionRepo.SetStep(ctx, ids, submission.StepInterview); err != nil {
		return TransitionResult{}, fmt.Errorf("set submission step: %w", err)
	}
	result.TransitionedIDs = ids

	s.notifyAll(ctx, wctx.WorkspaceID, app.ID, NotificationSubmissionAdvanced, eligible)
	return result, nil
}

// Admit accepts submissions that completed the interview step. Unless
// forced, each candidate must pass step 2 gating. Already accepted
// submissions are skipped so the operation stays idempotent.
func (s *WorkflowService) Admit(ctx context.Context, wctx workspace.Context, input TransitionInput) (TransitionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WorkflowService.Admit")
	defer span.End()

	if !wctx.Can(workspace.PermissionManageSubmissions) {
		return TransitionResult{}, fmt.Errorf("%w: submissions.manage is required", ErrForbidden)
	}

	app, err := s.workspaceSvc.ApplicationInWorkspace(ctx, wctx, input.ApplicationID)
	if err != nil {
		return TransitionResult{}, err
	}

	candidates, skipped, err := s.loadCandidates(ctx, app.ID, input.SubmissionIDs)
	if err != nil {
		return TransitionResult{}, err
	}

	var eligible []submission.Submission
	for _, sub := range candidates {
		switch {
		case sub.Status == submission.StatusAccepted:
			skipped = append(skipped, SkippedSubmission{SubmissionID: sub.ID, Reason: SkipAlreadyThere})
		case sub.Status != submission.StatusSubmitted:
			skipped = append(skipped, SkippedSubmission{SubmissionID: sub.ID, Reason: SkipNotSubmitted})
		case sub.CurrentStep != submission.StepInterview:
			skipped = append(skipped, SkippedSubmission{SubmissionID: sub.ID, Reason: SkipWrongStep})
		default:
			eligible = append(eligible, sub)
		}
	}

	if !input.Force && len(eligible) > 0 {
		eligible, skipped = s.filterByGating(ctx, wctx, app.ID, submission.StepInterview, eligible, skipped)
	}

	result := TransitionResult{Skipped: skipped}
	if len(eligible) == 0 {
		return result, nil
	}

	ids := submissionIDs(eligible)
	if _, err := s.submissionRepo.SetStatus(ctx, ids, submission.StatusAccepted); err != nil {
		return TransitionResult{}, fmt.Errorf("set submission status: %w", err)
	}
	result.TransitionedIDs = ids

	s.notifyAll(ctx, wctx.WorkspaceID, app.ID, NotificationSubmissionAdmitted, eligible)
	return result, nil
}

func (s *WorkflowService) loadCandidates(ctx context.Context, applicationID string, submissionIDs []string) ([]submission.Submission, []SkippedSubmission, error) {
	if len(submissionIDs) == 0 {
		return nil, nil, fmt.Errorf("%w: submission ids are required", ErrInvalidInput)
	}

	var (
		candidates []submission.Submission
		skipped    []SkippedSubmission
		seen       = make(map[string]struct{}, len(submissionIDs))
	)
	for _, id := range submissionIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, nil, fmt.Errorf("%w: submission id must not be empty", ErrInvalidInput)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		sub, exists, err := s.submissionRepo.GetByID(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("get submission: %w", err)
		}
		if !exists || sub.ApplicationID != applicationID {
			skipped = append(skipped, SkippedSubmission{SubmissionID: id, Reason: SkipNotFound})
			continue
		}
		candidates = append(candidates, sub)
	}
	return candidates, skipped, nil
}

// filterByGating recomputes each candidate's gating verdict at stepNumber on
// a worker pool and drops those that did not pass.
func (s *WorkflowService) filterByGating(ctx context.Context, wctx workspace.Context, applicationID string, stepNumber int, candidates []submission.Submission, skipped []SkippedSubmission) ([]submission.Submission, []SkippedSubmission) {
	step, err := s.stepByNumber(ctx, applicationID, stepNumber)
	if err != nil {
		s.logger.WarnContext(ctx, "gating step lookup failed", "application_id", applicationID, "step", stepNumber, "error", err)
		for _, sub := range candidates {
			skipped = append(skipped, SkippedSubmission{SubmissionID: sub.ID, Reason: SkipGatingUnknown})
		}
		return nil, skipped
	}

	type verdict struct {
		sub     submission.Submission
		gating  evaluation.Gating
		lookErr error
	}

	verdicts := make([]verdict, len(candidates))

	workers := s.gatingWorkers
	if workers <= 0 {
		workers = defaultGatingWorkers
	}
	pool, poolErr := ants.NewPool(workers)
	if poolErr != nil {
		// Degraded but correct: check sequentially.
		for i, sub := range candidates {
			board, boardErr := s.scoringSvc.buildScoreboard(ctx, wctx, applicationID, step.ID, sub.ID)
			verdicts[i] = verdict{sub: sub, lookErr: boardErr}
			if boardErr == nil && len(board.Rows) == 1 {
				verdicts[i].gating = board.Rows[0].Gating
			}
		}
	} else {
		defer pool.Release()

		var wg sync.WaitGroup
		for i, sub := range candidates {
			i, sub := i, sub
			wg.Add(1)
			submitErr := pool.Submit(func() {
				defer wg.Done()
				board, boardErr := s.scoringSvc.buildScoreboard(ctx, wctx, applicationID, step.ID, sub.ID)
				verdicts[i] = verdict{sub: sub, lookErr: boardErr}
				if boardErr == nil && len(board.Rows) == 1 {
					verdicts[i].gating = board.Rows[0].Gating
				}
			})
			if submitErr != nil {
				wg.Done()
				verdicts[i] = verdict{sub: sub, lookErr: submitErr}
			}
		}
		wg.Wait()
	}

	var eligible []submission.Submission
	for _, v := range verdicts {
		switch {
		case v.lookErr != nil:
			s.logger.WarnContext(ctx, "gating check failed", "submission_id", v.sub.ID, "error", v.lookErr)
			skipped = append(skipped, SkippedSubmission{SubmissionID: v.sub.ID, Reason: SkipGatingUnknown})
		case !v.gating.Passed:
			skipped = append(skipped, SkippedSubmission{SubmissionID: v.sub.ID, Reason: SkipGatingFailed, GateStatus: v.gating.Status})
		default:
			eligible = append(eligible, v.sub)
		}
	}
	return eligible, skipped
}

func (s *WorkflowService) stepByNumber(ctx context.Context, applicationID string, number int) (evaluation.Step, error) {
	steps, err := s.evaluationRepo.ListStepsByApplication(ctx, applicationID)
	if err != nil {
		return evaluation.Step{}, fmt.Errorf("list steps: %w", err)
	}
	for _, step := range steps {
		if step.Number == number {
			return step, nil
		}
	}
	return evaluation.Step{}, fmt.Errorf("%w: step %d is not configured", ErrNotFound, number)
}

func (s *WorkflowService) notifyAll(ctx context.Context, workspaceID, applicationID string, kind NotificationKind, subs []submission.Submission) {
	for _, sub := range subs {
		err := s.notifier.Notify(ctx, Notification{
			Kind:          kind,
			WorkspaceID:   workspaceID,
			ApplicationID: applicationID,
			Submission:    sub,
		})
		if err != nil {
			s.logger.WarnContext(ctx, "workflow notification failed",
				"kind", string(kind), "submission_id", sub.ID, "error", err)
		}
	}
}

func submissionIDs(subs []submission.Submission) []string {
	ids := make([]string, len(subs))
	for i, sub := range subs {
		ids[i] = sub.ID
	}
	sort.Strings(ids)
	return ids
}
