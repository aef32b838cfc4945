package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/launchforge/accelerator-api/internal/domain/evaluation"
	"github.com/launchforge/accelerator-api/internal/domain/workspace"
	idgen "github.com/launchforge/accelerator-api/internal/platform/id"
)

// EvaluationService owns step/criteria configuration and cutoff management.
type EvaluationService struct {
	workspaceSvc   *WorkspaceService
	evaluationRepo evaluation.Repository
	ids            idgen.Generator
}

func NewEvaluationService(
	workspaceSvc *WorkspaceService,
	evaluationRepo evaluation.Repository,
	ids idgen.Generator,
) *EvaluationService {
	return &EvaluationService{
		workspaceSvc:   workspaceSvc,
		evaluationRepo: evaluationRepo,
		ids:            ids,
	}
}

type CriterionInput struct {
	Label  string
	Weight float64
}

type StepInput struct {
	Number   int
	Name     string
	Criteria []CriterionInput
}

type SetupStepsInput struct {
	ApplicationID               string
	ScoreMin                    float64
	ScoreMax                    float64
	RequiredEvaluatorPercentage float64
	Steps                       []StepInput
}

// SetupSteps creates the application's step configuration (numbers 1 and 2)
// together with its scoring settings. Re-running setup for an application
// that already has steps is rejected: criteria are immutable once judges may
// have scored against them.
func (s *EvaluationService) SetupSteps(ctx context.Context, wctx workspace.Context, input SetupStepsInput) ([]evaluation.Step, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EvaluationService.SetupSteps")
	defer span.End()

	if !wctx.Can(workspace.PermissionManageEvaluation) {
		return nil, fmt.Errorf("%w: evaluation.manage is required", ErrForbidden)
	}

	app, err := s.workspaceSvc.ApplicationInWorkspace(ctx, wctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}

	if err := validateSetupInput(input); err != nil {
		return nil, err
	}

	existing, err := s.evaluationRepo.ListStepsByApplication(ctx, app.ID)
	if err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: evaluation steps already configured for application %s", ErrInvalidInput, app.ID)
	}

	steps := make([]evaluation.Step, 0, len(input.Steps))
	for _, stepInput := range input.Steps {
		stepID, idErr := s.ids.NewID("step")
		if idErr != nil {
			return nil, fmt.Errorf("generate step id: %w", idErr)
		}

		step := evaluation.Step{
			ID:            stepID,
			ApplicationID: app.ID,
			Number:        stepInput.Number,
			Name:          strings.TrimSpace(stepInput.Name),
		}
		for position, criterionInput := range stepInput.Criteria {
			criterionID, idErr := s.ids.NewID("crit")
			if idErr != nil {
				return nil, fmt.Errorf("generate criterion id: %w", idErr)
			}
			step.Criteria = append(step.Criteria, evaluation.Criterion{
				ID:       criterionID,
				StepID:   stepID,
				Label:    strings.TrimSpace(criterionInput.Label),
				Weight:   criterionInput.Weight,
				Position: position,
			})
		}
		steps = append(steps, step)
	}

	if err := s.evaluationRepo.UpsertSettings(ctx, evaluation.Settings{
		ApplicationID:               app.ID,
		ScoreMin:                    input.ScoreMin,
		ScoreMax:                    input.ScoreMax,
		RequiredEvaluatorPercentage: input.RequiredEvaluatorPercentage,
	}); err != nil {
		return nil, fmt.Errorf("save evaluation settings: %w", err)
	}

	if err := s.evaluationRepo.CreateSteps(ctx, steps); err != nil {
		return nil, fmt.Errorf("create steps: %w", err)
	}

	return steps, nil
}

func (s *EvaluationService) ListSteps(ctx context.Context, wctx workspace.Context, applicationID string) ([]evaluation.Step, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EvaluationService.ListSteps")
	defer span.End()

	app, err := s.workspaceSvc.ApplicationInWorkspace(ctx, wctx, applicationID)
	if err != nil {
		return nil, err
	}

	steps, err := s.evaluationRepo.ListStepsByApplication(ctx, app.ID)
	if err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}

	sort.Slice(steps, func(i, j int) bool { return steps[i].Number < steps[j].Number })
	return steps, nil
}

func (s *EvaluationService) GetSettings(ctx context.Context, wctx workspace.Context, applicationID string) (evaluation.Settings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EvaluationService.GetSettings")
	defer span.End()

	app, err := s.workspaceSvc.ApplicationInWorkspace(ctx, wctx, applicationID)
	if err != nil {
		return evaluation.Settings{}, err
	}

	settings, exists, err := s.evaluationRepo.GetSettings(ctx, app.ID)
	if err != nil {
		return evaluation.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	if !exists {
		return evaluation.DefaultSettings(app.ID), nil
	}
	return settings, nil
}

func (s *EvaluationService) ListCutoffs(ctx context.Context, wctx workspace.Context, applicationID string) ([]evaluation.Cutoff, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EvaluationService.ListCutoffs")
	defer span.End()

	app, err := s.workspaceSvc.ApplicationInWorkspace(ctx, wctx, applicationID)
	if err != nil {
		return nil, err
	}

	cutoffs, err := s.evaluationRepo.ListCutoffs(ctx, app.ID)
	if err != nil {
		return nil, fmt.Errorf("list cutoffs: %w", err)
	}

	sort.Slice(cutoffs, func(i, j int) bool { return cutoffs[i].StepNumber < cutoffs[j].StepNumber })
	return cutoffs, nil
}

type CutoffInput struct {
	StepNumber int
	MinAverage float64
}

func (s *EvaluationService) UpdateCutoffs(ctx context.Context, wctx workspace.Context, applicationID string, inputs []CutoffInput) ([]evaluation.Cutoff, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EvaluationService.UpdateCutoffs")
	defer span.End()

	if !wctx.Can(workspace.PermissionManageEvaluation) {
		return nil, fmt.Errorf("%w: evaluation.manage is required", ErrForbidden)
	}

	app, err := s.workspaceSvc.ApplicationInWorkspace(ctx, wctx, applicationID)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one cutoff is required", ErrInvalidInput)
	}

	settings, err := s.GetSettings(ctx, wctx, applicationID)
	if err != nil {
		return nil, err
	}

	for _, input := range inputs {
		if input.StepNumber < 1 || input.StepNumber > 2 {
			return nil, fmt.Errorf("%w: step number must be 1 or 2, got %d", ErrInvalidInput, input.StepNumber)
		}
		if input.MinAverage < settings.ScoreMin || input.MinAverage > settings.ScoreMax {
			return nil, fmt.Errorf("%w: cutoff %g outside scoring range [%g, %g]",
				ErrInvalidInput, input.MinAverage, settings.ScoreMin, settings.ScoreMax)
		}
		if err := s.evaluationRepo.UpsertCutoff(ctx, evaluation.Cutoff{
			ApplicationID: app.ID,
			StepNumber:    input.StepNumber,
			MinAverage:    input.MinAverage,
		}); err != nil {
			return nil, fmt.Errorf("upsert cutoff for step %d: %w", input.StepNumber, err)
		}
	}

	return s.ListCutoffs(ctx, wctx, applicationID)
}

func validateSetupInput(input SetupStepsInput) error {
	if input.ScoreMin >= input.ScoreMax {
		return fmt.Errorf("%w: score range min %g must be below max %g", ErrInvalidInput, input.ScoreMin, input.ScoreMax)
	}
	if input.RequiredEvaluatorPercentage < 0 || input.RequiredEvaluatorPercentage > 100 {
		return fmt.Errorf("%w: required evaluator percentage must be within [0, 100]", ErrInvalidInput)
	}
	if len(input.Steps) == 0 {
		return fmt.Errorf("%w: at least one step is required", ErrInvalidInput)
	}

	seenNumbers := make(map[int]struct{}, len(input.Steps))
	for _, step := range input.Steps {
		if step.Number < 1 || step.Number > 2 {
			return fmt.Errorf("%w: step number must be 1 or 2, got %d", ErrInvalidInput, step.Number)
		}
		if _, dup := seenNumbers[step.Number]; dup {
			return fmt.Errorf("%w: duplicate step number %d", ErrInvalidInput, step.Number)
		}
		seenNumbers[step.Number] = struct{}{}

		if strings.TrimSpace(step.Name) == "" {
			return fmt.Errorf("%w: step %d name is required", ErrInvalidInput, step.Number)
		}
		if len(step.Criteria) == 0 {
			return fmt.Errorf("%w: step %d needs at least one criterion", ErrInvalidInput, step.Number)
		}
		for _, criterion := range step.Criteria {
			if strings.TrimSpace(criterion.Label) == "" {
				return fmt.Errorf("%w: criterion label is required on step %d", ErrInvalidInput, step.Number)
			}
			if criterion.Weight < 0 {
				return fmt.Errorf("%w: criterion weight cannot be negative", ErrInvalidInput)
			}
		}
	}
	return nil
}
