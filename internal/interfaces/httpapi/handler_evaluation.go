package httpapi

import (
	"context"
	"net/http"

	"github.com/launchforge/accelerator-api/internal/domain/evaluation"
	"github.com/launchforge/accelerator-api/internal/usecase"
)

type criterionDTO struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Weight   float64 `json:"weight"`
	Position int     `json:"position"`
}

type stepDTO struct {
	ID       string         `json:"id"`
	Number   int            `json:"number"`
	Name     string         `json:"name"`
	Criteria []criterionDTO `json:"criteria"`
}

type cutoffDTO struct {
	StepNumber int     `json:"step_number"`
	MinAverage float64 `json:"min_average"`
}

type settingsDTO struct {
	ScoreMin                    float64 `json:"score_min"`
	ScoreMax                    float64 `json:"score_max"`
	RequiredEvaluatorPercentage float64 `json:"required_evaluator_percentage"`
}

type setupStepsRequest struct {
	// A zero lower bound is a valid scale, so the bounds are validated
	// against each other rather than as required fields.
	ScoreMin                    float64            `json:"score_min" validate:"ltfield=ScoreMax"`
	ScoreMax                    float64            `json:"score_max" validate:"gtfield=ScoreMin"`
	RequiredEvaluatorPercentage float64            `json:"required_evaluator_percentage" validate:"required,gt=0,lte=100"`
	Steps                       []setupStepRequest `json:"steps" validate:"required,min=1,max=2,dive"`
}

type setupStepRequest struct {
	Number   int                     `json:"number" validate:"required,min=1,max=2"`
	Name     string                  `json:"name" validate:"required,max=120"`
	Criteria []setupCriterionRequest `json:"criteria" validate:"required,min=1,dive"`
}

type setupCriterionRequest struct {
	Label  string  `json:"label" validate:"required,max=120"`
	Weight float64 `json:"weight" validate:"gte=0"`
}

func (h *Handler) SetupEvaluationSteps(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetupEvaluationSteps")
	defer span.End()

	wctx, err := h.workspaceContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req setupStepsRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.SetupStepsInput{
		ApplicationID:               r.PathValue("applicationID"),
		ScoreMin:                    req.ScoreMin,
		ScoreMax:                    req.ScoreMax,
		RequiredEvaluatorPercentage: req.RequiredEvaluatorPercentage,
	}
	for _, step := range req.Steps {
		stepInput := usecase.StepInput{Number: step.Number, Name: step.Name}
		for _, criterion := range step.Criteria {
			stepInput.Criteria = append(stepInput.Criteria, usecase.CriterionInput{
				Label:  criterion.Label,
				Weight: criterion.Weight,
			})
		}
		input.Steps = append(input.Steps, stepInput)
	}

	steps, err := h.evaluationService.SetupSteps(ctx, wctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "setup evaluation steps failed", "application_id", input.ApplicationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, stepsToDTO(ctx, steps))
}

func (h *Handler) ListEvaluationSteps(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEvaluationSteps")
	defer span.End()

	wctx, err := h.workspaceContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	applicationID := r.PathValue("applicationID")
	steps, err := h.evaluationService.ListSteps(ctx, wctx, applicationID)
	if err != nil {
		h.logger.WarnContext(ctx, "list evaluation steps failed", "application_id", applicationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stepsToDTO(ctx, steps))
}

type cutoffConfigResponse struct {
	Settings settingsDTO `json:"settings"`
	Cutoffs  []cutoffDTO `json:"cutoffs"`
}

func (h *Handler) GetEvaluationCutoffs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEvaluationCutoffs")
	defer span.End()

	wctx, err := h.workspaceContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	applicationID := r.PathValue("applicationID")
	settings, err := h.evaluationService.GetSettings(ctx, wctx, applicationID)
	if err != nil {
		h.logger.WarnContext(ctx, "get evaluation settings failed", "application_id", applicationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	cutoffs, err := h.evaluationService.ListCutoffs(ctx, wctx, applicationID)
	if err != nil {
		h.logger.WarnContext(ctx, "list cutoffs failed", "application_id", applicationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, cutoffConfigResponse{
		Settings: settingsDTO{
			ScoreMin:                    settings.ScoreMin,
			ScoreMax:                    settings.ScoreMax,
			RequiredEvaluatorPercentage: settings.RequiredEvaluatorPercentage,
		},
		Cutoffs: cutoffsToDTO(cutoffs),
	})
}

type updateCutoffsRequest struct {
	Cutoffs []cutoffUpdateRequest `json:"cutoffs" validate:"required,min=1,max=2,dive"`
}

type cutoffUpdateRequest struct {
	StepNumber int     `json:"step_number" validate:"required,min=1,max=2"`
	MinAverage float64 `json:"min_average" validate:"required"`
}

func (h *Handler) UpdateEvaluationCutoffs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateEvaluationCutoffs")
	defer span.End()

	wctx, err := h.workspaceContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateCutoffsRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	inputs := make([]usecase.CutoffInput, 0, len(req.Cutoffs))
	for _, cutoff := range req.Cutoffs {
		inputs = append(inputs, usecase.CutoffInput{
			StepNumber: cutoff.StepNumber,
			MinAverage: cutoff.MinAverage,
		})
	}

	applicationID := r.PathValue("applicationID")
	cutoffs, err := h.evaluationService.UpdateCutoffs(ctx, wctx, applicationID, inputs)
	if err != nil {
		h.logger.WarnContext(ctx, "update cutoffs failed", "application_id", applicationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, cutoffsToDTO(cutoffs))
}

func stepsToDTO(ctx context.Context, steps []evaluation.Step) []stepDTO {
	_, span := startSpan(ctx, "httpapi.stepsToDTO")
	defer span.End()

	items := make([]stepDTO, 0, len(steps))
	for _, step := range steps {
		dto := stepDTO{
			ID:       step.ID,
			Number:   step.Number,
			Name:     step.Name,
			Criteria: make([]criterionDTO, 0, len(step.Criteria)),
		}
		for _, criterion := range step.Criteria {
			dto.Criteria = append(dto.Criteria, criterionDTO{
				ID:       criterion.ID,
				Label:    criterion.Label,
				Weight:   criterion.Weight,
				Position: criterion.Position,
			})
		}
		items = append(items, dto)
	}
	return items
}

func cutoffsToDTO(cutoffs []evaluation.Cutoff) []cutoffDTO {
	items := make([]cutoffDTO, 0, len(cutoffs))
	for _, cutoff := range cutoffs {
		items = append(items, cutoffDTO{
			StepNumber: cutoff.StepNumber,
			MinAverage: cutoff.MinAverage,
		})
	}
	return items
}
