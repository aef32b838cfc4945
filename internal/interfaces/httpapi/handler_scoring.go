package httpapi

import (
	"net/http"
	"time"

	"github.com/launchforge/accelerator-api/internal/usecase"
)

type submitScoreRequest struct {
	SubmissionID string             `json:"submission_id" validate:"required"`
	Values       map[string]float64 `json:"values" validate:"required,min=1"`
	Notes        string             `json:"notes" validate:"omitempty,max=2000"`
}

type scoreDTO struct {
	ID           string             `json:"id"`
	SubmissionID string             `json:"submission_id"`
	StepID       string             `json:"step_id"`
	Values       map[string]float64 `json:"values"`
	Notes        string             `json:"notes,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

func (h *Handler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitScore")
	defer span.End()

	wctx, err := h.workspaceContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req submitScoreRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	score, err := h.scoringService.SubmitScore(ctx, wctx, usecase.SubmitScoreInput{
		ApplicationID: r.PathValue("applicationID"),
		StepID:        r.PathValue("stepID"),
		SubmissionID:  req.SubmissionID,
		Values:        req.Values,
		Notes:         req.Notes,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit score failed",
			"step_id", r.PathValue("stepID"), "submission_id", req.SubmissionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, scoreDTO{
		ID:           score.ID,
		SubmissionID: score.SubmissionID,
		StepID:       score.StepID,
		Values:       score.Values,
		Notes:        score.Notes,
		CreatedAt:    score.CreatedAt,
	})
}

type scoreboardRowDTO struct {
	SubmissionID        string   `json:"submission_id"`
	TeamName            string   `json:"team_name"`
	CurrentStep         int      `json:"current_step"`
	Status              string   `json:"status"`
	AverageScore        *float64 `json:"average_score"`
	EvaluatorCount      int      `json:"evaluator_count"`
	EvaluatorPercentage float64  `json:"evaluator_percentage"`
	MeetsCutoff         bool     `json:"meets_cutoff"`
	MeetsCoverage       bool     `json:"meets_coverage"`
	Passed              bool     `json:"passed"`
	GateStatus          string   `json:"gate_status"`
}

type scoreboardDTO struct {
	StepID                      string             `json:"step_id"`
	StepNumber                  int                `json:"step_number"`
	Cutoff                      *float64           `json:"cutoff"`
	RequiredEvaluatorPercentage float64            `json:"required_evaluator_percentage"`
	TotalJudges                 int                `json:"total_judges"`
	Rows                        []scoreboardRowDTO `json:"rows"`
}

func (h *Handler) GetScoreboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScoreboard")
	defer span.End()

	wctx, err := h.workspaceContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	applicationID := r.PathValue("applicationID")
	stepID := r.PathValue("stepID")
	submissionID := r.URL.Query().Get("submission_id")

	board, err := h.scoringService.GetScoreboard(ctx, wctx, applicationID, stepID, submissionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get scoreboard failed",
			"application_id", applicationID, "step_id", stepID, "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := scoreboardDTO{
		StepID:                      board.StepID,
		StepNumber:                  board.StepNumber,
		Cutoff:                      board.Cutoff,
		RequiredEvaluatorPercentage: board.RequiredEvaluatorPercentage,
		TotalJudges:                 board.TotalJudges,
		Rows:                        make([]scoreboardRowDTO, 0, len(board.Rows)),
	}
	for _, row := range board.Rows {
		dto.Rows = append(dto.Rows, scoreboardRowDTO{
			SubmissionID:        row.Submission.ID,
			TeamName:            row.Submission.TeamName,
			CurrentStep:         row.Submission.CurrentStep,
			Status:              string(row.Submission.Status),
			AverageScore:        row.Aggregate.AverageScore,
			EvaluatorCount:      row.Aggregate.EvaluatorCount,
			EvaluatorPercentage: row.Aggregate.EvaluatorPercentage,
			MeetsCutoff:         row.Gating.MeetsCutoff,
			MeetsCoverage:       row.Gating.MeetsEvaluatorRequirement,
			Passed:              row.Gating.Passed,
			GateStatus:          string(row.Gating.Status),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}
