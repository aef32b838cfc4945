package httpapi

import (
	"net/http"

	"github.com/launchforge/accelerator-api/internal/usecase"
)

type transitionRequest struct {
	SubmissionIDs []string `json:"submission_ids" validate:"required,min=1,dive,required"`
	Force         bool     `json:"force"`
}

type skippedSubmissionDTO struct {
	SubmissionID string `json:"submission_id"`
	Reason       string `json:"reason"`
	GateStatus   string `json:"gate_status,omitempty"`
}

type transitionResultDTO struct {
	TransitionedIDs []string               `json:"transitioned_ids"`
	Skipped         []skippedSubmissionDTO `json:"skipped"`
}

func (h *Handler) AdvanceSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdvanceSubmissions")
	defer span.End()

	wctx, err := h.workspaceContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req transitionRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	applicationID := r.PathValue("applicationID")
	result, err := h.workflowService.AdvanceToInterview(ctx, wctx, usecase.TransitionInput{
		ApplicationID: applicationID,
		StepID:        r.PathValue("stepID"),
		SubmissionIDs: req.SubmissionIDs,
		Force:         req.Force,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "advance submissions failed", "application_id", applicationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transitionResultToDTO(result))
}

func (h *Handler) AdmitSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdmitSubmissions")
	defer span.End()

	wctx, err := h.workspaceContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req transitionRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	applicationID := r.PathValue("applicationID")
	result, err := h.workflowService.Admit(ctx, wctx, usecase.TransitionInput{
		ApplicationID: applicationID,
		SubmissionIDs: req.SubmissionIDs,
		Force:         req.Force,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "admit submissions failed", "application_id", applicationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transitionResultToDTO(result))
}

func transitionResultToDTO(result usecase.TransitionResult) transitionResultDTO {
	dto := transitionResultDTO{
		TransitionedIDs: result.TransitionedIDs,
		Skipped:         make([]skippedSubmissionDTO, 0, len(result.Skipped)),
	}
	if dto.TransitionedIDs == nil {
		dto.TransitionedIDs = []string{}
	}
	for _, skipped := range result.Skipped {
		dto.Skipped = append(dto.Skipped, skippedSubmissionDTO{
			SubmissionID: skipped.SubmissionID,
			Reason:       string(skipped.Reason),
			GateStatus:   string(skipped.GateStatus),
		})
	}
	return dto
}
