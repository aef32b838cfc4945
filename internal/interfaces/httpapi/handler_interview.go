package httpapi

import (
	"net/http"
	"time"

	"github.com/launchforge/accelerator-api/internal/domain/interview"
	"github.com/launchforge/accelerator-api/internal/usecase"
)

type createSlotsRequest struct {
	Slots []slotRequest `json:"slots" validate:"required,min=1,max=200,dive"`
}

type slotRequest struct {
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at" validate:"required"`
}

type slotDTO struct {
	ID       string     `json:"id"`
	StartsAt time.Time  `json:"starts_at"`
	EndsAt   time.Time  `json:"ends_at"`
	Booked   bool       `json:"booked"`
	BookedBy *string    `json:"booked_by,omitempty"`
	BookedAt *time.Time `json:"booked_at,omitempty"`
}

func (h *Handler) CreateInterviewSlots(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateInterviewSlots")
	defer span.End()

	wctx, err := h.workspaceContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createSlotsRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.CreateSlotsInput{
		ApplicationID: r.PathValue("applicationID"),
		StepID:        r.PathValue("stepID"),
	}
	for _, slot := range req.Slots {
		input.Slots = append(input.Slots, usecase.SlotInput{
			StartsAt: slot.StartsAt,
			EndsAt:   slot.EndsAt,
		})
	}

	slots, err := h.interviewService.CreateSlots(ctx, wctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "create interview slots failed", "step_id", input.StepID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, slotsToDTO(slots))
}

func (h *Handler) ListInterviewSlots(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListInterviewSlots")
	defer span.End()

	wctx, err := h.workspaceContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	applicationID := r.PathValue("applicationID")
	stepID := r.PathValue("stepID")
	slots, err := h.interviewService.ListSlots(ctx, wctx, applicationID, stepID)
	if err != nil {
		h.logger.WarnContext(ctx, "list interview slots failed", "step_id", stepID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, slotsToDTO(slots))
}

type bookSlotRequest struct {
	SubmissionID string `json:"submission_id" validate:"required"`
}

func (h *Handler) BookInterviewSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BookInterviewSlot")
	defer span.End()

	wctx, err := h.workspaceContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req bookSlotRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	slotID := r.PathValue("slotID")
	slot, err := h.interviewService.BookSlot(ctx, wctx, usecase.BookSlotInput{
		ApplicationID: r.PathValue("applicationID"),
		SlotID:        slotID,
		SubmissionID:  req.SubmissionID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "book interview slot failed",
			"slot_id", slotID, "submission_id", req.SubmissionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, slotToDTO(slot))
}

func slotsToDTO(slots []interview.Slot) []slotDTO {
	items := make([]slotDTO, 0, len(slots))
	for _, slot := range slots {
		items = append(items, slotToDTO(slot))
	}
	return items
}

func slotToDTO(slot interview.Slot) slotDTO {
	return slotDTO{
		ID:       slot.ID,
		StartsAt: slot.StartsAt,
		EndsAt:   slot.EndsAt,
		Booked:   slot.Booked(),
		BookedBy: slot.BookedBy,
		BookedAt: slot.BookedAt,
	}
}
