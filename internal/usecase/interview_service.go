package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/launchforge/accelerator-api/internal/domain/evaluation"
	"github.com/launchforge/accelerator-api/internal/domain/interview"
	"github.com/launchforge/accelerator-api/internal/domain/submission"
	"github.com/launchforge/accelerator-api/internal/domain/workspace"
	idgen "github.com/launchforge/accelerator-api/internal/platform/id"
)

// InterviewService manages interview slots on the interview step and the
// first-come-first-served booking of those slots.
type InterviewService struct {
	workspaceSvc   *WorkspaceService
	evaluationRepo evaluation.Repository
	submissionRepo submission.Repository
	interviewRepo  interview.Repository
	ids            idgen.Generator
	now            func() time.Time
}

func NewInterviewService(
	workspaceSvc *WorkspaceService,
	evaluationRepo evaluation.Repository,
	submissionRepo submission.Repository,
	interviewRepo interview.Repository,
	ids idgen.Generator,
) *InterviewService {
	return &InterviewService{
		workspaceSvc:   workspaceSvc,
		evaluationRepo: evaluationRepo,
		submissionRepo: submissionRepo,
		interviewRepo:  interviewRepo,
		ids:            ids,
		now:            time.Now,
	}
}

type SlotInput struct {
	StartsAt time.Time
	EndsAt   time.Time
}

type CreateSlotsInput struct {
	ApplicationID string
	StepID        string
	Slots         []SlotInput
}

// CreateSlots publishes bookable interview slots on a step.
func (s *InterviewService) CreateSlots(ctx context.Context, wctx workspace.Context, input CreateSlotsInput) ([]interview.Slot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InterviewService.CreateSlots")
	defer span.End()

	if !wctx.Can(workspace.PermissionManageInterviews) {
		return nil, fmt.Errorf("%w: interviews.manage is required", ErrForbidden)
	}

	app, err := s.workspaceSvc.ApplicationInWorkspace(ctx, wctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}

	step, err := s.interviewStep(ctx, app.ID, input.StepID)
	if err != nil {
		return nil, err
	}

	if len(input.Slots) == 0 {
		return nil, fmt.Errorf("%w: at least one slot is required", ErrInvalidInput)
	}

	slots := make([]interview.Slot, 0, len(input.Slots))
	for i, in := range input.Slots {
		if in.StartsAt.IsZero() || in.EndsAt.IsZero() {
			return nil, fmt.Errorf("%w: slot %d needs both start and end times", ErrInvalidInput, i)
		}
		if !in.EndsAt.After(in.StartsAt) {
			return nil, fmt.Errorf("%w: slot %d must end after it starts", ErrInvalidInput, i)
		}

		slotID, idErr := s.ids.NewID("slot")
		if idErr != nil {
			return nil, fmt.Errorf("generate slot id: %w", idErr)
		}
		slots = append(slots, interview.Slot{
			ID:       slotID,
			StepID:   step.ID,
			StartsAt: in.StartsAt.UTC(),
			EndsAt:   in.EndsAt.UTC(),
		})
	}

	if err := s.interviewRepo.CreateSlots(ctx, slots); err != nil {
		return nil, fmt.Errorf("create slots: %w", err)
	}
	return slots, nil
}

// ListSlots returns a step's slots ordered by start time, booked or not.
func (s *InterviewService) ListSlots(ctx context.Context, wctx workspace.Context, applicationID, stepID string) ([]interview.Slot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InterviewService.ListSlots")
	defer span.End()

	app, err := s.workspaceSvc.ApplicationInWorkspace(ctx, wctx, applicationID)
	if err != nil {
		return nil, err
	}

	step, err := s.interviewStep(ctx, app.ID, stepID)
	if err != nil {
		return nil, err
	}

	slots, err := s.interviewRepo.ListByStep(ctx, step.ID)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].StartsAt.Before(slots[j].StartsAt) })
	return slots, nil
}

type BookSlotInput struct {
	ApplicationID string
	SlotID        string
	SubmissionID  string
}

// BookSlot claims a slot for a submission. The slot's own step reference
// resolves which step is being booked. The claim is a single atomic
// check-and-set at the repository, so under concurrent booking exactly one
// caller wins and the rest get interview.ErrAlreadyBooked.
func (s *InterviewService) BookSlot(ctx context.Context, wctx workspace.Context, input BookSlotInput) (interview.Slot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InterviewService.BookSlot")
	defer span.End()

	if !wctx.Can(workspace.PermissionBookInterviews) {
		return interview.Slot{}, fmt.Errorf("%w: interviews.book is required", ErrForbidden)
	}

	app, err := s.workspaceSvc.ApplicationInWorkspace(ctx, wctx, input.ApplicationID)
	if err != nil {
		return interview.Slot{}, err
	}

	slotID := strings.TrimSpace(input.SlotID)
	if slotID == "" {
		return interview.Slot{}, fmt.Errorf("%w: slot id is required", ErrInvalidInput)
	}
	slot, exists, err := s.interviewRepo.GetByID(ctx, slotID)
	if err != nil {
		return interview.Slot{}, fmt.Errorf("get slot: %w", err)
	}
	if !exists {
		return interview.Slot{}, fmt.Errorf("%w: slot=%s", ErrNotFound, slotID)
	}

	// A slot whose step belongs to another application reads as not found,
	// same as a foreign application id.
	if _, err := s.interviewStep(ctx, app.ID, slot.StepID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return interview.Slot{}, fmt.Errorf("%w: slot=%s", ErrNotFound, slotID)
		}
		return interview.Slot{}, err
	}

	sub, exists, err := s.submissionRepo.GetByID(ctx, strings.TrimSpace(input.SubmissionID))
	if err != nil {
		return interview.Slot{}, fmt.Errorf("get submission: %w", err)
	}
	if !exists || sub.ApplicationID != app.ID {
		return interview.Slot{}, fmt.Errorf("%w: submission=%s", ErrNotFound, input.SubmissionID)
	}
	if sub.CurrentStep < submission.StepInterview {
		return interview.Slot{}, fmt.Errorf("%w: submission has not reached the interview step", ErrInvalidInput)
	}

	booked, err := s.interviewRepo.Book(ctx, slotID, sub.ID, s.now().UTC())
	if err != nil {
		return interview.Slot{}, fmt.Errorf("book slot: %w", err)
	}
	return booked, nil
}

func (s *InterviewService) interviewStep(ctx context.Context, applicationID, stepID string) (evaluation.Step, error) {
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
	if step.Number != submission.StepInterview {
		return evaluation.Step{}, fmt.Errorf("%w: slots can only exist on the interview step", ErrInvalidInput)
	}
	return step, nil
}
