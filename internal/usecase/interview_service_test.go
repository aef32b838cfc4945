package usecase

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/launchforge/accelerator-api/internal/domain/interview"
	"github.com/launchforge/accelerator-api/internal/infrastructure/repository/memory"
)

func TestInterviewService_CreateAndListSlots(t *testing.T) {
	f := newFixture(t)
	steps := f.setupDefaultSteps(t)
	interviewStep := steps[1]
	admin := f.adminContext(t)

	start := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)
	created, err := f.interviewSvc.CreateSlots(t.Context(), admin, CreateSlotsInput{
		ApplicationID: memory.ApplicationIDBatch12,
		StepID:        interviewStep.ID,
		Slots: []SlotInput{
			{StartsAt: start.Add(time.Hour), EndsAt: start.Add(90 * time.Minute)},
			{StartsAt: start, EndsAt: start.Add(30 * time.Minute)},
		},
	})
	if err != nil {
		t.Fatalf("create slots: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected two slots, got %d", len(created))
	}

	slots, err := f.interviewSvc.ListSlots(t.Context(), admin, memory.ApplicationIDBatch12, interviewStep.ID)
	if err != nil {
		t.Fatalf("list slots: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected two slots, got %d", len(slots))
	}
	if !slots[0].StartsAt.Before(slots[1].StartsAt) {
		t.Fatal("slots must be ordered by start time")
	}
}

func TestInterviewService_CreateSlots_RejectsReviewStep(t *testing.T) {
	f := newFixture(t)
	steps := f.setupDefaultSteps(t)
	review := steps[0]

	_, err := f.interviewSvc.CreateSlots(t.Context(), f.adminContext(t), CreateSlotsInput{
		ApplicationID: memory.ApplicationIDBatch12,
		StepID:        review.ID,
		Slots: []SlotInput{
			{StartsAt: time.Now(), EndsAt: time.Now().Add(30 * time.Minute)},
		},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestInterviewService_CreateSlots_RejectsInvertedTimes(t *testing.T) {
	f := newFixture(t)
	steps := f.setupDefaultSteps(t)
	interviewStep := steps[1]

	start := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)
	_, err := f.interviewSvc.CreateSlots(t.Context(), f.adminContext(t), CreateSlotsInput{
		ApplicationID: memory.ApplicationIDBatch12,
		StepID:        interviewStep.ID,
		Slots: []SlotInput{
			{StartsAt: start, EndsAt: start.Add(-time.Minute)},
		},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestInterviewService_BookSlot_SecondBookerRejected(t *testing.T) {
	f := newFixture(t)
	steps := f.setupDefaultSteps(t)
	interviewStep := steps[1]
	admin := f.adminContext(t)

	advanceSubmissions(t.Context(), t, f, admin, []string{"sub_heliotech", "sub_kiranafarm"}, true)

	start := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)
	created, err := f.interviewSvc.CreateSlots(t.Context(), admin, CreateSlotsInput{
		ApplicationID: memory.ApplicationIDBatch12,
		StepID:        interviewStep.ID,
		Slots:         []SlotInput{{StartsAt: start, EndsAt: start.Add(30 * time.Minute)}},
	})
	if err != nil {
		t.Fatalf("create slots: %v", err)
	}
	slotID := created[0].ID

	booked, err := f.interviewSvc.BookSlot(t.Context(), admin, BookSlotInput{
		ApplicationID: memory.ApplicationIDBatch12,
		SlotID:        slotID,
		SubmissionID:  "sub_heliotech",
	})
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if !booked.Booked() || *booked.BookedBy != "sub_heliotech" {
		t.Fatalf("unexpected booking state: %+v", booked)
	}

	_, err = f.interviewSvc.BookSlot(t.Context(), admin, BookSlotInput{
		ApplicationID: memory.ApplicationIDBatch12,
		SlotID:        slotID,
		SubmissionID:  "sub_kiranafarm",
	})
	if !errors.Is(err, interview.ErrAlreadyBooked) {
		t.Fatalf("expected ErrAlreadyBooked, got %v", err)
	}
}

func TestInterviewService_BookSlot_ConcurrentSingleWinner(t *testing.T) {
	f := newFixture(t)
	steps := f.setupDefaultSteps(t)
	interviewStep := steps[1]
	admin := f.adminContext(t)

	submissionIDs := []string{"sub_heliotech", "sub_kiranafarm", "sub_pasarlink"}
	advanceSubmissions(t.Context(), t, f, admin, submissionIDs, true)

	start := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)
	created, err := f.interviewSvc.CreateSlots(t.Context(), admin, CreateSlotsInput{
		ApplicationID: memory.ApplicationIDBatch12,
		StepID:        interviewStep.ID,
		Slots:         []SlotInput{{StartsAt: start, EndsAt: start.Add(30 * time.Minute)}},
	})
	if err != nil {
		t.Fatalf("create slots: %v", err)
	}
	slotID := created[0].ID

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		wins     int
		rejected int
	)
	for _, subID := range submissionIDs {
		subID := subID
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, bookErr := f.interviewSvc.BookSlot(t.Context(), admin, BookSlotInput{
				ApplicationID: memory.ApplicationIDBatch12,
				SlotID:        slotID,
				SubmissionID:  subID,
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case bookErr == nil:
				wins++
			case errors.Is(bookErr, interview.ErrAlreadyBooked):
				rejected++
			default:
				t.Errorf("unexpected booking error: %v", bookErr)
			}
		}()
	}
	wg.Wait()

	if wins != 1 || rejected != 2 {
		t.Fatalf("expected exactly one winner and two rejections, got wins=%d rejected=%d", wins, rejected)
	}
}

func TestInterviewService_BookSlot_UnknownSlot(t *testing.T) {
	f := newFixture(t)
	f.setupDefaultSteps(t)
	admin := f.adminContext(t)

	advanceSubmissions(t.Context(), t, f, admin, []string{"sub_heliotech"}, true)

	_, err := f.interviewSvc.BookSlot(t.Context(), admin, BookSlotInput{
		ApplicationID: memory.ApplicationIDBatch12,
		SlotID:        "slot_missing",
		SubmissionID:  "sub_heliotech",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInterviewService_BookSlot_SubmissionNotAtInterviewStep(t *testing.T) {
	f := newFixture(t)
	steps := f.setupDefaultSteps(t)
	interviewStep := steps[1]
	admin := f.adminContext(t)

	start := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)
	created, err := f.interviewSvc.CreateSlots(t.Context(), admin, CreateSlotsInput{
		ApplicationID: memory.ApplicationIDBatch12,
		StepID:        interviewStep.ID,
		Slots:         []SlotInput{{StartsAt: start, EndsAt: start.Add(30 * time.Minute)}},
	})
	if err != nil {
		t.Fatalf("create slots: %v", err)
	}

	_, err = f.interviewSvc.BookSlot(t.Context(), admin, BookSlotInput{
		ApplicationID: memory.ApplicationIDBatch12,
		SlotID:        created[0].ID,
		SubmissionID:  "sub_heliotech",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
