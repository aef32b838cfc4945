package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/launchforge/accelerator-api/internal/domain/interview"
)

type InterviewRepository struct {
	mu    sync.Mutex
	items map[string]interview.Slot
}

func NewInterviewRepository() *InterviewRepository {
	return &InterviewRepository{items: make(map[string]interview.Slot)}
}

func (r *InterviewRepository) CreateSlots(_ context.Context, slots []interview.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, slot := range slots {
		r.items[slot.ID] = cloneSlot(slot)
	}
	return nil
}

func (r *InterviewRepository) ListByStep(_ context.Context, stepID string) ([]interview.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var slots []interview.Slot
	for _, slot := range r.items {
		if slot.StepID == stepID {
			slots = append(slots, cloneSlot(slot))
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].StartsAt.Before(slots[j].StartsAt) })
	return slots, nil
}

func (r *InterviewRepository) GetByID(_ context.Context, slotID string) (interview.Slot, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.items[slotID]
	if !ok {
		return interview.Slot{}, false, nil
	}
	return cloneSlot(slot), true, nil
}

// Book performs the claim check and the write under one lock acquisition, so
// concurrent bookings of the same slot serialize to a single winner.
func (r *InterviewRepository) Book(_ context.Context, slotID, submissionID string, at time.Time) (interview.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.items[slotID]
	if !ok {
		return interview.Slot{}, fmt.Errorf("slot %s not found", slotID)
	}
	if slot.BookedBy != nil {
		return interview.Slot{}, fmt.Errorf("%w: slot=%s", interview.ErrAlreadyBooked, slotID)
	}

	slot.BookedBy = &submissionID
	slot.BookedAt = &at
	r.items[slotID] = slot
	return cloneSlot(slot), nil
}

func cloneSlot(slot interview.Slot) interview.Slot {
	copied := slot
	if slot.BookedBy != nil {
		bookedBy := *slot.BookedBy
		copied.BookedBy = &bookedBy
	}
	if slot.BookedAt != nil {
		bookedAt := *slot.BookedAt
		copied.BookedAt = &bookedAt
	}
	return copied
}
