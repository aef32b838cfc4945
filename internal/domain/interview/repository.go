package interview

import (
	"context"
	"time"
)

type Repository interface {
	CreateSlots(ctx context.Context, slots []Slot) error
	ListByStep(ctx context.Context, stepID string) ([]Slot, error)
	GetByID(ctx context.Context, slotID string) (Slot, bool, error)

	// Book claims the slot for a submission with a single atomic
	// claim-if-unclaimed write. Two concurrent callers for the same slot
	// must resolve to exactly one winner; the loser gets ErrAlreadyBooked.
	Book(ctx context.Context, slotID, submissionID string, at time.Time) (Slot, error)
}
