package interview

import (
	"errors"
	"time"
)

var ErrAlreadyBooked = errors.New("interview slot is already booked")

// Slot is one bookable interview unit for an evaluation step. First booker
// wins; there is no waitlist and no rebooking.
type Slot struct {
	ID       string
	StepID   string
	StartsAt time.Time
	EndsAt   time.Time
	BookedBy *string
	BookedAt *time.Time
}

func (s Slot) Booked() bool {
	return s.BookedBy != nil
}
