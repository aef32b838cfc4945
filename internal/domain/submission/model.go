package submission

import "time"

type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
)

const (
	StepReview    = 1
	StepInterview = 2
)

type Submission struct {
	ID            string
	ApplicationID string
	TeamName      string
	FounderEmail  string
	CurrentStep   int
	Status        Status
	SubmittedAt   time.Time
	UpdatedAt     time.Time
}
