package submission

import "context"

type Repository interface {
	GetByID(ctx context.Context, submissionID string) (Submission, bool, error)
	ListByApplication(ctx context.Context, applicationID string) ([]Submission, error)

	// SetStep and SetStatus re-apply the same value without error, so bulk
	// workflow calls stay idempotent.
	SetStep(ctx context.Context, submissionIDs []string, step int) (int, error)
	SetStatus(ctx context.Context, submissionIDs []string, status Status) (int, error)
}
