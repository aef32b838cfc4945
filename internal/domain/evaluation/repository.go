package evaluation

import "context"

type Repository interface {
	CreateSteps(ctx context.Context, steps []Step) error
	ListStepsByApplication(ctx context.Context, applicationID string) ([]Step, error)
	GetStepByID(ctx context.Context, stepID string) (Step, bool, error)

	// CreateScore fails with ErrAlreadyScored when a score for the same
	// (submission, step, judge) triple already exists. The check rides on a
	// uniqueness constraint at write time, not a prior read.
	CreateScore(ctx context.Context, score Score) error
	ListScoresByStep(ctx context.Context, stepID string) ([]Score, error)
	ListScoresBySubmissionAndStep(ctx context.Context, submissionID, stepID string) ([]Score, error)

	GetSettings(ctx context.Context, applicationID string) (Settings, bool, error)
	UpsertSettings(ctx context.Context, settings Settings) error

	ListCutoffs(ctx context.Context, applicationID string) ([]Cutoff, error)
	UpsertCutoff(ctx context.Context, cutoff Cutoff) error
}

// CutoffFor picks the configured minimum average for a step number, with an
// explicit found flag: a missing cutoff is "no gate configured", never zero.
func CutoffFor(cutoffs []Cutoff, stepNumber int) (float64, bool) {
	for _, c := range cutoffs {
		if c.StepNumber == stepNumber {
			return c.MinAverage, true
		}
	}
	return 0, false
}
