package evaluation

import "time"

type Criterion struct {
	ID       string
	StepID   string
	Label    string
	Weight   float64
	Position int
}

type Step struct {
	ID            string
	ApplicationID string
	Number        int
	Name          string
	Criteria      []Criterion
}

// Settings is per-application scoring configuration: the numeric range every
// criterion is scored on and the judge coverage required before a gating
// verdict is considered final.
type Settings struct {
	ApplicationID               string
	ScoreMin                    float64
	ScoreMax                    float64
	RequiredEvaluatorPercentage float64
}

func DefaultSettings(applicationID string) Settings {
	return Settings{
		ApplicationID:               applicationID,
		ScoreMin:                    1,
		ScoreMax:                    10,
		RequiredEvaluatorPercentage: 75,
	}
}

// Cutoff is the minimum passing average for one step of an application.
type Cutoff struct {
	ApplicationID string
	StepNumber    int
	MinAverage    float64
}

// Score is one judge's verdict for one (submission, step) pair. Scores are
// immutable once created; a second attempt for the same triple is rejected.
type Score struct {
	ID           string
	SubmissionID string
	StepID       string
	JudgeID      string
	Values       map[string]float64
	Notes        string
	CreatedAt    time.Time
}
