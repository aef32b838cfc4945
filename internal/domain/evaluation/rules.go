package evaluation

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyScored    = errors.New("submission already scored by this judge at this step")
	ErrMissingScore     = errors.New("required criterion has no score")
	ErrUnknownCriterion = errors.New("criterion does not belong to step")
	ErrValueOutOfRange  = errors.New("score value out of configured range")
)

// Aggregate is the per-submission roll-up of one step's judge scores.
// AverageScore is nil when nobody has scored yet: an unscored submission has
// no average, it must not be treated as scoring zero.
type Aggregate struct {
	AverageScore        *float64
	EvaluatorCount      int
	TotalJudges         int
	EvaluatorPercentage float64
}

type GateStatus string

const (
	StatusUnconfigured         GateStatus = "unconfigured"
	StatusPending              GateStatus = "pending"
	StatusInsufficientCoverage GateStatus = "insufficient-coverage"
	StatusFailed               GateStatus = "failed"
	StatusPassed               GateStatus = "passed"
)

type Gating struct {
	MeetsCutoff               bool
	MeetsEvaluatorRequirement bool
	Passed                    bool
	Status                    GateStatus
}

// ScoreTotal combines one score's criterion values into a single number using
// the step's criterion weights. Criteria with non-positive weight count as
// weight 1 so a half-configured step still aggregates.
func ScoreTotal(score Score, criteria []Criterion) float64 {
	var weighted, totalWeight float64
	for _, criterion := range criteria {
		value, ok := score.Values[criterion.ID]
		if !ok {
			continue
		}
		weight := criterion.Weight
		if weight <= 0 {
			weight = 1
		}
		weighted += value * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0
	}
	return weighted / totalWeight
}

// AggregateScores computes the average of per-judge totals and the evaluator
// coverage against totalJudges. Duplicate judge rows collapse to the first
// occurrence; the store enforces uniqueness but aggregation stays defined
// either way.
func AggregateScores(scores []Score, criteria []Criterion, totalJudges int) Aggregate {
	seen := make(map[string]struct{}, len(scores))
	var sum float64
	count := 0
	for _, score := range scores {
		if _, dup := seen[score.JudgeID]; dup {
			continue
		}
		seen[score.JudgeID] = struct{}{}
		sum += ScoreTotal(score, criteria)
		count++
	}

	agg := Aggregate{
		EvaluatorCount: count,
		TotalJudges:    totalJudges,
	}
	if count > 0 {
		avg := sum / float64(count)
		agg.AverageScore = &avg
	}
	if totalJudges > 0 {
		pct := float64(count) / float64(totalJudges) * 100
		if pct > 100 {
			pct = 100
		}
		agg.EvaluatorPercentage = pct
	}
	return agg
}

// Gate applies the cutoff and coverage thresholds to an aggregate.
//
// Zero configured judges yields StatusUnconfigured instead of silently
// pretending a single judge exists: the caller must surface the
// misconfiguration, not gate on it.
func Gate(agg Aggregate, cutoff, requiredEvaluatorPercentage float64) Gating {
	if agg.TotalJudges <= 0 {
		return Gating{Status: StatusUnconfigured}
	}

	result := Gating{
		MeetsEvaluatorRequirement: agg.EvaluatorPercentage >= requiredEvaluatorPercentage,
	}
	if agg.AverageScore != nil {
		result.MeetsCutoff = *agg.AverageScore >= cutoff
	}
	result.Passed = result.MeetsCutoff && result.MeetsEvaluatorRequirement

	switch {
	case agg.EvaluatorCount == 0:
		result.Status = StatusPending
	case !result.MeetsEvaluatorRequirement:
		result.Status = StatusInsufficientCoverage
	case !result.MeetsCutoff:
		result.Status = StatusFailed
	default:
		result.Status = StatusPassed
	}
	return result
}

// ValidateScoreValues checks a submitted criterion->value map against the
// step's criteria and the configured scoring range. Every criterion of the
// step must be present, nothing outside the step may appear.
func ValidateScoreValues(values map[string]float64, criteria []Criterion, settings Settings) error {
	known := make(map[string]struct{}, len(criteria))
	for _, criterion := range criteria {
		known[criterion.ID] = struct{}{}
		value, ok := values[criterion.ID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingScore, criterion.Label)
		}
		if value < settings.ScoreMin || value > settings.ScoreMax {
			return fmt.Errorf("%w: %s=%g allowed [%g, %g]",
				ErrValueOutOfRange, criterion.Label, value, settings.ScoreMin, settings.ScoreMax)
		}
	}
	for id := range values {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownCriterion, id)
		}
	}
	return nil
}
