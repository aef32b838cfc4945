package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/launchforge/accelerator-api/internal/domain/evaluation"
)

type EvaluationRepository struct {
	mu       sync.RWMutex
	steps    map[string]evaluation.Step
	scores   map[string]evaluation.Score
	settings map[string]evaluation.Settings
	cutoffs  map[string]evaluation.Cutoff
	// scoreKeys enforces (submission, step, judge) uniqueness the way the
	// postgres schema does with a unique index.
	scoreKeys map[string]struct{}
}

func NewEvaluationRepository() *EvaluationRepository {
	return &EvaluationRepository{
		steps:     make(map[string]evaluation.Step),
		scores:    make(map[string]evaluation.Score),
		settings:  make(map[string]evaluation.Settings),
		cutoffs:   make(map[string]evaluation.Cutoff),
		scoreKeys: make(map[string]struct{}),
	}
}

func (r *EvaluationRepository) CreateSteps(_ context.Context, steps []evaluation.Step) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, step := range steps {
		r.steps[step.ID] = cloneStep(step)
	}
	return nil
}

func (r *EvaluationRepository) ListStepsByApplication(_ context.Context, applicationID string) ([]evaluation.Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var steps []evaluation.Step
	for _, step := range r.steps {
		if step.ApplicationID == applicationID {
			steps = append(steps, cloneStep(step))
		}
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].Number < steps[j].Number })
	return steps, nil
}

func (r *EvaluationRepository) GetStepByID(_ context.Context, stepID string) (evaluation.Step, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	step, ok := r.steps[stepID]
	if !ok {
		return evaluation.Step{}, false, nil
	}
	return cloneStep(step), true, nil
}

func (r *EvaluationRepository) CreateScore(_ context.Context, score evaluation.Score) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := scoreKey(score.SubmissionID, score.StepID, score.JudgeID)
	if _, exists := r.scoreKeys[key]; exists {
		return fmt.Errorf("%w: submission=%s step=%s", evaluation.ErrAlreadyScored, score.SubmissionID, score.StepID)
	}
	r.scoreKeys[key] = struct{}{}
	r.scores[score.ID] = cloneScore(score)
	return nil
}

func (r *EvaluationRepository) ListScoresByStep(_ context.Context, stepID string) ([]evaluation.Score, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var scores []evaluation.Score
	for _, score := range r.scores {
		if score.StepID == stepID {
			scores = append(scores, cloneScore(score))
		}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].CreatedAt.Before(scores[j].CreatedAt) })
	return scores, nil
}

func (r *EvaluationRepository) ListScoresBySubmissionAndStep(_ context.Context, submissionID, stepID string) ([]evaluation.Score, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var scores []evaluation.Score
	for _, score := range r.scores {
		if score.SubmissionID == submissionID && score.StepID == stepID {
			scores = append(scores, cloneScore(score))
		}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].CreatedAt.Before(scores[j].CreatedAt) })
	return scores, nil
}

func (r *EvaluationRepository) GetSettings(_ context.Context, applicationID string) (evaluation.Settings, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	settings, ok := r.settings[applicationID]
	if !ok {
		return evaluation.Settings{}, false, nil
	}
	return settings, true, nil
}

func (r *EvaluationRepository) UpsertSettings(_ context.Context, settings evaluation.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings[settings.ApplicationID] = settings
	return nil
}

func (r *EvaluationRepository) ListCutoffs(_ context.Context, applicationID string) ([]evaluation.Cutoff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var cutoffs []evaluation.Cutoff
	for _, cutoff := range r.cutoffs {
		if cutoff.ApplicationID == applicationID {
			cutoffs = append(cutoffs, cutoff)
		}
	}
	sort.Slice(cutoffs, func(i, j int) bool { return cutoffs[i].StepNumber < cutoffs[j].StepNumber })
	return cutoffs, nil
}

func (r *EvaluationRepository) UpsertCutoff(_ context.Context, cutoff evaluation.Cutoff) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cutoffs[cutoffKey(cutoff.ApplicationID, cutoff.StepNumber)] = cutoff
	return nil
}

func scoreKey(submissionID, stepID, judgeID string) string {
	return submissionID + "::" + stepID + "::" + judgeID
}

func cutoffKey(applicationID string, stepNumber int) string {
	return fmt.Sprintf("%s::%d", applicationID, stepNumber)
}

func cloneStep(step evaluation.Step) evaluation.Step {
	copied := step
	copied.Criteria = append([]evaluation.Criterion(nil), step.Criteria...)
	return copied
}

func cloneScore(score evaluation.Score) evaluation.Score {
	copied := score
	copied.Values = make(map[string]float64, len(score.Values))
	for k, v := range score.Values {
		copied.Values[k] = v
	}
	return copied
}
