package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/launchforge/accelerator-api/internal/domain/evaluation"
	qb "github.com/launchforge/accelerator-api/internal/platform/querybuilder"
)

// scoreUniqueConstraint backs the one-score-per-judge rule; CreateScore maps
// its violation to evaluation.ErrAlreadyScored.
const scoreUniqueConstraint = "scores_submission_step_judge_key"

type EvaluationRepository struct {
	db *sqlx.DB
}

func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

type stepTableModel struct {
	ID            string `db:"public_id"`
	ApplicationID string `db:"application_public_id"`
	Number        int    `db:"step_number"`
	Name          string `db:"name"`
}

type criterionTableModel struct {
	ID       string  `db:"public_id"`
	StepID   string  `db:"step_public_id"`
	Label    string  `db:"label"`
	Weight   float64 `db:"weight"`
	Position int     `db:"position"`
}

type scoreTableModel struct {
	ID           string    `db:"public_id"`
	SubmissionID string    `db:"submission_public_id"`
	StepID       string    `db:"step_public_id"`
	JudgeID      string    `db:"judge_public_id"`
	Values       []byte    `db:"criterion_values"`
	Notes        string    `db:"notes"`
	CreatedAt    time.Time `db:"created_at"`
}

type settingsTableModel struct {
	ApplicationID               string  `db:"application_public_id"`
	ScoreMin                    float64 `db:"score_min"`
	ScoreMax                    float64 `db:"score_max"`
	RequiredEvaluatorPercentage float64 `db:"required_evaluator_percentage"`
}

type cutoffTableModel struct {
	ApplicationID string  `db:"application_public_id"`
	StepNumber    int     `db:"step_number"`
	MinAverage    float64 `db:"min_average"`
}

func (r *EvaluationRepository) CreateSteps(ctx context.Context, steps []evaluation.Step) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create steps tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, step := range steps {
		query, args, err := qb.InsertModel("evaluation_steps", stepTableModel{
			ID:            step.ID,
			ApplicationID: step.ApplicationID,
			Number:        step.Number,
			Name:          step.Name,
		}, "")
		if err != nil {
			return fmt.Errorf("build insert step query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert step: %w", err)
		}

		for _, criterion := range step.Criteria {
			query, args, err := qb.InsertModel("evaluation_criteria", criterionTableModel{
				ID:       criterion.ID,
				StepID:   criterion.StepID,
				Label:    criterion.Label,
				Weight:   criterion.Weight,
				Position: criterion.Position,
			}, "")
			if err != nil {
				return fmt.Errorf("build insert criterion query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert criterion: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create steps tx: %w", err)
	}
	return nil
}

func (r *EvaluationRepository) ListStepsByApplication(ctx context.Context, applicationID string) ([]evaluation.Step, error) {
	query, args, err := qb.Select("public_id", "application_public_id", "step_number", "name").
		From("evaluation_steps").
		Where(qb.Eq("application_public_id", applicationID)).
		OrderBy("step_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list steps query: %w", err)
	}

	var rows []stepTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}

	steps := make([]evaluation.Step, 0, len(rows))
	for _, row := range rows {
		step, err := r.hydrateStep(ctx, row)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func (r *EvaluationRepository) GetStepByID(ctx context.Context, stepID string) (evaluation.Step, bool, error) {
	query, args, err := qb.Select("public_id", "application_public_id", "step_number", "name").
		From("evaluation_steps").
		Where(qb.Eq("public_id", stepID)).
		ToSQL()
	if err != nil {
		return evaluation.Step{}, false, fmt.Errorf("build get step query: %w", err)
	}

	var row stepTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return evaluation.Step{}, false, nil
		}
		return evaluation.Step{}, false, fmt.Errorf("get step: %w", err)
	}

	step, err := r.hydrateStep(ctx, row)
	if err != nil {
		return evaluation.Step{}, false, err
	}
	return step, true, nil
}

func (r *EvaluationRepository) hydrateStep(ctx context.Context, row stepTableModel) (evaluation.Step, error) {
	query, args, err := qb.Select("public_id", "step_public_id", "label", "weight", "position").
		From("evaluation_criteria").
		Where(qb.Eq("step_public_id", row.ID)).
		OrderBy("position").
		ToSQL()
	if err != nil {
		return evaluation.Step{}, fmt.Errorf("build list criteria query: %w", err)
	}

	var criterionRows []criterionTableModel
	if err := r.db.SelectContext(ctx, &criterionRows, query, args...); err != nil {
		return evaluation.Step{}, fmt.Errorf("list criteria: %w", err)
	}

	step := evaluation.Step{
		ID:            row.ID,
		ApplicationID: row.ApplicationID,
		Number:        row.Number,
		Name:          row.Name,
	}
	for _, criterionRow := range criterionRows {
		step.Criteria = append(step.Criteria, evaluation.Criterion{
			ID:       criterionRow.ID,
			StepID:   criterionRow.StepID,
			Label:    criterionRow.Label,
			Weight:   criterionRow.Weight,
			Position: criterionRow.Position,
		})
	}
	return step, nil
}

func (r *EvaluationRepository) CreateScore(ctx context.Context, score evaluation.Score) error {
	values, err := sonic.Marshal(score.Values)
	if err != nil {
		return fmt.Errorf("marshal score values: %w", err)
	}

	query, args, err := qb.InsertModel("scores", scoreTableModel{
		ID:           score.ID,
		SubmissionID: score.SubmissionID,
		StepID:       score.StepID,
		JudgeID:      score.JudgeID,
		Values:       values,
		Notes:        score.Notes,
		CreatedAt:    score.CreatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert score query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, scoreUniqueConstraint) {
			return fmt.Errorf("%w: submission=%s step=%s", evaluation.ErrAlreadyScored, score.SubmissionID, score.StepID)
		}
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

func (r *EvaluationRepository) ListScoresByStep(ctx context.Context, stepID string) ([]evaluation.Score, error) {
	return r.listScores(ctx, qb.Eq("step_public_id", stepID))
}

func (r *EvaluationRepository) ListScoresBySubmissionAndStep(ctx context.Context, submissionID, stepID string) ([]evaluation.Score, error) {
	return r.listScores(ctx,
		qb.Eq("submission_public_id", submissionID),
		qb.Eq("step_public_id", stepID),
	)
}

func (r *EvaluationRepository) listScores(ctx context.Context, conditions ...qb.Condition) ([]evaluation.Score, error) {
	query, args, err := qb.Select("public_id", "submission_public_id", "step_public_id", "judge_public_id", "criterion_values", "notes", "created_at").
		From("scores").
		Where(conditions...).
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scores query: %w", err)
	}

	var rows []scoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}

	scores := make([]evaluation.Score, 0, len(rows))
	for _, row := range rows {
		var values map[string]float64
		if err := sonic.Unmarshal(row.Values, &values); err != nil {
			return nil, fmt.Errorf("unmarshal score %s values: %w", row.ID, err)
		}
		scores = append(scores, evaluation.Score{
			ID:           row.ID,
			SubmissionID: row.SubmissionID,
			StepID:       row.StepID,
			JudgeID:      row.JudgeID,
			Values:       values,
			Notes:        row.Notes,
			CreatedAt:    row.CreatedAt,
		})
	}
	return scores, nil
}

func (r *EvaluationRepository) GetSettings(ctx context.Context, applicationID string) (evaluation.Settings, bool, error) {
	query, args, err := qb.Select("application_public_id", "score_min", "score_max", "required_evaluator_percentage").
		From("evaluation_settings").
		Where(qb.Eq("application_public_id", applicationID)).
		ToSQL()
	if err != nil {
		return evaluation.Settings{}, false, fmt.Errorf("build get settings query: %w", err)
	}

	var row settingsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return evaluation.Settings{}, false, nil
		}
		return evaluation.Settings{}, false, fmt.Errorf("get settings: %w", err)
	}

	return evaluation.Settings{
		ApplicationID:               row.ApplicationID,
		ScoreMin:                    row.ScoreMin,
		ScoreMax:                    row.ScoreMax,
		RequiredEvaluatorPercentage: row.RequiredEvaluatorPercentage,
	}, true, nil
}

func (r *EvaluationRepository) UpsertSettings(ctx context.Context, settings evaluation.Settings) error {
	query, args, err := qb.InsertModel("evaluation_settings", settingsTableModel{
		ApplicationID:               settings.ApplicationID,
		ScoreMin:                    settings.ScoreMin,
		ScoreMax:                    settings.ScoreMax,
		RequiredEvaluatorPercentage: settings.RequiredEvaluatorPercentage,
	}, `ON CONFLICT (application_public_id)
DO UPDATE SET
    score_min = EXCLUDED.score_min,
    score_max = EXCLUDED.score_max,
    required_evaluator_percentage = EXCLUDED.required_evaluator_percentage`)
	if err != nil {
		return fmt.Errorf("build upsert settings query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

func (r *EvaluationRepository) ListCutoffs(ctx context.Context, applicationID string) ([]evaluation.Cutoff, error) {
	query, args, err := qb.Select("application_public_id", "step_number", "min_average").
		From("evaluation_cutoffs").
		Where(qb.Eq("application_public_id", applicationID)).
		OrderBy("step_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list cutoffs query: %w", err)
	}

	var rows []cutoffTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list cutoffs: %w", err)
	}

	cutoffs := make([]evaluation.Cutoff, 0, len(rows))
	for _, row := range rows {
		cutoffs = append(cutoffs, evaluation.Cutoff{
			ApplicationID: row.ApplicationID,
			StepNumber:    row.StepNumber,
			MinAverage:    row.MinAverage,
		})
	}
	return cutoffs, nil
}

func (r *EvaluationRepository) UpsertCutoff(ctx context.Context, cutoff evaluation.Cutoff) error {
	query, args, err := qb.InsertModel("evaluation_cutoffs", cutoffTableModel{
		ApplicationID: cutoff.ApplicationID,
		StepNumber:    cutoff.StepNumber,
		MinAverage:    cutoff.MinAverage,
	}, `ON CONFLICT (application_public_id, step_number)
DO UPDATE SET min_average = EXCLUDED.min_average`)
	if err != nil {
		return fmt.Errorf("build upsert cutoff query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert cutoff: %w", err)
	}
	return nil
}
