package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/launchforge/accelerator-api/internal/domain/submission"
	qb "github.com/launchforge/accelerator-api/internal/platform/querybuilder"
)

type SubmissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

type submissionTableModel struct {
	ID            string    `db:"public_id"`
	ApplicationID string    `db:"application_public_id"`
	TeamName      string    `db:"team_name"`
	FounderEmail  string    `db:"founder_email"`
	CurrentStep   int       `db:"current_step"`
	Status        string    `db:"status"`
	SubmittedAt   time.Time `db:"submitted_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r *SubmissionRepository) GetByID(ctx context.Context, submissionID string) (submission.Submission, bool, error) {
	query, args, err := submissionBaseSelectBuilder().
		Where(qb.Eq("public_id", submissionID)).
		ToSQL()
	if err != nil {
		return submission.Submission{}, false, fmt.Errorf("build get submission query: %w", err)
	}

	var row submissionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return submission.Submission{}, false, nil
		}
		return submission.Submission{}, false, fmt.Errorf("get submission: %w", err)
	}

	return submissionFromRow(row), true, nil
}

func (r *SubmissionRepository) ListByApplication(ctx context.Context, applicationID string) ([]submission.Submission, error) {
	query, args, err := submissionBaseSelectBuilder().
		Where(qb.Eq("application_public_id", applicationID)).
		OrderBy("submitted_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list submissions query: %w", err)
	}

	var rows []submissionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	subs := make([]submission.Submission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, submissionFromRow(row))
	}
	return subs, nil
}

func (r *SubmissionRepository) SetStep(ctx context.Context, submissionIDs []string, step int) (int, error) {
	query, args, err := qb.Update("submissions").
		Set("current_step", step).
		Set("updated_at", time.Now().UTC()).
		Where(
			qb.In("public_id", toAnySlice(submissionIDs)),
			qb.Expr("current_step <> ?", step),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build set step query: %w", err)
	}

	return r.execCount(ctx, query, args, "set submission step")
}

func (r *SubmissionRepository) SetStatus(ctx context.Context, submissionIDs []string, status submission.Status) (int, error) {
	query, args, err := qb.Update("submissions").
		Set("status", string(status)).
		Set("updated_at", time.Now().UTC()).
		Where(
			qb.In("public_id", toAnySlice(submissionIDs)),
			qb.Expr("status <> ?", string(status)),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build set status query: %w", err)
	}

	return r.execCount(ctx, query, args, "set submission status")
}

func (r *SubmissionRepository) execCount(ctx context.Context, query string, args []any, op string) (int, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s rows affected: %w", op, err)
	}
	return int(affected), nil
}

func submissionBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("public_id", "application_public_id", "team_name", "founder_email", "current_step", "status", "submitted_at", "updated_at").
		From("submissions")
}

func submissionFromRow(row submissionTableModel) submission.Submission {
	return submission.Submission{
		ID:            row.ID,
		ApplicationID: row.ApplicationID,
		TeamName:      row.TeamName,
		FounderEmail:  row.FounderEmail,
		CurrentStep:   row.CurrentStep,
		Status:        submission.Status(row.Status),
		SubmittedAt:   row.SubmittedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
