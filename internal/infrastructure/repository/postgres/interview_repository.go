package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/launchforge/accelerator-api/internal/domain/interview"
	qb "github.com/launchforge/accelerator-api/internal/platform/querybuilder"
)

type InterviewRepository struct {
	db *sqlx.DB
}

func NewInterviewRepository(db *sqlx.DB) *InterviewRepository {
	return &InterviewRepository{db: db}
}

type slotTableModel struct {
	ID       string     `db:"public_id"`
	StepID   string     `db:"step_public_id"`
	StartsAt time.Time  `db:"starts_at"`
	EndsAt   time.Time  `db:"ends_at"`
	BookedBy *string    `db:"booked_by_submission_id"`
	BookedAt *time.Time `db:"booked_at"`
}

type slotInsertModel struct {
	ID       string    `db:"public_id"`
	StepID   string    `db:"step_public_id"`
	StartsAt time.Time `db:"starts_at"`
	EndsAt   time.Time `db:"ends_at"`
}

func (r *InterviewRepository) CreateSlots(ctx context.Context, slots []interview.Slot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create slots tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, slot := range slots {
		query, args, err := qb.InsertModel("interview_slots", slotInsertModel{
			ID:       slot.ID,
			StepID:   slot.StepID,
			StartsAt: slot.StartsAt,
			EndsAt:   slot.EndsAt,
		}, "")
		if err != nil {
			return fmt.Errorf("build insert slot query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert slot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create slots tx: %w", err)
	}
	return nil
}

func (r *InterviewRepository) ListByStep(ctx context.Context, stepID string) ([]interview.Slot, error) {
	query, args, err := slotBaseSelectBuilder().
		Where(qb.Eq("step_public_id", stepID)).
		OrderBy("starts_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list slots query: %w", err)
	}

	var rows []slotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}

	slots := make([]interview.Slot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, slotFromRow(row))
	}
	return slots, nil
}

func (r *InterviewRepository) GetByID(ctx context.Context, slotID string) (interview.Slot, bool, error) {
	query, args, err := slotBaseSelectBuilder().
		Where(qb.Eq("public_id", slotID)).
		ToSQL()
	if err != nil {
		return interview.Slot{}, false, fmt.Errorf("build get slot query: %w", err)
	}

	var row slotTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return interview.Slot{}, false, nil
		}
		return interview.Slot{}, false, fmt.Errorf("get slot: %w", err)
	}

	return slotFromRow(row), true, nil
}

// Book claims the slot with a single conditional UPDATE. The WHERE clause
// only matches an unclaimed row, so concurrent bookings race on the row lock
// and everyone after the winner sees zero matched rows.
func (r *InterviewRepository) Book(ctx context.Context, slotID, submissionID string, at time.Time) (interview.Slot, error) {
	query, args, err := qb.Update("interview_slots").
		Set("booked_by_submission_id", submissionID).
		Set("booked_at", at).
		Where(
			qb.Eq("public_id", slotID),
			qb.IsNull("booked_by_submission_id"),
		).
		Suffix("RETURNING public_id, step_public_id, starts_at, ends_at, booked_by_submission_id, booked_at").
		ToSQL()
	if err != nil {
		return interview.Slot{}, fmt.Errorf("build book slot query: %w", err)
	}

	var row slotTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return interview.Slot{}, fmt.Errorf("%w: slot=%s", interview.ErrAlreadyBooked, slotID)
		}
		return interview.Slot{}, fmt.Errorf("book slot: %w", err)
	}

	return slotFromRow(row), nil
}

func slotBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("public_id", "step_public_id", "starts_at", "ends_at", "booked_by_submission_id", "booked_at").
		From("interview_slots")
}

func slotFromRow(row slotTableModel) interview.Slot {
	return interview.Slot{
		ID:       row.ID,
		StepID:   row.StepID,
		StartsAt: row.StartsAt,
		EndsAt:   row.EndsAt,
		BookedBy: row.BookedBy,
		BookedAt: row.BookedAt,
	}
}
