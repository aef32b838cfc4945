package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/launchforge/accelerator-api/internal/domain/program"
	qb "github.com/launchforge/accelerator-api/internal/platform/querybuilder"
)

type ProgramRepository struct {
	db *sqlx.DB
}

func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

type applicationTableModel struct {
	ID          string    `db:"public_id"`
	WorkspaceID string    `db:"workspace_public_id"`
	Name        string    `db:"name"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r *ProgramRepository) GetByID(ctx context.Context, applicationID string) (program.Application, bool, error) {
	query, args, err := applicationBaseSelectBuilder().
		Where(qb.Eq("public_id", applicationID)).
		ToSQL()
	if err != nil {
		return program.Application{}, false, fmt.Errorf("build get application query: %w", err)
	}

	var row applicationTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return program.Application{}, false, nil
		}
		return program.Application{}, false, fmt.Errorf("get application: %w", err)
	}

	return applicationFromRow(row), true, nil
}

func (r *ProgramRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]program.Application, error) {
	query, args, err := applicationBaseSelectBuilder().
		Where(qb.Eq("workspace_public_id", workspaceID)).
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list applications query: %w", err)
	}

	var rows []applicationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	apps := make([]program.Application, 0, len(rows))
	for _, row := range rows {
		apps = append(apps, applicationFromRow(row))
	}
	return apps, nil
}

func applicationBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("public_id", "workspace_public_id", "name", "status", "created_at").
		From("applications")
}

func applicationFromRow(row applicationTableModel) program.Application {
	return program.Application{
		ID:          row.ID,
		WorkspaceID: row.WorkspaceID,
		Name:        row.Name,
		Status:      program.ApplicationStatus(row.Status),
		CreatedAt:   row.CreatedAt,
	}
}
