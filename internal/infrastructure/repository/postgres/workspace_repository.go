package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/launchforge/accelerator-api/internal/domain/workspace"
	qb "github.com/launchforge/accelerator-api/internal/platform/querybuilder"
)

type WorkspaceRepository struct {
	db *sqlx.DB
}

func NewWorkspaceRepository(db *sqlx.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

type workspaceTableModel struct {
	ID        string    `db:"public_id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	CreatedAt time.Time `db:"created_at"`
}

type memberTableModel struct {
	WorkspaceID string         `db:"workspace_public_id"`
	UserID      string         `db:"user_public_id"`
	Email       string         `db:"email"`
	Role        string         `db:"role"`
	Permissions pq.StringArray `db:"permissions"`
	JoinedAt    time.Time      `db:"joined_at"`
}

func (r *WorkspaceRepository) GetByID(ctx context.Context, workspaceID string) (workspace.Workspace, bool, error) {
	query, args, err := qb.Select("public_id", "name", "slug", "created_at").
		From("workspaces").
		Where(qb.Eq("public_id", workspaceID)).
		ToSQL()
	if err != nil {
		return workspace.Workspace{}, false, fmt.Errorf("build get workspace query: %w", err)
	}

	var row workspaceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return workspace.Workspace{}, false, nil
		}
		return workspace.Workspace{}, false, fmt.Errorf("get workspace: %w", err)
	}

	return workspace.Workspace{
		ID:        row.ID,
		Name:      row.Name,
		Slug:      row.Slug,
		CreatedAt: row.CreatedAt,
	}, true, nil
}

func (r *WorkspaceRepository) GetMember(ctx context.Context, workspaceID, userID string) (workspace.Member, bool, error) {
	query, args, err := memberBaseSelectBuilder().
		Where(
			qb.Eq("workspace_public_id", workspaceID),
			qb.Eq("user_public_id", userID),
		).
		ToSQL()
	if err != nil {
		return workspace.Member{}, false, fmt.Errorf("build get member query: %w", err)
	}

	var row memberTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return workspace.Member{}, false, nil
		}
		return workspace.Member{}, false, fmt.Errorf("get member: %w", err)
	}

	member, err := memberFromRow(row)
	if err != nil {
		return workspace.Member{}, false, err
	}
	return member, true, nil
}

func (r *WorkspaceRepository) ListMembers(ctx context.Context, workspaceID string) ([]workspace.Member, error) {
	query, args, err := memberBaseSelectBuilder().
		Where(qb.Eq("workspace_public_id", workspaceID)).
		OrderBy("joined_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list members query: %w", err)
	}

	var rows []memberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	members := make([]workspace.Member, 0, len(rows))
	for _, row := range rows {
		member, err := memberFromRow(row)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}

func memberBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("workspace_public_id", "user_public_id", "email", "role", "permissions", "joined_at").
		From("workspace_members")
}

func memberFromRow(row memberTableModel) (workspace.Member, error) {
	permissions, err := workspace.ParsePermissionSet(row.Permissions)
	if err != nil {
		return workspace.Member{}, fmt.Errorf("member %s permissions: %w", row.UserID, err)
	}
	return workspace.Member{
		WorkspaceID: row.WorkspaceID,
		UserID:      row.UserID,
		Email:       row.Email,
		Role:        workspace.Role(row.Role),
		Permissions: permissions,
		JoinedAt:    row.JoinedAt,
	}, nil
}
