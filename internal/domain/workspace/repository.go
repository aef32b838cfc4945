package workspace

import "context"

type Repository interface {
	GetByID(ctx context.Context, workspaceID string) (Workspace, bool, error)
	GetMember(ctx context.Context, workspaceID, userID string) (Member, bool, error)
	ListMembers(ctx context.Context, workspaceID string) ([]Member, error)
}

// CountJudges returns how many members hold the scoring capability,
// resolved the same way request authorization resolves it (role defaults
// when no explicit set is stored). This is the totalJudges input to
// coverage gating; zero means misconfigured, not single-judge.
func CountJudges(members []Member) int {
	count := 0
	for _, m := range members {
		if m.EffectivePermissions().Has(PermissionScoreSubmissions) {
			count++
		}
	}
	return count
}
