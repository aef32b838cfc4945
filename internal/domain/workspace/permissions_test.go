package workspace

import (
	"errors"
	"testing"
)

func TestParsePermissionSet_RejectsUnknown(t *testing.T) {
	_, err := ParsePermissionSet([]string{"evaluation.score", "not-a-permission"})
	if !errors.Is(err, ErrUnknownPermission) {
		t.Fatalf("expected ErrUnknownPermission, got %v", err)
	}
}

func TestParsePermissionSet_SkipsBlanks(t *testing.T) {
	set, err := ParsePermissionSet([]string{" evaluation.score ", "", "interviews.book"})
	if err != nil {
		t.Fatalf("parse permission set: %v", err)
	}
	if !set.Has(PermissionScoreSubmissions) || !set.Has(PermissionBookInterviews) {
		t.Fatalf("expected parsed permissions, got %v", set.Strings())
	}
	if len(set) != 2 {
		t.Fatalf("expected 2 permissions, got %d", len(set))
	}
}

func TestDefaultPermissions_UnknownRoleHasNothing(t *testing.T) {
	set := DefaultPermissions(Role("legacy-role"))
	if len(set) != 0 {
		t.Fatalf("unknown role should have no permissions, got %v", set.Strings())
	}
}

func TestCountJudges(t *testing.T) {
	members := []Member{
		{UserID: "u1", Permissions: DefaultPermissions(RoleAdmin)},
		{UserID: "u2", Permissions: DefaultPermissions(RoleJudge)},
		{UserID: "u3", Permissions: DefaultPermissions(RoleJudge)},
		{UserID: "u4", Permissions: DefaultPermissions(RoleViewer)},
	}
	if got := CountJudges(members); got != 2 {
		t.Fatalf("expected 2 judges, got %d", got)
	}
}

func TestCountJudges_RoleDefaultsCountWhenNoExplicitGrant(t *testing.T) {
	// Membership rows start with an empty permission set; the judge must
	// still appear in the coverage denominator.
	members := []Member{
		{UserID: "u1", Role: RoleJudge},
		{UserID: "u2", Role: RoleJudge},
		{UserID: "u3", Role: RoleViewer},
	}
	if got := CountJudges(members); got != 2 {
		t.Fatalf("expected 2 judges from role defaults, got %d", got)
	}
}

func TestCountJudges_ExplicitGrantOverridesRole(t *testing.T) {
	members := []Member{
		{UserID: "u1", Role: RoleJudge, Permissions: NewPermissionSet(PermissionViewScoreboard)},
	}
	if got := CountJudges(members); got != 0 {
		t.Fatalf("explicit non-scoring grant should not count as judge, got %d", got)
	}
}

func TestMemberEffectivePermissions(t *testing.T) {
	stored := Member{Role: RoleViewer, Permissions: NewPermissionSet(PermissionScoreSubmissions)}
	if !stored.EffectivePermissions().Has(PermissionScoreSubmissions) {
		t.Fatal("stored set should win over role defaults")
	}
	fallback := Member{Role: RoleJudge}
	if !fallback.EffectivePermissions().Has(PermissionScoreSubmissions) {
		t.Fatal("empty stored set should fall back to role defaults")
	}
}
