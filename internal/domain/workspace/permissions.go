package workspace

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownPermission = errors.New("unknown permission")

type Permission string

const (
	PermissionManageEvaluation  Permission = "evaluation.manage"
	PermissionScoreSubmissions  Permission = "evaluation.score"
	PermissionViewScoreboard    Permission = "evaluation.scoreboard.view"
	PermissionManageSubmissions Permission = "submissions.manage"
	PermissionManageInterviews  Permission = "interviews.manage"
	PermissionBookInterviews    Permission = "interviews.book"
)

var allPermissions = map[Permission]struct{}{
	PermissionManageEvaluation:  {},
	PermissionScoreSubmissions:  {},
	PermissionViewScoreboard:    {},
	PermissionManageSubmissions: {},
	PermissionManageInterviews:  {},
	PermissionBookInterviews:    {},
}

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleJudge  Role = "judge"
	RoleViewer Role = "viewer"
)

// PermissionSet is a typed capability set. It replaces ad hoc string-array
// checks: membership rows parse into it exactly once.
type PermissionSet map[Permission]struct{}

func NewPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// ParsePermissionSet builds a set from stored permission strings, rejecting
// values outside the enumerated catalogue.
func ParsePermissionSet(raw []string) (PermissionSet, error) {
	set := make(PermissionSet, len(raw))
	for _, item := range raw {
		p := Permission(strings.TrimSpace(item))
		if p == "" {
			continue
		}
		if _, ok := allPermissions[p]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPermission, p)
		}
		set[p] = struct{}{}
	}
	return set, nil
}

func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

func (s PermissionSet) Strings() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, string(p))
	}
	sort.Strings(out)
	return out
}

// DefaultPermissions maps a role to its capability set. Unknown roles get
// nothing rather than an error: a stale role must not widen access.
func DefaultPermissions(role Role) PermissionSet {
	switch role {
	case RoleAdmin:
		return NewPermissionSet(
			PermissionManageEvaluation,
			PermissionViewScoreboard,
			PermissionManageSubmissions,
			PermissionManageInterviews,
			PermissionBookInterviews,
		)
	case RoleJudge:
		return NewPermissionSet(
			PermissionScoreSubmissions,
			PermissionViewScoreboard,
		)
	case RoleViewer:
		return NewPermissionSet(PermissionViewScoreboard)
	default:
		return NewPermissionSet()
	}
}
