package workspace

import "time"

type Workspace struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
}

type Member struct {
	WorkspaceID string
	UserID      string
	Email       string
	Role        Role
	Permissions PermissionSet
	JoinedAt    time.Time
}

// EffectivePermissions resolves what a member may actually do: the stored
// set when one was granted, otherwise the role defaults. Membership rows
// are created with an empty set, so the fallback is the common case.
func (m Member) EffectivePermissions() PermissionSet {
	if len(m.Permissions) > 0 {
		return m.Permissions
	}
	return DefaultPermissions(m.Role)
}

// Context carries the caller's resolved tenant scope through call chains.
// Handlers resolve it once per request; services never re-derive it.
type Context struct {
	WorkspaceID string
	UserID      string
	Role        Role
	Permissions PermissionSet
}

func (c Context) Can(p Permission) bool {
	return c.Permissions.Has(p)
}
