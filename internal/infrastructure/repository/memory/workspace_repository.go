package memory

import (
	"context"
	"sync"

	"github.com/launchforge/accelerator-api/internal/domain/workspace"
)

type WorkspaceRepository struct {
	mu      sync.RWMutex
	items   map[string]workspace.Workspace
	members map[string][]workspace.Member
}

func NewWorkspaceRepository(workspaces []workspace.Workspace, members []workspace.Member) *WorkspaceRepository {
	r := &WorkspaceRepository{
		items:   make(map[string]workspace.Workspace, len(workspaces)),
		members: make(map[string][]workspace.Member),
	}
	for _, item := range workspaces {
		r.items[item.ID] = item
	}
	for _, member := range members {
		r.members[member.WorkspaceID] = append(r.members[member.WorkspaceID], cloneMember(member))
	}
	return r
}

func (r *WorkspaceRepository) GetByID(_ context.Context, workspaceID string) (workspace.Workspace, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[workspaceID]
	if !ok {
		return workspace.Workspace{}, false, nil
	}
	return item, true, nil
}

func (r *WorkspaceRepository) GetMember(_ context.Context, workspaceID, userID string) (workspace.Member, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, member := range r.members[workspaceID] {
		if member.UserID == userID {
			return cloneMember(member), true, nil
		}
	}
	return workspace.Member{}, false, nil
}

func (r *WorkspaceRepository) ListMembers(_ context.Context, workspaceID string) ([]workspace.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]workspace.Member, 0, len(r.members[workspaceID]))
	for _, member := range r.members[workspaceID] {
		members = append(members, cloneMember(member))
	}
	return members, nil
}

func (r *WorkspaceRepository) UpsertWorkspace(_ context.Context, item workspace.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	return nil
}

func (r *WorkspaceRepository) UpsertMember(_ context.Context, member workspace.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.members[member.WorkspaceID]
	for i := range members {
		if members[i].UserID == member.UserID {
			members[i] = cloneMember(member)
			return nil
		}
	}
	r.members[member.WorkspaceID] = append(members, cloneMember(member))
	return nil
}

func cloneMember(member workspace.Member) workspace.Member {
	copied := member
	copied.Permissions = make(workspace.PermissionSet, len(member.Permissions))
	for p := range member.Permissions {
		copied.Permissions[p] = struct{}{}
	}
	return copied
}
