package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/launchforge/accelerator-api/internal/domain/program"
)

type ProgramRepository struct {
	mu    sync.RWMutex
	items map[string]program.Application
}

func NewProgramRepository(apps []program.Application) *ProgramRepository {
	r := &ProgramRepository{items: make(map[string]program.Application, len(apps))}
	for _, item := range apps {
		r.items[item.ID] = item
	}
	return r
}

func (r *ProgramRepository) GetByID(_ context.Context, applicationID string) (program.Application, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[applicationID]
	if !ok {
		return program.Application{}, false, nil
	}
	return item, true, nil
}

func (r *ProgramRepository) ListByWorkspace(_ context.Context, workspaceID string) ([]program.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var apps []program.Application
	for _, item := range r.items {
		if item.WorkspaceID == workspaceID {
			apps = append(apps, item)
		}
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].CreatedAt.Before(apps[j].CreatedAt) })
	return apps, nil
}

func (r *ProgramRepository) Upsert(_ context.Context, item program.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	return nil
}
