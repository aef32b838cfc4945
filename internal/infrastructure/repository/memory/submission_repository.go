package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/launchforge/accelerator-api/internal/domain/submission"
)

type SubmissionRepository struct {
	mu    sync.RWMutex
	items map[string]submission.Submission
	now   func() time.Time
}

func NewSubmissionRepository(subs []submission.Submission) *SubmissionRepository {
	r := &SubmissionRepository{
		items: make(map[string]submission.Submission, len(subs)),
		now:   time.Now,
	}
	for _, item := range subs {
		r.items[item.ID] = item
	}
	return r
}

func (r *SubmissionRepository) GetByID(_ context.Context, submissionID string) (submission.Submission, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[submissionID]
	if !ok {
		return submission.Submission{}, false, nil
	}
	return item, true, nil
}

func (r *SubmissionRepository) ListByApplication(_ context.Context, applicationID string) ([]submission.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var subs []submission.Submission
	for _, item := range r.items {
		if item.ApplicationID == applicationID {
			subs = append(subs, item)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubmittedAt.Before(subs[j].SubmittedAt) })
	return subs, nil
}

func (r *SubmissionRepository) SetStep(_ context.Context, submissionIDs []string, step int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated := 0
	for _, id := range submissionIDs {
		item, ok := r.items[id]
		if !ok || item.CurrentStep == step {
			continue
		}
		item.CurrentStep = step
		item.UpdatedAt = r.now().UTC()
		r.items[id] = item
		updated++
	}
	return updated, nil
}

func (r *SubmissionRepository) SetStatus(_ context.Context, submissionIDs []string, status submission.Status) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated := 0
	for _, id := range submissionIDs {
		item, ok := r.items[id]
		if !ok || item.Status == status {
			continue
		}
		item.Status = status
		item.UpdatedAt = r.now().UTC()
		r.items[id] = item
		updated++
	}
	return updated, nil
}

func (r *SubmissionRepository) Upsert(_ context.Context, item submission.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	return nil
}
