package usecase

import (
	"context"

	"github.com/launchforge/accelerator-api/internal/domain/submission"
)

type NotificationKind string

const (
	NotificationSubmissionAdvanced NotificationKind = "submission.advanced"
	NotificationSubmissionAdmitted NotificationKind = "submission.admitted"
)

type Notification struct {
	Kind          NotificationKind
	WorkspaceID   string
	ApplicationID string
	Submission    submission.Submission
}

// Notifier delivers workflow transition notifications. Delivery is
// best-effort: workflow commits never roll back on notifier failure.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// NopNotifier drops notifications, for wiring without an email gateway.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notification) error { return nil }
