package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"

	"github.com/launchforge/accelerator-api/internal/domain/submission"
	"github.com/launchforge/accelerator-api/internal/platform/logging"
	"github.com/launchforge/accelerator-api/internal/usecase"
)

func sampleNotification() usecase.Notification {
	return usecase.Notification{
		Kind:          usecase.NotificationSubmissionAdvanced,
		WorkspaceID:   "ws_demo",
		ApplicationID: "app_batch12",
		Submission: submission.Submission{
			ID:          "sub_heliotech",
			TeamName:    "Heliotech",
			CurrentStep: 2,
			Status:      submission.StatusSubmitted,
		},
	}
}

func TestQStashNotifier_PublishesWithDeduplication(t *testing.T) {
	t.Parallel()

	var captured struct {
		path    string
		headers http.Header
		payload notificationPayload
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.headers = r.Header.Clone()
		if err := jsoniter.NewDecoder(r.Body).Decode(&captured.payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	notifier := NewQStashNotifier(QStashNotifierConfig{
		BaseURL:          srv.URL,
		Token:            "qstash-token",
		TargetBaseURL:    "https://api.launchforge.dev",
		Retries:          3,
		InternalJobToken: "internal-secret",
	}, logging.NewNop())

	if err := notifier.Notify(context.Background(), sampleNotification()); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	if !strings.HasPrefix(captured.path, "/v2/publish/") {
		t.Fatalf("unexpected publish path: %s", captured.path)
	}
	if !strings.HasSuffix(captured.path, "/internal/notifications/submission") {
		t.Fatalf("unexpected target path: %s", captured.path)
	}
	if got := captured.headers.Get("Authorization"); got != "Bearer qstash-token" {
		t.Fatalf("unexpected authorization header: %s", got)
	}
	if got := captured.headers.Get("Upstash-Deduplication-Id"); got != "submission.advanced:sub_heliotech:2" {
		t.Fatalf("unexpected deduplication id: %s", got)
	}
	if got := captured.headers.Get("Upstash-Retries"); got != "3" {
		t.Fatalf("unexpected retries header: %s", got)
	}
	if got := captured.headers.Get("Upstash-Forward-X-Internal-Job-Token"); got != "internal-secret" {
		t.Fatalf("unexpected forward token header: %s", got)
	}

	if captured.payload.SubmissionID != "sub_heliotech" {
		t.Fatalf("unexpected submission id: %s", captured.payload.SubmissionID)
	}
	if captured.payload.Kind != "submission.advanced" {
		t.Fatalf("unexpected kind: %s", captured.payload.Kind)
	}
	if captured.payload.CurrentStep != 2 {
		t.Fatalf("unexpected current step: %d", captured.payload.CurrentStep)
	}
}

func TestQStashNotifier_Non2xxIsAnError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	notifier := NewQStashNotifier(QStashNotifierConfig{
		BaseURL:       srv.URL,
		Token:         "qstash-token",
		TargetBaseURL: "https://api.launchforge.dev",
	}, logging.NewNop())

	if err := notifier.Notify(context.Background(), sampleNotification()); err == nil {
		t.Fatal("expected error for non-2xx publish response")
	}
}

func TestQStashNotifier_RejectsBadBaseURL(t *testing.T) {
	t.Parallel()

	notifier := NewQStashNotifier(QStashNotifierConfig{
		BaseURL:       "ftp://queue.internal",
		Token:         "qstash-token",
		TargetBaseURL: "https://api.launchforge.dev",
	}, logging.NewNop())

	if err := notifier.Notify(context.Background(), sampleNotification()); err == nil {
		t.Fatal("expected error for unsupported base url scheme")
	}
}
