// Package notify delivers workflow notifications through QStash, which
// forwards them to the email gateway with its own retry schedule.
package notify

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/launchforge/accelerator-api/internal/platform/logging"
	"github.com/launchforge/accelerator-api/internal/usecase"
)

type QStashNotifierConfig struct {
	BaseURL          string
	Token            string
	TargetBaseURL    string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
}

type QStashNotifier struct {
	client           *http.Client
	baseURL          string
	token            string
	targetBaseURL    string
	retries          int
	internalJobToken string
	logger           *logging.Logger
}

func NewQStashNotifier(cfg QStashNotifierConfig, logger *logging.Logger) *QStashNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &QStashNotifier{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:          strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:            strings.TrimSpace(cfg.Token),
		targetBaseURL:    strings.TrimRight(strings.TrimSpace(cfg.TargetBaseURL), "/"),
		retries:          cfg.Retries,
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		logger:           logger,
	}
}

type notificationPayload struct {
	Kind          string `json:"kind"`
	WorkspaceID   string `json:"workspace_id"`
	ApplicationID string `json:"application_id"`
	SubmissionID  string `json:"submission_id"`
	TeamName      string `json:"team_name"`
	CurrentStep   int    `json:"current_step"`
	Status        string `json:"status"`
}

// Notify publishes one notification job. The deduplication id covers the
// (kind, submission, step) triple so a replayed bulk transition does not
// email a team twice.
func (n *QStashNotifier) Notify(ctx context.Context, notification usecase.Notification) error {
	baseURL, err := validateHTTPBaseURL(n.baseURL)
	if err != nil {
		return crerr.Wrap(err, "invalid QSTASH_BASE_URL")
	}
	targetBaseURL, err := validateHTTPBaseURL(n.targetBaseURL)
	if err != nil {
		return crerr.Wrap(err, "invalid NOTIFIER_TARGET_BASE_URL")
	}

	targetURL := targetBaseURL + "/internal/notifications/submission"
	publishURL := baseURL + "/v2/publish/" + targetURL
	deduplicationID := string(notification.Kind) + ":" + notification.Submission.ID + ":" +
		strconv.Itoa(notification.Submission.CurrentStep)

	body, err := jsoniter.Marshal(notificationPayload{
		Kind:          string(notification.Kind),
		WorkspaceID:   notification.WorkspaceID,
		ApplicationID: notification.ApplicationID,
		SubmissionID:  notification.Submission.ID,
		TeamName:      notification.Submission.TeamName,
		CurrentStep:   notification.Submission.CurrentStep,
		Status:        string(notification.Submission.Status),
	})
	if err != nil {
		return crerr.Wrap(err, "marshal notification payload")
	}
	curlPreview := buildCurlPreview(publishURL, n.retries, deduplicationID, string(body), n.internalJobToken != "")

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("qstash.publish_url", publishURL),
			attribute.String("qstash.deduplication_id", deduplicationID),
			attribute.String("qstash.request_curl_preview", curlPreview),
			attribute.String("notification.kind", string(notification.Kind)),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, publishURL, strings.NewReader(string(body)))
	if err != nil {
		return crerr.Wrap(err, "create qstash request")
	}
	req.Header.Set("Authorization", "Bearer "+n.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Upstash-Method", http.MethodPost)
	req.Header.Set("Upstash-Deduplication-Id", deduplicationID)
	if n.retries > 0 {
		req.Header.Set("Upstash-Retries", strconv.Itoa(n.retries))
	}
	if n.internalJobToken != "" {
		req.Header.Set("Upstash-Forward-X-Internal-Job-Token", n.internalJobToken)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return crerr.Wrapf(err, "publish notification target_url=%s curl=%s", targetURL, curlPreview)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return crerr.Newf("publish notification status=%d target_url=%s body=%s",
			resp.StatusCode, targetURL, strings.TrimSpace(string(raw)))
	}

	n.logger.InfoContext(ctx, "notification published",
		"kind", notification.Kind,
		"submission_id", notification.Submission.ID,
		"deduplication_id", deduplicationID,
	)
	return nil
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func buildCurlPreview(publishURL string, retries int, deduplicationID, body string, withForwardToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}
	appendFlagHeader := func(value string) {
		appendPart("-H")
		appendPart(shellQuote(value))
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(publishURL))
	appendFlagHeader("Authorization: Bearer ***")
	appendFlagHeader("Content-Type: application/json")
	appendFlagHeader("Upstash-Method: POST")
	appendFlagHeader("Upstash-Deduplication-Id: " + deduplicationID)
	if retries > 0 {
		appendFlagHeader("Upstash-Retries: " + strconv.Itoa(retries))
	}
	if withForwardToken {
		appendFlagHeader("Upstash-Forward-X-Internal-Job-Token: ***")
	}
	appendPart("-d")
	appendPart(shellQuote(truncateForLog(body, 4096)))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}
