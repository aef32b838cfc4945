package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/launchforge/accelerator-api/internal/domain/user"
	"github.com/launchforge/accelerator-api/internal/infrastructure/repository/memory"
	idgen "github.com/launchforge/accelerator-api/internal/platform/id"
	"github.com/launchforge/accelerator-api/internal/platform/logging"
	"github.com/launchforge/accelerator-api/internal/usecase"
)

// staticVerifier maps bearer tokens directly to user ids.
type staticVerifier struct{}

func (staticVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: empty token", usecase.ErrUnauthorized)
	}
	return user.Principal{UserID: token, Email: token + "@launchforge.dev"}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	workspaceRepo := memory.NewWorkspaceRepository(memory.SeedWorkspaces(), memory.SeedMembers())
	programRepo := memory.NewProgramRepository(memory.SeedApplications())
	submissionRepo := memory.NewSubmissionRepository(memory.SeedSubmissions())
	evaluationRepo := memory.NewEvaluationRepository()
	interviewRepo := memory.NewInterviewRepository()

	ids := idgen.NewRandomGenerator()
	logger := logging.NewNop()

	workspaceSvc := usecase.NewWorkspaceService(workspaceRepo, programRepo)
	evaluationSvc := usecase.NewEvaluationService(workspaceSvc, evaluationRepo, ids)
	scoringSvc := usecase.NewScoringService(workspaceSvc, evaluationRepo, submissionRepo, ids, nil)
	workflowSvc := usecase.NewWorkflowService(workspaceSvc, scoringSvc, evaluationRepo, submissionRepo, nil, logger)
	interviewSvc := usecase.NewInterviewService(workspaceSvc, evaluationRepo, submissionRepo, interviewRepo, ids)

	handler := NewHandler(evaluationSvc, scoringSvc, workflowSvc, interviewSvc, logger)
	return NewRouter(handler, staticVerifier{}, workspaceSvc, logger, false, nil)
}

func doJSON(t *testing.T, router http.Handler, method, path, userID string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		encoded, err := sonic.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request payload: %v", err)
		}
		body = bytes.NewBuffer(encoded)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+userID)
		req.Header.Set("X-Workspace-ID", memory.WorkspaceIDDemo)
	}
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope struct {
		Success bool           `json:"success"`
		Data    any            `json:"data"`
		Error   map[string]any `json:"error"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v (body=%s)", err, rec.Body.String())
	}
	if !envelope.Success {
		t.Fatalf("expected success envelope, got error: %v", envelope.Error)
	}
	data, _ := envelope.Data.(map[string]any)
	return data
}

func setupStepsOverHTTP(t *testing.T, router http.Handler) (reviewStepID string) {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost,
		"/v1/applications/"+memory.ApplicationIDBatch12+"/evaluation/steps/setup",
		"user_admin",
		map[string]any{
			"score_min":                     1,
			"score_max":                     10,
			"required_evaluator_percentage": 75,
			"steps": []map[string]any{
				{
					"number": 1,
					"name":   "Application Review",
					"criteria": []map[string]any{
						{"label": "Team", "weight": 1},
						{"label": "Market", "weight": 1},
					},
				},
				{
					"number": 2,
					"name":   "Interview",
					"criteria": []map[string]any{
						{"label": "Interview Performance", "weight": 1},
					},
				},
			},
		})
	if rec.Code != http.StatusCreated {
		t.Fatalf("setup steps failed with %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data []struct {
			ID       string `json:"id"`
			Number   int    `json:"number"`
			Criteria []struct {
				ID string `json:"id"`
			} `json:"criteria"`
		} `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal setup response: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected two steps, got %d", len(envelope.Data))
	}
	return envelope.Data[0].ID
}

func TestRouter_Healthz_NoAuthNeeded(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_MissingBearerToken(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet,
		"/v1/applications/"+memory.ApplicationIDBatch12+"/evaluation/steps", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_MissingWorkspaceHeader(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet,
		"/v1/applications/"+memory.ApplicationIDBatch12+"/evaluation/steps", nil)
	req.Header.Set("Authorization", "Bearer user_admin")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing workspace header, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_NonMemberForbidden(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet,
		"/v1/applications/"+memory.ApplicationIDBatch12+"/evaluation/steps", "user_stranger", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_SetupSteps_ZeroLowerBoundAccepted(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost,
		"/v1/applications/"+memory.ApplicationIDBatch12+"/evaluation/steps/setup",
		"user_admin",
		map[string]any{
			"score_min":                     0,
			"score_max":                     5,
			"required_evaluator_percentage": 75,
			"steps": []map[string]any{
				{
					"number": 1,
					"name":   "Application Review",
					"criteria": []map[string]any{
						{"label": "Team", "weight": 1},
					},
				},
				{
					"number": 2,
					"name":   "Interview",
					"criteria": []map[string]any{
						{"label": "Interview Performance", "weight": 1},
					},
				},
			},
		})
	if rec.Code != http.StatusCreated {
		t.Fatalf("zero lower bound rejected with %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_ScoreLifecycle(t *testing.T) {
	router := newTestRouter(t)
	reviewStepID := setupStepsOverHTTP(t, router)

	listRec := doJSON(t, router, http.MethodGet,
		"/v1/applications/"+memory.ApplicationIDBatch12+"/evaluation/steps", "user_judge_ayu", nil)
	if listRec.Code != http.StatusOK {
		t.Fatalf("list steps failed with %d", listRec.Code)
	}

	var stepsEnvelope struct {
		Data []struct {
			ID       string `json:"id"`
			Criteria []struct {
				ID string `json:"id"`
			} `json:"criteria"`
		} `json:"data"`
	}
	if err := sonic.Unmarshal(listRec.Body.Bytes(), &stepsEnvelope); err != nil {
		t.Fatalf("unmarshal steps: %v", err)
	}
	criteria := stepsEnvelope.Data[0].Criteria

	values := map[string]float64{}
	for _, criterion := range criteria {
		values[criterion.ID] = 8
	}
	scorePayload := map[string]any{"submission_id": "sub_heliotech", "values": values}

	scoreRec := doJSON(t, router, http.MethodPost,
		"/v1/applications/"+memory.ApplicationIDBatch12+"/evaluation/steps/"+reviewStepID+"/score",
		"user_judge_ayu", scorePayload)
	if scoreRec.Code != http.StatusCreated {
		t.Fatalf("submit score failed with %d: %s", scoreRec.Code, scoreRec.Body.String())
	}

	// The same judge scoring again conflicts.
	dupRec := doJSON(t, router, http.MethodPost,
		"/v1/applications/"+memory.ApplicationIDBatch12+"/evaluation/steps/"+reviewStepID+"/score",
		"user_judge_ayu", scorePayload)
	if dupRec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate score, got %d: %s", dupRec.Code, dupRec.Body.String())
	}

	// A viewer cannot score.
	viewerRec := doJSON(t, router, http.MethodPost,
		"/v1/applications/"+memory.ApplicationIDBatch12+"/evaluation/steps/"+reviewStepID+"/score",
		"user_viewer", scorePayload)
	if viewerRec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for viewer score, got %d", viewerRec.Code)
	}

	boardRec := doJSON(t, router, http.MethodGet,
		"/v1/applications/"+memory.ApplicationIDBatch12+"/evaluation/steps/"+reviewStepID+"/scoreboard",
		"user_admin", nil)
	if boardRec.Code != http.StatusOK {
		t.Fatalf("scoreboard failed with %d: %s", boardRec.Code, boardRec.Body.String())
	}
	board := decodeData(t, boardRec)
	if totalJudges, _ := board["total_judges"].(float64); totalJudges != 3 {
		t.Fatalf("expected 3 total judges, got %v", board["total_judges"])
	}
}

func TestRouter_SlotBookingConflict(t *testing.T) {
	router := newTestRouter(t)
	setupStepsOverHTTP(t, router)

	// Find the interview step id.
	listRec := doJSON(t, router, http.MethodGet,
		"/v1/applications/"+memory.ApplicationIDBatch12+"/evaluation/steps", "user_admin", nil)
	var stepsEnvelope struct {
		Data []struct {
			ID     string `json:"id"`
			Number int    `json:"number"`
		} `json:"data"`
	}
	if err := sonic.Unmarshal(listRec.Body.Bytes(), &stepsEnvelope); err != nil {
		t.Fatalf("unmarshal steps: %v", err)
	}
	interviewStepID := stepsEnvelope.Data[1].ID

	// Advance both teams so they can book.
	advRec := doJSON(t, router, http.MethodPost,
		"/v1/applications/"+memory.ApplicationIDBatch12+"/evaluation/steps/"+stepsEnvelope.Data[0].ID+"/advance",
		"user_admin", map[string]any{
			"submission_ids": []string{"sub_heliotech", "sub_kiranafarm"},
			"force":          true,
		})
	if advRec.Code != http.StatusOK {
		t.Fatalf("advance failed with %d: %s", advRec.Code, advRec.Body.String())
	}

	slotRec := doJSON(t, router, http.MethodPost,
		"/v1/applications/"+memory.ApplicationIDBatch12+"/evaluation/steps/"+interviewStepID+"/slots",
		"user_admin", map[string]any{
			"slots": []map[string]any{
				{"starts_at": "2025-12-01T09:00:00Z", "ends_at": "2025-12-01T09:30:00Z"},
			},
		})
	if slotRec.Code != http.StatusCreated {
		t.Fatalf("create slots failed with %d: %s", slotRec.Code, slotRec.Body.String())
	}

	var slotsEnvelope struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := sonic.Unmarshal(slotRec.Body.Bytes(), &slotsEnvelope); err != nil {
		t.Fatalf("unmarshal slots: %v", err)
	}
	slotID := slotsEnvelope.Data[0].ID

	// The booking body names only the submission; the step comes from the
	// slot itself.
	bookPath := "/v1/applications/" + memory.ApplicationIDBatch12 + "/evaluation/slots/" + slotID + "/book"
	firstRec := doJSON(t, router, http.MethodPost, bookPath, "user_admin",
		map[string]any{"submission_id": "sub_heliotech"})
	if firstRec.Code != http.StatusOK {
		t.Fatalf("first booking failed with %d: %s", firstRec.Code, firstRec.Body.String())
	}

	secondRec := doJSON(t, router, http.MethodPost, bookPath, "user_admin",
		map[string]any{"submission_id": "sub_kiranafarm"})
	if secondRec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for double booking, got %d: %s", secondRec.Code, secondRec.Body.String())
	}
}
