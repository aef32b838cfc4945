package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/launchforge/accelerator-api/internal/domain/workspace"
	"github.com/launchforge/accelerator-api/internal/platform/logging"
	"github.com/launchforge/accelerator-api/internal/usecase"
)

type Handler struct {
	evaluationService *usecase.EvaluationService
	scoringService    *usecase.ScoringService
	workflowService   *usecase.WorkflowService
	interviewService  *usecase.InterviewService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	evaluationService *usecase.EvaluationService,
	scoringService *usecase.ScoringService,
	workflowService *usecase.WorkflowService,
	interviewService *usecase.InterviewService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		evaluationService: evaluationService,
		scoringService:    scoringService,
		workflowService:   workflowService,
		interviewService:  interviewService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// workspaceContext pulls the resolved tenant scope placed on the request by
// RequireWorkspace.
func (h *Handler) workspaceContext(ctx context.Context) (workspace.Context, error) {
	wctx, ok := workspaceContextFrom(ctx)
	if !ok {
		return workspace.Context{}, fmt.Errorf("%w: missing workspace context", usecase.ErrUnauthorized)
	}
	return wctx, nil
}

func (h *Handler) decodeRequest(r *http.Request, payload any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
