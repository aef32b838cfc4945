package httpapi

import (
	"net/http"

	"github.com/launchforge/accelerator-api/internal/usecase"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerEvaluationRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, resolver *usecase.WorkspaceService) {
	scoped := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, RequireWorkspace(resolver, h))
	}

	mux.Handle("POST /v1/applications/{applicationID}/evaluation/steps/setup", scoped(handler.SetupEvaluationSteps))
	mux.Handle("GET /v1/applications/{applicationID}/evaluation/steps", scoped(handler.ListEvaluationSteps))
	mux.Handle("GET /v1/applications/{applicationID}/evaluation/cutoff", scoped(handler.GetEvaluationCutoffs))
	mux.Handle("PATCH /v1/applications/{applicationID}/evaluation/cutoff", scoped(handler.UpdateEvaluationCutoffs))

	mux.Handle("POST /v1/applications/{applicationID}/evaluation/steps/{stepID}/score", scoped(handler.SubmitScore))
	mux.Handle("GET /v1/applications/{applicationID}/evaluation/steps/{stepID}/scoreboard", scoped(handler.GetScoreboard))

	mux.Handle("POST /v1/applications/{applicationID}/evaluation/steps/{stepID}/advance", scoped(handler.AdvanceSubmissions))
	mux.Handle("POST /v1/applications/{applicationID}/evaluation/admit", scoped(handler.AdmitSubmissions))

	mux.Handle("POST /v1/applications/{applicationID}/evaluation/steps/{stepID}/slots", scoped(handler.CreateInterviewSlots))
	mux.Handle("GET /v1/applications/{applicationID}/evaluation/steps/{stepID}/slots", scoped(handler.ListInterviewSlots))
	mux.Handle("POST /v1/applications/{applicationID}/evaluation/slots/{slotID}/book", scoped(handler.BookInterviewSlot))
}
