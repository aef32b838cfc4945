// Package app assembles the service: repositories, use cases, outbound
// clients, and the HTTP server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/launchforge/accelerator-api/internal/config"
	"github.com/launchforge/accelerator-api/internal/domain/evaluation"
	"github.com/launchforge/accelerator-api/internal/domain/interview"
	"github.com/launchforge/accelerator-api/internal/domain/program"
	"github.com/launchforge/accelerator-api/internal/domain/submission"
	"github.com/launchforge/accelerator-api/internal/domain/workspace"
	"github.com/launchforge/accelerator-api/internal/infrastructure/account/passport"
	"github.com/launchforge/accelerator-api/internal/infrastructure/notify"
	"github.com/launchforge/accelerator-api/internal/infrastructure/repository/memory"
	"github.com/launchforge/accelerator-api/internal/infrastructure/repository/postgres"
	"github.com/launchforge/accelerator-api/internal/interfaces/httpapi"
	"github.com/launchforge/accelerator-api/internal/platform/cache"
	idgen "github.com/launchforge/accelerator-api/internal/platform/id"
	"github.com/launchforge/accelerator-api/internal/platform/logging"
	"github.com/launchforge/accelerator-api/internal/platform/resilience"
	"github.com/launchforge/accelerator-api/internal/usecase"
)

type repositories struct {
	workspaces  workspace.Repository
	programs    program.Repository
	submissions submission.Repository
	evaluations evaluation.Repository
	interviews  interview.Repository
}

// NewHTTPServer wires the whole service and returns the server plus a
// cleanup that releases infrastructure handles.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, closeRepos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var scoreboardCache *cache.Store
	if cfg.CacheEnabled {
		scoreboardCache = cache.NewStore(cfg.CacheTTL)
	}

	ids := idgen.NewRandomGenerator()

	workspaceSvc := usecase.NewWorkspaceService(repos.workspaces, repos.programs)
	evaluationSvc := usecase.NewEvaluationService(workspaceSvc, repos.evaluations, ids)
	scoringSvc := usecase.NewScoringService(workspaceSvc, repos.evaluations, repos.submissions, ids, scoreboardCache)

	var notifier usecase.Notifier = usecase.NopNotifier{}
	if cfg.NotifierEnabled {
		notifier = notify.NewQStashNotifier(notify.QStashNotifierConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.NotifierTargetBaseURL,
			Retries:          cfg.NotifierRetries,
			InternalJobToken: cfg.InternalJobToken,
			Timeout:          cfg.NotifierTimeout,
		}, logger)
	}

	workflowSvc := usecase.NewWorkflowService(workspaceSvc, scoringSvc, repos.evaluations, repos.submissions, notifier, logger)
	interviewSvc := usecase.NewInterviewService(workspaceSvc, repos.evaluations, repos.submissions, repos.interviews, ids)

	verifier := passport.NewClient(
		&http.Client{Timeout: cfg.AccountTimeout},
		cfg.AccountBaseURL,
		cfg.AccountIntrospectPath,
		cfg.AccountServiceKey,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.AccountCircuitEnabled,
			FailureThreshold: cfg.AccountCircuitFailureCount,
			OpenTimeout:      cfg.AccountCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AccountCircuitHalfOpenMaxReq,
		},
		logger,
	)

	handler := httpapi.NewHandler(evaluationSvc, scoringSvc, workflowSvc, interviewSvc, logger)
	router := httpapi.NewRouter(handler, verifier, workspaceSvc, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = closeRepos(context.Background())
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, closeRepos, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Warn("DB_URL is empty, using in-memory repositories with demo seed data")
		return repositories{
			workspaces:  memory.NewWorkspaceRepository(memory.SeedWorkspaces(), memory.SeedMembers()),
			programs:    memory.NewProgramRepository(memory.SeedApplications()),
			submissions: memory.NewSubmissionRepository(memory.SeedSubmissions()),
			evaluations: memory.NewEvaluationRepository(),
			interviews:  memory.NewInterviewRepository(),
		}, noop, nil
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return repositories{}, nil, err
	}

	logger.Info("connected to postgres", "database", dbNameFromURL(cfg.DBURL))
	return repositories{
			workspaces:  postgres.NewWorkspaceRepository(db),
			programs:    postgres.NewProgramRepository(db),
			submissions: postgres.NewSubmissionRepository(db),
			evaluations: postgres.NewEvaluationRepository(db),
			interviews:  postgres.NewInterviewRepository(db),
		}, func(context.Context) error {
			return db.Close()
		}, nil
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}
