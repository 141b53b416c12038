package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	dashhttp "github.com/tembo-ops/tembo-ops/internal/dashboard/http"
	"github.com/tembo-ops/tembo-ops/internal/finance"
	"github.com/tembo-ops/tembo-ops/internal/fx"
	"github.com/tembo-ops/tembo-ops/internal/observability"
	"github.com/tembo-ops/tembo-ops/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Pool             *pgxpool.Pool
	Redis            *redis.Client
	DashboardHandler *dashhttp.Handler
	FXHandler        *fx.Handler
	FinanceHandler   *finance.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with Tembo defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if params.Pool != nil {
			if err := params.Pool.Ping(r.Context()); err != nil {
				params.Logger.Error("readiness db ping", slog.Any("error", err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"db unavailable"}`))
				return
			}
		}
		if params.Redis != nil {
			if err := params.Redis.Ping(r.Context()).Err(); err != nil {
				params.Logger.Error("readiness redis ping", slog.Any("error", err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"cache unavailable"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	var apiKeyHash string
	if params.Config != nil {
		apiKeyHash = params.Config.APIKeyHash
	}
	guard := RequireAPIKey(params.Logger, apiKeyHash)

	r.Route("/api/v1", func(api chi.Router) {
		if params.DashboardHandler != nil {
			params.DashboardHandler.MountRoutes(api)
		}
		if params.FXHandler != nil {
			api.Route("/fx", func(fxr chi.Router) {
				fxr.Group(func(gr chi.Router) {
					gr.Use(guard)
					params.FXHandler.MountWriteRoutes(gr)
				})
				params.FXHandler.MountReadRoutes(fxr)
			})
		}
		if params.FinanceHandler != nil {
			api.Route("/finance", func(fin chi.Router) {
				fin.Group(func(gr chi.Router) {
					gr.Use(guard)
					params.FinanceHandler.MountWriteRoutes(gr)
				})
				params.FinanceHandler.MountReadRoutes(fin)
			})
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
