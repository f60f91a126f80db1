package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/jaideeclear-quotes/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/jaideeclear-quotes/internal/http/middleware"
	"github.com/wolfman30/jaideeclear-quotes/internal/leads"
	"github.com/wolfman30/jaideeclear-quotes/pkg/logging"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Config holds router configuration
type Config struct {
	Logger       *logging.Logger
	QuoteForm    *handlers.QuoteFormHandler
	QuoteAPI     *handlers.QuoteAPIHandler
	LeadsHandler *leads.Handler

	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimiter        *httpmiddleware.RateLimiter

	// HealthChecks run on /healthz; any failure turns the response into 503.
	HealthChecks map[string]HealthCheck
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}

	r.Get("/healthz", healthHandler(cfg.HealthChecks))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Visitor-facing routes; writes are rate limited per client.
	r.Group(func(public chi.Router) {
		if cfg.RateLimiter != nil {
			public.Use(httpmiddleware.RateLimit(cfg.RateLimiter))
		}
		if cfg.QuoteForm != nil {
			public.Get("/", cfg.QuoteForm.Show)
			public.Route("/quote", func(q chi.Router) {
				q.Post("/", cfg.QuoteForm.Submit)
				q.Post("/fields/{field}", cfg.QuoteForm.ChangeField)
				q.Post("/reset", cfg.QuoteForm.Reset)
			})
		}
		if cfg.QuoteAPI != nil {
			public.Post("/api/quotes", cfg.QuoteAPI.Create)
		}
	})

	if cfg.AdminAuthSecret != "" && cfg.LeadsHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/quotes", cfg.LeadsHandler.ListLeads)
			admin.Get("/quotes/{leadID}", cfg.LeadsHandler.GetLead)
		})
	}

	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = err.Error()
				continue
			}
			results[name] = "ok"
		}
		body := map[string]any{"status": "ok", "checks": results}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
