package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cavespring/plumbing-leads/internal/auth"
	httpmiddleware "github.com/cavespring/plumbing-leads/internal/http/middleware"
	"github.com/cavespring/plumbing-leads/internal/intake"
	"github.com/cavespring/plumbing-leads/internal/leads"
	"github.com/cavespring/plumbing-leads/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger        *logging.Logger
	LeadsHandler  *leads.Handler
	IntakeHandler *intake.Handler
	AuthHandler   *auth.Handler

	// AdminJWTSecret enables the admin route group; Sessions makes
	// issued tokens revocable.
	AdminJWTSecret string
	Sessions       httpmiddleware.SessionChecker

	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Intake rate limit, requests/sec per IP. Zero disables limiting.
	IntakeRateLimit float64
	IntakeBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.AuthHandler != nil {
			public.Post("/admin/login", cfg.AuthHandler.Login)
		}
	})

	// Visitor-facing intake, rate limited per IP.
	r.Group(func(visitor chi.Router) {
		if cfg.IntakeRateLimit > 0 {
			visitor.Use(httpmiddleware.RateLimit(cfg.IntakeRateLimit, cfg.IntakeBurst))
		}
		visitor.Post("/leads", cfg.LeadsHandler.Create)
		if cfg.IntakeHandler != nil {
			visitor.Route("/intake", func(r chi.Router) {
				r.Post("/contact", cfg.IntakeHandler.Contact)
				r.Post("/emergency", cfg.IntakeHandler.Emergency)
				r.Get("/options", cfg.IntakeHandler.Options)
			})
		}
	})

	// Admin endpoints behind the session token.
	r.Group(func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminSession(cfg.AdminJWTSecret, cfg.Sessions))
		admin.Get("/leads", cfg.LeadsHandler.List)
		admin.Patch("/leads", cfg.LeadsHandler.Update)
		admin.Delete("/leads", cfg.LeadsHandler.Delete)
		if cfg.AuthHandler != nil {
			admin.Post("/admin/logout", cfg.AuthHandler.Logout)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
