package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/sportsched/internal/api/apierr"
	"github.com/mcoot/sportsched/internal/api/handler"
	"github.com/mcoot/sportsched/internal/api/middleware"
	"github.com/mcoot/sportsched/internal/dependencies/clock"
	"github.com/mcoot/sportsched/internal/metrics"
	sharedmw "github.com/mcoot/sportsched/internal/middleware"
	"github.com/mcoot/sportsched/internal/services/assignment"
	"github.com/mcoot/sportsched/internal/services/auth"
	"github.com/mcoot/sportsched/internal/services/export"
	"github.com/mcoot/sportsched/internal/services/game"
	"github.com/mcoot/sportsched/internal/services/location"
	"github.com/mcoot/sportsched/internal/services/official"
	"github.com/mcoot/sportsched/internal/services/report"
	"github.com/mcoot/sportsched/internal/services/user"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger  *slog.Logger
	Version string
	Clock   clock.Clock
	Storage handler.Pinger
	Metrics *metrics.Metrics

	AuthService *auth.Service
	Locations   *location.Service
	Officials   *official.Service
	Games       *game.Service
	Users       *user.Service
	Assignments *assignment.Controller
	Reports     *report.Service
	Exports     *export.Service
}

// NewRouter creates a new API router with all routes configured.
// Reads need any signed-in user; writes, reports, exports and user
// management need an admin or superadmin.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewMethodNotAllowedError())
	})

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	locationHandler := handler.NewLocationHandler(cfg.Locations)
	officialHandler := handler.NewOfficialHandler(cfg.Officials)
	gameHandler := handler.NewGameHandler(cfg.Games)
	userHandler := handler.NewUserHandler(cfg.Users)
	assignmentHandler := handler.NewAssignmentHandler(cfg.Assignments)
	reportHandler := handler.NewReportHandler(cfg.Reports)
	exportHandler := handler.NewExportHandler(cfg.Exports)
	healthHandler := handler.NewHealthHandler(cfg.Storage, cfg.Clock, cfg.Version, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	manager := middleware.RequireManager()
	loggingMiddleware := sharedmw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	if cfg.Metrics != nil {
		api.Use(sharedmw.Metrics(cfg.Metrics))
	}

	// Public routes
	api.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	// Everything else requires a session
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)

	manage := func(h http.HandlerFunc) http.Handler { return manager(h) }

	crud := func(prefix string, list, get, create, update, del http.HandlerFunc) {
		protected.HandleFunc(prefix, list).Methods(http.MethodGet)
		protected.Handle(prefix, manage(create)).Methods(http.MethodPost)
		protected.HandleFunc(prefix+"/{id}", get).Methods(http.MethodGet)
		protected.Handle(prefix+"/{id}", manage(update)).Methods(http.MethodPatch)
		protected.Handle(prefix+"/{id}", manage(del)).Methods(http.MethodDelete)
	}

	crud("/locations", locationHandler.List, locationHandler.Get, locationHandler.Create, locationHandler.Update, locationHandler.Delete)
	crud("/officials", officialHandler.List, officialHandler.Get, officialHandler.Create, officialHandler.Update, officialHandler.Delete)
	crud("/games", gameHandler.List, gameHandler.Get, gameHandler.Create, gameHandler.Update, gameHandler.Delete)
	crud("/assignments", assignmentHandler.List, assignmentHandler.Get, assignmentHandler.Create, assignmentHandler.Update, assignmentHandler.Delete)
	protected.Handle("/assignments/{id}/transition", manage(assignmentHandler.Transition)).Methods(http.MethodPost)

	// User management is admin-only, reads included
	users := protected.PathPrefix("/users").Subrouter()
	users.Use(manager)
	users.HandleFunc("", userHandler.List).Methods(http.MethodGet)
	users.HandleFunc("", userHandler.Create).Methods(http.MethodPost)
	users.HandleFunc("/{id}", userHandler.Get).Methods(http.MethodGet)
	users.HandleFunc("/{id}", userHandler.Update).Methods(http.MethodPatch)
	users.HandleFunc("/{id}", userHandler.Delete).Methods(http.MethodDelete)

	// Reports
	reports := protected.PathPrefix("/reports").Subrouter()
	reports.Use(manager)
	reports.HandleFunc("/dashboard", reportHandler.Dashboard).Methods(http.MethodGet)
	reports.HandleFunc("/games-by-sport", reportHandler.GamesBySport).Methods(http.MethodGet)
	reports.HandleFunc("/assignments-by-status", reportHandler.AssignmentsByStatus).Methods(http.MethodGet)
	reports.HandleFunc("/officials-by-experience", reportHandler.OfficialsByExperience).Methods(http.MethodGet)
	reports.HandleFunc("/top-officials", reportHandler.TopOfficials).Methods(http.MethodGet)
	reports.HandleFunc("/activity", reportHandler.RecentActivity).Methods(http.MethodGet)

	// Exports
	exports := protected.PathPrefix("/exports").Subrouter()
	exports.Use(manager)
	exports.HandleFunc("/{kind}", exportHandler.Export).Methods(http.MethodGet)

	return r
}
