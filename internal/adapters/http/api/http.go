// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/betalog/betalog/internal/adapters/store"
	service "github.com/betalog/betalog/internal/app"
	"github.com/betalog/betalog/internal/domain/model"
	"github.com/betalog/betalog/internal/domain/recorder"
	"github.com/betalog/betalog/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Catalog reads.
	PanelTypes(ctx context.Context) ([]string, error)
	RoutesForPanel(ctx context.Context, panelType string) ([]model.ClimbingRoute, error)
	AllRoutes(ctx context.Context) ([]model.ClimbingRoute, error)

	// Session history.
	Sessions(ctx context.Context) ([]model.TrainingSession, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Aggregated dashboard.
	Dashboard(ctx context.Context) (*types.Dashboard, error)

	// Live training recorder.
	StartTraining(ctx context.Context, panelType string) (recorder.Status, error)
	SelectRoute(routeID string) error
	ToggleCompleted(routeID string) error
	IncrementAttempts(routeID string) error
	DecrementAttempts(routeID string) error
	TrainingState() (recorder.Status, error)
	EndTraining(ctx context.Context, save bool) (*model.TrainingSession, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	dashboardHandler *DashboardHandler
	catalogHandler   *CatalogHandler
	sessionsHandler  *SessionsHandler
	trainingHandler  *TrainingHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		dashboardHandler: NewDashboardHandler(deps),
		catalogHandler:   NewCatalogHandler(deps),
		sessionsHandler:  NewSessionsHandler(deps),
		trainingHandler:  NewTrainingHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/dashboard", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("/panels", MetricsMiddleware(s.catalogHandler.HandleGetPanels, "panels"))
	mux.HandleFunc("/routes", MetricsMiddleware(s.catalogHandler.HandleGetRoutes, "routes"))
	mux.HandleFunc("/sessions", MetricsMiddleware(s.sessionsHandler.HandleListSessions, "sessions"))
	mux.HandleFunc("/sessions/", MetricsMiddleware(s.sessionsHandler.HandleDeleteSession, "sessions"))
	mux.HandleFunc("/training", MetricsMiddleware(s.trainingHandler.HandleGetState, "training"))
	mux.HandleFunc("/training/start", MetricsMiddleware(s.trainingHandler.HandleStart, "training_start"))
	mux.HandleFunc("/training/select", MetricsMiddleware(s.trainingHandler.HandleSelect, "training_select"))
	mux.HandleFunc("/training/toggle", MetricsMiddleware(s.trainingHandler.HandleToggle, "training_toggle"))
	mux.HandleFunc("/training/attempts", MetricsMiddleware(s.trainingHandler.HandleAttempts, "training_attempts"))
	mux.HandleFunc("/training/end", MetricsMiddleware(s.trainingHandler.HandleEnd, "training_end"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates upstream failures into HTTP responses so
// every handler maps them the same way. Authorization failures become a
// sign-in prompt; a broken document store reads as a temporary outage.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case store.IsUnauthorized(err):
		writeJSON(w, http.StatusUnauthorized,
			errorResponse{Code: "unauthorized", Message: "sign-in required"})
	case errors.Is(err, service.ErrTrainingInProgress):
		writeError(w, http.StatusConflict, "training_in_progress", err)
	case errors.Is(err, service.ErrNoTraining):
		writeError(w, http.StatusConflict, "no_training", err)
	case errors.Is(err, recorder.ErrEnded):
		writeError(w, http.StatusConflict, "training_ended", err)
	case errors.Is(err, recorder.ErrUnknownRoute), errors.Is(err, recorder.ErrNotActive):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case store.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err)
	case store.IsTransport(err):
		writeJSON(w, http.StatusServiceUnavailable,
			errorResponse{Code: "store_unavailable", Message: "temporary service issue; try again"})
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
