// Package service wires the document store, repositories, aggregation
// engine and session recorder into the operations exposed to the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/betalog/betalog/internal/adapters/repository"
	"github.com/betalog/betalog/internal/adapters/store"
	"github.com/betalog/betalog/internal/auth"
	"github.com/betalog/betalog/internal/domain/model"
	"github.com/betalog/betalog/internal/domain/recorder"
	"github.com/betalog/betalog/internal/domain/stats"
	"github.com/betalog/betalog/internal/domain/types"
	"github.com/betalog/betalog/pkg/logger"
	"github.com/betalog/betalog/pkg/metrics"
)

// tickInterval drives the active recorder's elapsed-time clock.
const tickInterval = time.Second

// Service implements the training tracker operations.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    store.Store
	routes   *repository.Routes
	sessions *repository.Sessions
	engine   *stats.Engine
	creds    auth.Source

	// Configuration
	catalogTTL  time.Duration
	windowDays  int
	recentLimit int
	now         func() time.Time

	// Active training session, nil when none.
	rec *recorder.Recorder

	// State
	started   bool
	startedAt time.Time
	stopCh    chan struct{}

	// Logging
	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithCatalogTTL sets the panel catalog cache lifetime.
func WithCatalogTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.catalogTTL = ttl
		}
	}
}

// WithFrequencyWindow sets the dashboard frequency window in days.
func WithFrequencyWindow(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.windowDays = days
		}
	}
}

// WithRecentSessionsLimit caps the dashboard's recent session list.
func WithRecentSessionsLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.recentLimit = limit
		}
	}
}

// WithNow injects the clock used by the caches, the engine and the
// recorder. Tests rely on it.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a service over the given store and identity source.
func New(st store.Store, creds auth.Source, opts ...Option) *Service {
	s := &Service{
		store:       st,
		creds:       creds,
		catalogTTL:  0, // repository default applies
		windowDays:  stats.DefaultFrequencyWindowDays,
		recentLimit: stats.DefaultRecentSessionsLimit,
		now:         time.Now,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	routeOpts := []repository.RoutesOption{
		repository.WithRoutesLogger(s.log.Named("routes")),
		repository.WithRoutesNow(s.now),
	}
	if s.catalogTTL > 0 {
		routeOpts = append(routeOpts, repository.WithCatalogTTL(s.catalogTTL))
	}
	s.routes = repository.NewRoutes(st, routeOpts...)
	s.sessions = repository.NewSessions(st, repository.WithSessionsLogger(s.log.Named("sessions")))
	s.engine = stats.New(s.sessions, stats.WithNow(s.now))
	return s
}

// Start launches the 1 Hz tick loop driving the active recorder.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true
	s.startedAt = time.Now()
	s.stopCh = make(chan struct{})
	go s.run(ctx)
	return nil
}

// Stop halts the tick loop. A still-active recorder is ended synchronously
// so no timer outlives the service; its unsaved draft is discarded. Stop
// is safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	close(s.stopCh)
	rec := s.rec
	s.rec = nil
	s.mu.Unlock()

	if rec != nil && rec.State() != recorder.StateEnded {
		rec.End()
		metrics.RecordSessionDiscarded()
		metrics.SetRecorderActive(false)
		s.log.Warn(context.Background(), "service stopped with training in progress; session discarded")
	}
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.mu.RLock()
			rec := s.rec
			s.mu.RUnlock()
			if rec != nil {
				rec.Tick()
			}
		}
	}
}

// userID returns the signed-in user or an authorization error.
func (s *Service) userID() (string, error) {
	id := s.creds.CurrentUserID()
	if id == "" {
		return "", repository.ErrUnauthorized
	}
	return id, nil
}

// PanelTypes lists the known wall panel categories.
func (s *Service) PanelTypes(ctx context.Context) ([]string, error) {
	return s.routes.PanelTypes(ctx)
}

// RoutesForPanel returns one panel's routes sorted by difficulty.
func (s *Service) RoutesForPanel(ctx context.Context, panelType string) ([]model.ClimbingRoute, error) {
	return s.routes.RoutesByPanel(ctx, panelType)
}

// AllRoutes returns every panel's routes merged and sorted by difficulty.
func (s *Service) AllRoutes(ctx context.Context) ([]model.ClimbingRoute, error) {
	return s.routes.AllRoutes(ctx)
}

// Sessions returns the signed-in user's training history.
func (s *Service) Sessions(ctx context.Context) ([]model.TrainingSession, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}
	return s.sessions.All(ctx, userID)
}

// DeleteSession removes one of the signed-in user's sessions.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	userID, err := s.userID()
	if err != nil {
		return err
	}
	return s.sessions.Delete(ctx, userID, sessionID)
}

// Dashboard assembles every aggregation for the signed-in user. The
// computations are independent; each is internally consistent with the
// session snapshot fetched at the start of the call.
func (s *Service) Dashboard(ctx context.Context) (*types.Dashboard, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.All(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &types.Dashboard{
		Summary:                     s.engine.Summary(sessions),
		Frequency:                   s.engine.FrequencySeries(sessions, s.windowDays),
		DifficultyDistribution:      s.engine.DifficultyDistribution(ctx, sessions),
		CompletionRateByDifficulty:  s.engine.CompletionRateByDifficulty(ctx, sessions),
		AverageAttemptsByDifficulty: s.engine.AverageAttemptsByDifficulty(ctx, sessions),
		TimeByWeekday:               s.engine.TimeByWeekday(sessions),
		RecentSessions:              s.engine.RecentSessions(sessions, s.recentLimit),
	}, nil
}

// StartTraining creates and installs a recorder for one panel, seeded
// with the user's previous attempts there.
func (s *Service) StartTraining(ctx context.Context, panelType string) (recorder.Status, error) {
	userID, err := s.userID()
	if err != nil {
		return recorder.Status{}, err
	}

	s.mu.RLock()
	active := s.rec != nil && s.rec.State() != recorder.StateEnded
	s.mu.RUnlock()
	if active {
		return recorder.Status{}, ErrTrainingInProgress
	}

	routes, err := s.sessions.RoutesByPanel(ctx, panelType)
	if err != nil {
		return recorder.Status{}, err
	}
	previous, err := s.sessions.PreviousAttempts(ctx, panelType, userID)
	if err != nil {
		return recorder.Status{}, err
	}

	rec := recorder.New(panelType, userID, routes, previous, recorder.WithNow(s.now))

	s.mu.Lock()
	s.rec = rec
	s.mu.Unlock()

	metrics.SetRecorderActive(true)
	s.log.Info(ctx, "training started",
		logger.String("panel", panelType), logger.Int("routes", len(routes)))
	return rec.Snapshot(), nil
}

// activeRecorder returns the installed recorder or ErrNoTraining.
func (s *Service) activeRecorder() (*recorder.Recorder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rec == nil {
		return nil, ErrNoTraining
	}
	return s.rec, nil
}

// SelectRoute marks a route as the single selected one.
func (s *Service) SelectRoute(routeID string) error {
	rec, err := s.activeRecorder()
	if err != nil {
		return err
	}
	return rec.Select(routeID)
}

// ToggleCompleted flips a route's completion flag.
func (s *Service) ToggleCompleted(routeID string) error {
	rec, err := s.activeRecorder()
	if err != nil {
		return err
	}
	return rec.ToggleCompleted(routeID)
}

// IncrementAttempts bumps a route's attempt counter.
func (s *Service) IncrementAttempts(routeID string) error {
	rec, err := s.activeRecorder()
	if err != nil {
		return err
	}
	return rec.IncrementAttempts(routeID)
}

// DecrementAttempts lowers a route's attempt counter.
func (s *Service) DecrementAttempts(routeID string) error {
	rec, err := s.activeRecorder()
	if err != nil {
		return err
	}
	return rec.DecrementAttempts(routeID)
}

// TrainingState returns the active recorder's observable state.
func (s *Service) TrainingState() (recorder.Status, error) {
	rec, err := s.activeRecorder()
	if err != nil {
		return recorder.Status{}, err
	}
	return rec.Snapshot(), nil
}

// EndTraining ends the active recorder. With no route selected, or when
// the caller declines to save, nothing is persisted and nil is returned.
// Otherwise the one-route draft is saved and returned. Write failures
// surface to the caller; the recorder is gone either way.
func (s *Service) EndTraining(ctx context.Context, save bool) (*model.TrainingSession, error) {
	s.mu.Lock()
	rec := s.rec
	s.rec = nil
	s.mu.Unlock()

	if rec == nil {
		return nil, ErrNoTraining
	}

	draft := rec.End()
	metrics.SetRecorderActive(false)

	if draft == nil {
		metrics.RecordSessionDiscarded()
		s.log.Info(ctx, "training ended with no route selected; nothing saved")
		return nil, nil
	}
	if !save {
		metrics.RecordSessionDiscarded()
		s.log.Info(ctx, "training ended; save declined")
		return nil, nil
	}

	saved, err := s.sessions.Save(ctx, *draft)
	if err != nil {
		s.log.Error(ctx, "saving training session failed", logger.Error(err))
		return nil, err
	}
	metrics.RecordSessionSaved()
	s.log.Info(ctx, "training session saved",
		logger.String("session", saved.ID),
		logger.Duration("duration", saved.Duration))
	return &saved, nil
}

// GetStats reports lightweight service counters for the stats endpoint.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recorderActive := s.rec != nil && s.rec.State() == recorder.StateActive
	statsMap := map[string]interface{}{
		"started":         s.started,
		"recorder_active": recorderActive,
		"authenticated":   s.creds.IsAuthenticated(),
	}
	if s.started {
		statsMap["uptime_seconds"] = int(time.Since(s.startedAt).Seconds())
	}
	return statsMap
}
