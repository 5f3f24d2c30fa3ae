package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/betalog/betalog/internal/adapters/store"
	"github.com/betalog/betalog/internal/domain/model"
	"github.com/betalog/betalog/pkg/logger"
)

// Root path of the training session collection, partitioned by user.
const sessionsRoot = "trainingSessions"

// Sessions stores and retrieves a user's training sessions.
type Sessions struct {
	store store.Store
	log   logger.Logger
}

// SessionsOption applies a configuration option to the Sessions repository.
type SessionsOption func(*Sessions)

// WithSessionsLogger sets the repository logger.
func WithSessionsLogger(log logger.Logger) SessionsOption {
	return func(s *Sessions) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSessions creates a training-session repository over the given store.
func NewSessions(s store.Store, opts ...SessionsOption) *Sessions {
	repo := &Sessions{store: s, log: logger.Nop()}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Save persists a session. An empty id means create, with the store
// assigning the id; otherwise the existing document is replaced. A session
// without a user id fails with an authorization error and writes nothing.
func (s *Sessions) Save(ctx context.Context, session model.TrainingSession) (model.TrainingSession, error) {
	if session.UserID == "" {
		return model.TrainingSession{}, fmt.Errorf("saving session: no signed-in user: %w", store.ErrUnauthorized)
	}
	if session.ID == "" {
		key, err := s.store.Post(ctx, sessionsRoot+"/"+session.UserID, session)
		if err != nil {
			return model.TrainingSession{}, fmt.Errorf("creating session for %s: %w", session.UserID, err)
		}
		session.ID = key
		return session, nil
	}
	if err := s.store.Put(ctx, sessionPath(session.UserID, session.ID), session); err != nil {
		return model.TrainingSession{}, fmt.Errorf("updating session %s: %w", session.ID, err)
	}
	return session, nil
}

// All returns every session of a user, in store order. Read failures are
// logged and degrade to an empty slice; authorization failures propagate.
func (s *Sessions) All(ctx context.Context, userID string) ([]model.TrainingSession, error) {
	docs, err := s.store.GetAll(ctx, sessionsRoot+"/"+userID)
	if err != nil {
		if store.IsUnauthorized(err) {
			return nil, err
		}
		s.log.Warn(ctx, "session fetch failed", logger.String("user", userID), logger.Error(err))
		return []model.TrainingSession{}, nil
	}

	sessions := make([]model.TrainingSession, 0, len(docs))
	for _, doc := range docs {
		var session model.TrainingSession
		if err := json.Unmarshal(doc.Document, &session); err != nil {
			s.log.Warn(ctx, "skipping undecodable session document",
				logger.String("user", userID), logger.String("key", doc.Key), logger.Error(err))
			continue
		}
		session.ID = doc.Key
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// One returns a single session or store.ErrNotFound.
func (s *Sessions) One(ctx context.Context, userID, sessionID string) (model.TrainingSession, error) {
	raw, err := s.store.Get(ctx, sessionPath(userID, sessionID))
	if err != nil {
		return model.TrainingSession{}, err
	}
	var session model.TrainingSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return model.TrainingSession{}, fmt.Errorf("decoding session %s: %w", sessionID, err)
	}
	session.ID = sessionID
	return session, nil
}

// Delete removes one session document.
func (s *Sessions) Delete(ctx context.Context, userID, sessionID string) error {
	if err := s.store.Delete(ctx, sessionPath(userID, sessionID)); err != nil {
		return fmt.Errorf("deleting session %s: %w", sessionID, err)
	}
	return nil
}

// RoutesByPanel returns the panel's routes sorted by difficulty. Even
// though the backend path already scopes by panel, the result is filtered
// again so every returned route truly belongs to panelID.
func (s *Sessions) RoutesByPanel(ctx context.Context, panelID string) ([]model.ClimbingRoute, error) {
	docs, err := s.store.GetAll(ctx, routesRoot+"/"+panelID)
	if err != nil {
		if store.IsUnauthorized(err) {
			return nil, err
		}
		s.log.Warn(ctx, "route fetch failed", logger.String("panel", panelID), logger.Error(err))
		return []model.ClimbingRoute{}, nil
	}

	all := decodeRoutes(ctx, s.log, panelID, docs)
	routes := all[:0]
	for _, route := range all {
		if route.PanelType == panelID {
			routes = append(routes, route)
		}
	}
	sortByDifficulty(routes)
	return routes, nil
}

// PreviousAttempts sums a user's attempts per route across all historical
// sessions on one panel, regardless of the completed flag. The result
// seeds the attempt counters of a new training session.
func (s *Sessions) PreviousAttempts(ctx context.Context, panelID, userID string) (map[string]int, error) {
	sessions, err := s.All(ctx, userID)
	if err != nil {
		return nil, err
	}

	attempts := make(map[string]int)
	for _, session := range sessions {
		if session.PanelType != panelID {
			continue
		}
		for _, cr := range session.CompletedRoutes {
			attempts[cr.RouteID] += cr.Attempts
		}
	}
	return attempts, nil
}

func sessionPath(userID, sessionID string) string {
	return fmt.Sprintf("%s/%s/%s", sessionsRoot, userID, sessionID)
}
