// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/betalog/betalog/internal/domain/model"
	"github.com/betalog/betalog/internal/domain/recorder"
)

// TrainingDependencies defines the interface for the live recorder.
type TrainingDependencies interface {
	StartTraining(ctx context.Context, panelType string) (recorder.Status, error)
	SelectRoute(routeID string) error
	ToggleCompleted(routeID string) error
	IncrementAttempts(routeID string) error
	DecrementAttempts(routeID string) error
	TrainingState() (recorder.Status, error)
	EndTraining(ctx context.Context, save bool) (*model.TrainingSession, error)
}

// TrainingHandler handles live training session requests.
type TrainingHandler struct {
	deps TrainingDependencies
}

// NewTrainingHandler creates a new training handler.
func NewTrainingHandler(deps TrainingDependencies) *TrainingHandler {
	return &TrainingHandler{deps: deps}
}

type startRequest struct {
	PanelType string `json:"panelType"`
}

func (s startRequest) validate() error {
	if strings.TrimSpace(s.PanelType) == "" {
		return errors.New("missing panelType")
	}
	return nil
}

type routeRequest struct {
	RouteID string `json:"routeId"`
}

func (r routeRequest) validate() error {
	if strings.TrimSpace(r.RouteID) == "" {
		return errors.New("missing routeId")
	}
	return nil
}

type attemptsRequest struct {
	RouteID string `json:"routeId"`
	Delta   int    `json:"delta"`
}

func (a attemptsRequest) validate() error {
	switch {
	case strings.TrimSpace(a.RouteID) == "":
		return errors.New("missing routeId")
	case a.Delta != 1 && a.Delta != -1:
		return errors.New("delta must be 1 or -1")
	}
	return nil
}

type endRequest struct {
	Save bool `json:"save"`
}

type endResponse struct {
	Status  string                 `json:"status"`
	Session *model.TrainingSession `json:"session,omitempty"`
}

// HandleStart handles POST /training/start requests.
func (h *TrainingHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	status, err := h.deps.StartTraining(r.Context(), req.PanelType)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, status)
}

// HandleGetState handles GET /training requests.
func (h *TrainingHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	status, err := h.deps.TrainingState()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// HandleSelect handles POST /training/select requests.
func (h *TrainingHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	h.routeCommand(w, r, h.deps.SelectRoute)
}

// HandleToggle handles POST /training/toggle requests.
func (h *TrainingHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	h.routeCommand(w, r, h.deps.ToggleCompleted)
}

// HandleAttempts handles POST /training/attempts requests. The delta
// field picks the direction, one attempt at a time.
func (h *TrainingHandler) HandleAttempts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req attemptsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	var err error
	if req.Delta > 0 {
		err = h.deps.IncrementAttempts(req.RouteID)
	} else {
		err = h.deps.DecrementAttempts(req.RouteID)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.writeState(w)
}

// HandleEnd handles POST /training/end requests.
func (h *TrainingHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req endRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	saved, err := h.deps.EndTraining(r.Context(), req.Save)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if saved == nil {
		writeJSON(w, http.StatusOK, endResponse{Status: "discarded"})
		return
	}
	writeJSON(w, http.StatusOK, endResponse{Status: "saved", Session: saved})
}

// routeCommand decodes the shared single-route request shape, applies
// cmd and answers with the refreshed recorder state.
func (h *TrainingHandler) routeCommand(w http.ResponseWriter, r *http.Request, cmd func(string) error) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := cmd(req.RouteID); err != nil {
		writeDomainError(w, err)
		return
	}
	h.writeState(w)
}

func (h *TrainingHandler) writeState(w http.ResponseWriter) {
	status, err := h.deps.TrainingState()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
