// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/betalog/betalog/internal/domain/model"
)

// CatalogDependencies defines the interface for wall catalog reads.
type CatalogDependencies interface {
	PanelTypes(ctx context.Context) ([]string, error)
	RoutesForPanel(ctx context.Context, panelType string) ([]model.ClimbingRoute, error)
	AllRoutes(ctx context.Context) ([]model.ClimbingRoute, error)
}

// CatalogHandler handles panel and route catalog requests.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleGetPanels handles GET /panels requests.
func (h *CatalogHandler) HandleGetPanels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	panels, err := h.deps.PanelTypes(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, panels)
}

// HandleGetRoutes handles GET /routes?panel=NAME requests. Without the
// panel parameter every panel's routes are returned merged.
func (h *CatalogHandler) HandleGetRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	var (
		routes []model.ClimbingRoute
		err    error
	)
	if panel := r.URL.Query().Get("panel"); panel != "" {
		routes, err = h.deps.RoutesForPanel(r.Context(), panel)
	} else {
		routes, err = h.deps.AllRoutes(r.Context())
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, routes)
}
