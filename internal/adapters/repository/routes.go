// Package repository provides route and training-session access over the
// remote document store, including the panel catalog cache.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/betalog/betalog/internal/adapters/store"
	"github.com/betalog/betalog/internal/domain/model"
	"github.com/betalog/betalog/pkg/logger"
)

// Routes fetches and orders climbing routes per panel.
type Routes struct {
	store   store.Store
	catalog *catalog
	log     logger.Logger
	now     func() time.Time
	ttl     time.Duration
}

// RoutesOption applies a configuration option to the Routes repository.
type RoutesOption func(*Routes)

// WithCatalogTTL sets the panel catalog cache lifetime.
func WithCatalogTTL(ttl time.Duration) RoutesOption {
	return func(r *Routes) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithRoutesNow injects the clock used for cache expiry.
func WithRoutesNow(now func() time.Time) RoutesOption {
	return func(r *Routes) {
		if now != nil {
			r.now = now
		}
	}
}

// WithRoutesLogger sets the repository logger.
func WithRoutesLogger(log logger.Logger) RoutesOption {
	return func(r *Routes) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRoutes creates a route repository over the given store.
func NewRoutes(s store.Store, opts ...RoutesOption) *Routes {
	r := &Routes{
		store: s,
		log:   logger.Nop(),
		now:   time.Now,
		ttl:   defaultCatalogTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.catalog = newCatalog(s, r.ttl, r.now, r.log)
	return r
}

// PanelTypes returns the catalog of panel types, served from cache within
// the TTL. Authorization failures propagate; any other failure degrades
// to an empty list so navigation never crashes on missing panel data.
func (r *Routes) PanelTypes(ctx context.Context) ([]string, error) {
	panels, err := r.catalog.panelTypes(ctx)
	if err != nil {
		if store.IsUnauthorized(err) {
			return nil, err
		}
		return []string{}, nil
	}
	return panels, nil
}

// RoutesByPanel returns one panel's routes sorted ascending by difficulty.
// Read failures are logged and degrade to an empty slice; authorization
// failures propagate so the caller can prompt for sign-in.
func (r *Routes) RoutesByPanel(ctx context.Context, panelType string) ([]model.ClimbingRoute, error) {
	docs, err := r.store.GetAll(ctx, routesRoot+"/"+panelType)
	if err != nil {
		if store.IsUnauthorized(err) {
			return nil, err
		}
		r.log.Warn(ctx, "route fetch failed", logger.String("panel", panelType), logger.Error(err))
		return []model.ClimbingRoute{}, nil
	}
	routes := decodeRoutes(ctx, r.log, panelType, docs)
	sortByDifficulty(routes)
	return routes, nil
}

// AllRoutes merges every panel's routes into one list sorted ascending by
// difficulty. Panels are fetched concurrently; the merge preserves panel
// order so ties keep a deterministic relative order.
func (r *Routes) AllRoutes(ctx context.Context) ([]model.ClimbingRoute, error) {
	panels, err := r.PanelTypes(ctx)
	if err != nil {
		return nil, err
	}

	perPanel := make([][]model.ClimbingRoute, len(panels))
	g, gctx := errgroup.WithContext(ctx)
	for i, panel := range panels {
		i, panel := i, panel
		g.Go(func() error {
			routes, err := r.RoutesByPanel(gctx, panel)
			if err != nil {
				return err
			}
			perPanel[i] = routes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []model.ClimbingRoute
	for _, routes := range perPanel {
		merged = append(merged, routes...)
	}
	sortByDifficulty(merged)
	return merged, nil
}

// Route returns a single route or store.ErrNotFound.
func (r *Routes) Route(ctx context.Context, panelType, routeID string) (model.ClimbingRoute, error) {
	raw, err := r.store.Get(ctx, routePath(panelType, routeID))
	if err != nil {
		return model.ClimbingRoute{}, err
	}
	var route model.ClimbingRoute
	if err := json.Unmarshal(raw, &route); err != nil {
		return model.ClimbingRoute{}, fmt.Errorf("decoding route %s/%s: %w", panelType, routeID, err)
	}
	route.ID = routeID
	return route, nil
}

// CreateRoute writes a new route. When the record carries no id the store
// assigns one; the returned route always has its id set.
func (r *Routes) CreateRoute(ctx context.Context, route model.ClimbingRoute) (model.ClimbingRoute, error) {
	if route.ColorHex == "" {
		route.ColorHex = model.ColorHexFor(route.Color)
	}
	if route.ID == "" {
		key, err := r.store.Post(ctx, routesRoot+"/"+route.PanelType, route)
		if err != nil {
			return model.ClimbingRoute{}, fmt.Errorf("creating route on %s: %w", route.PanelType, err)
		}
		route.ID = key
		return route, nil
	}
	if err := r.store.Put(ctx, routePath(route.PanelType, route.ID), route); err != nil {
		return model.ClimbingRoute{}, fmt.Errorf("creating route %s/%s: %w", route.PanelType, route.ID, err)
	}
	return route, nil
}

// UpdateRoute replaces an existing route document.
func (r *Routes) UpdateRoute(ctx context.Context, route model.ClimbingRoute) error {
	if err := r.store.Put(ctx, routePath(route.PanelType, route.ID), route); err != nil {
		return fmt.Errorf("updating route %s/%s: %w", route.PanelType, route.ID, err)
	}
	return nil
}

// DeleteRoute removes a route document.
func (r *Routes) DeleteRoute(ctx context.Context, panelType, routeID string) error {
	if err := r.store.Delete(ctx, routePath(panelType, routeID)); err != nil {
		return fmt.Errorf("deleting route %s/%s: %w", panelType, routeID, err)
	}
	return nil
}

func routePath(panelType, routeID string) string {
	return fmt.Sprintf("%s/%s/%s", routesRoot, panelType, routeID)
}

// decodeRoutes turns keyed documents into routes, using the document key
// as the id. Undecodable documents are logged and skipped.
func decodeRoutes(ctx context.Context, log logger.Logger, panelType string, docs []store.KeyedDocument) []model.ClimbingRoute {
	routes := make([]model.ClimbingRoute, 0, len(docs))
	for _, doc := range docs {
		var route model.ClimbingRoute
		if err := json.Unmarshal(doc.Document, &route); err != nil {
			log.Warn(ctx, "skipping undecodable route document",
				logger.String("panel", panelType), logger.String("key", doc.Key), logger.Error(err))
			continue
		}
		route.ID = doc.Key
		routes = append(routes, route)
	}
	return routes
}

func sortByDifficulty(routes []model.ClimbingRoute) {
	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].Difficulty < routes[j].Difficulty
	})
}
