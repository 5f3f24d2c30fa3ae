// Package seed populates a document store with a realistic climbing wall
// catalog and training history for demos and manual testing.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/betalog/betalog/internal/adapters/repository"
	"github.com/betalog/betalog/internal/adapters/store"
	"github.com/betalog/betalog/internal/auth"
	"github.com/betalog/betalog/pkg/logger"
)

// Run seeds the configured document store. Individual write failures are
// counted and logged but do not stop the run; only a fully failed run
// returns an error.
func Run(ctx context.Context, config *Config) error {
	log := logger.Get().Named("seed")
	stats := &Stats{StartTime: time.Now()}

	creds := auth.NewStatic(config.UserID, config.AuthToken)
	st := store.NewREST(config.StoreBaseURL, creds, store.WithTimeout(config.Timeout))
	routesRepo := repository.NewRoutes(st, repository.WithRoutesLogger(log.Named("routes")))
	sessionsRepo := repository.NewSessions(st, repository.WithSessionsLogger(log.Named("sessions")))

	log.Info(ctx, "seeding catalog",
		logger.String("url", config.StoreBaseURL),
		logger.Int("panels", config.Panels),
		logger.Int("routesPerPanel", config.RoutesPerPanel),
		logger.Int("sessions", config.Sessions))

	panels := generatePanels(config.Panels)
	for _, panel := range panels {
		written := 0
		for i := 0; i < config.RoutesPerPanel; i++ {
			route := generateRoute(panel, i)
			if _, err := routesRepo.CreateRoute(ctx, route); err != nil {
				stats.WriteFailures++
				log.Warn(ctx, "route write failed",
					logger.String("panel", panel), logger.Error(err))
				continue
			}
			stats.RoutesCreated++
			written++
			if config.Verbose {
				log.Debug(ctx, "route created",
					logger.String("panel", panel), logger.String("name", route.Name))
			}
		}
		if written > 0 {
			stats.PanelsCreated++
		}
	}

	if err := seedSessions(ctx, config, sessionsRepo, routesRepo, panels, stats, log); err != nil {
		return err
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	log.Info(ctx, "seeding finished",
		logger.Int("panelsCreated", stats.PanelsCreated),
		logger.Int("routesCreated", stats.RoutesCreated),
		logger.Int("sessionsCreated", stats.SessionsCreated),
		logger.Int("writeFailures", stats.WriteFailures),
		logger.Duration("took", stats.Duration))

	if stats.RoutesCreated == 0 && config.RoutesPerPanel > 0 {
		return fmt.Errorf("%w: no routes could be written", ErrSeedFailed)
	}
	return nil
}

func seedSessions(
	ctx context.Context,
	config *Config,
	sessions *repository.Sessions,
	routes *repository.Routes,
	panels []string,
	stats *Stats,
	log logger.Logger,
) error {
	if config.Sessions == 0 || len(panels) == 0 {
		return nil
	}

	for i := 0; i < config.Sessions; i++ {
		panel := panels[getRandomInt(len(panels))]
		panelRoutes, err := routes.RoutesByPanel(ctx, panel)
		if err != nil || len(panelRoutes) == 0 {
			stats.WriteFailures++
			log.Warn(ctx, "skipping session; panel has no readable routes",
				logger.String("panel", panel), logger.Error(err))
			continue
		}

		session := generateSession(config.UserID, panel, panelRoutes, config.HistoryDays)
		if _, err := sessions.Save(ctx, session); err != nil {
			stats.WriteFailures++
			log.Warn(ctx, "session write failed",
				logger.String("panel", panel), logger.Error(err))
			continue
		}
		stats.SessionsCreated++
	}

	if stats.SessionsCreated == 0 && config.Sessions > 0 {
		return fmt.Errorf("%w: no sessions could be written", ErrSeedFailed)
	}
	return nil
}
