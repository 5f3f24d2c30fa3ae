package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/betalog/betalog/internal/seed"
	"github.com/betalog/betalog/pkg/logger"
)

// Default configuration constants.
const (
	defaultPanels         = 4
	defaultRoutesPerPanel = 12
	defaultSessions       = 20
	defaultHistoryDays    = 30
	defaultTimeout        = 10 * time.Second
	defaultRunTimeout     = 5 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "", "Base URL of the document store")
		authToken   = flag.String("token", "", "Document store auth token")
		userID      = flag.String("user", "", "User ID receiving the generated training history")
		panels      = flag.Int("panels", defaultPanels, "Number of wall panels to create")
		routes      = flag.Int("routes", defaultRoutesPerPanel, "Routes generated per panel")
		sessions    = flag.Int("sessions", defaultSessions, "Historical training sessions to generate")
		historyDays = flag.Int("days", defaultHistoryDays, "Spread sessions over this many past days")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if *baseURL == "" || *userID == "" {
		os.Stderr.WriteString("both -url and -user are required\n")
		flag.Usage()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &seed.Config{
		StoreBaseURL:   *baseURL,
		AuthToken:      *authToken,
		UserID:         *userID,
		Panels:         *panels,
		RoutesPerPanel: *routes,
		Sessions:       *sessions,
		HistoryDays:    *historyDays,
		Timeout:        *timeout,
		Verbose:        *verbose,
	}

	if err := seed.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
