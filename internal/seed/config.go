package seed

import "time"

// Config holds configuration for the catalog and history seeder.
type Config struct {
	StoreBaseURL   string        // Remote document store root
	AuthToken      string        // Document store auth token
	UserID         string        // User receiving the generated history
	Panels         int           // Number of wall panels to create
	RoutesPerPanel int           // Routes generated per panel
	Sessions       int           // Historical training sessions to generate
	HistoryDays    int           // Sessions are spread over this many past days
	Timeout        time.Duration // HTTP request timeout
	Verbose        bool          // Enable verbose logging
}

// Stats holds seeding statistics.
type Stats struct {
	PanelsCreated   int
	RoutesCreated   int
	SessionsCreated int
	WriteFailures   int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
