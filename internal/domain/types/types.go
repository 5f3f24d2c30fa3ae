// Package types contains common types shared between the aggregation
// engine, the app service and the HTTP layer.
package types

import (
	"time"

	"github.com/betalog/betalog/internal/domain/model"
)

// Summary holds the dashboard headline counters.
type Summary struct {
	TotalSessions         int           `json:"totalSessions"`
	TotalRoutesAttempted  int           `json:"totalRoutesAttempted"`
	TotalRoutesCompleted  int           `json:"totalRoutesCompleted"`
	CompletionRate        float64       `json:"completionRate"` // percent
	TotalTrainingTime     time.Duration `json:"totalTrainingTime"`
	AverageSessionMinutes float64       `json:"averageSessionMinutes"`
}

// FrequencyPoint is one day of the training frequency series.
type FrequencyPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD, local date
	Count int    `json:"count"`
}

// Dashboard bundles every aggregation output for one user.
type Dashboard struct {
	Summary                     Summary                 `json:"summary"`
	Frequency                   []FrequencyPoint        `json:"frequency"`
	DifficultyDistribution      map[int]int             `json:"difficultyDistribution"`
	CompletionRateByDifficulty  map[int]int             `json:"completionRateByDifficulty"`
	AverageAttemptsByDifficulty map[int]float64         `json:"averageAttemptsByDifficulty"`
	TimeByWeekday               map[string]int          `json:"timeByWeekday"` // minutes, keys Monday..Sunday
	RecentSessions              []model.TrainingSession `json:"recentSessions"`
}
