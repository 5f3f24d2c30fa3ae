package seed

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/betalog/betalog/internal/domain/model"
)

// Constants for random number generation.
const (
	randomFloatDivisor  = 1000000
	difficultyCaseCount = 6
)

// Difficulty grade bounds.
const (
	gradeEasyMin     = 1
	gradeEasyRange   = 3
	gradeMediumMin   = 4
	gradeMediumRange = 3
	gradeHardMin     = 7
	gradeHardRange   = 3
)

// Constants for difficulty distribution cases.
const (
	caseEasyRoute   = 0
	caseMediumRoute = 1
	caseHardRoute   = 2
)

// Session generation bounds.
const (
	minSessionMinutes   = 30
	sessionMinutesRange = 90
	maxAttemptsPerRoute = 5
	completionPercent   = 60
	percentDivisor      = 100
)

var panelNames = []string{
	"Verticale", "Strapiombo", "Placca", "Diedro", "Traverso",
	"Spigolo", "Tetto", "Fessura",
}

var routeAdjectives = []string{
	"Crimpy", "Slopey", "Dynamic", "Static", "Technical",
	"Powerful", "Delicate", "Sustained", "Bouldery", "Flowing",
}

var routeNouns = []string{
	"Arete", "Corner", "Traverse", "Roof", "Slab",
	"Crack", "Ladder", "Wave", "Ledge", "Pillar",
}

var routeColors = []string{
	"red", "blue", "green", "yellow", "orange",
	"purple", "black", "white", "pink",
}

// getRandomInt returns a random int in [0, n) using crypto/rand.
func getRandomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generatePanels picks the first n panel names, cycling with a numeric
// suffix when more panels are requested than names exist.
func generatePanels(n int) []string {
	panels := make([]string, n)
	for i := 0; i < n; i++ {
		name := panelNames[i%len(panelNames)]
		if i >= len(panelNames) {
			name += " " + strconv.Itoa(i/len(panelNames)+1)
		}
		panels[i] = name
	}
	return panels
}

// generateRoute creates a single route on the given panel with a varied
// difficulty distribution: mostly easy and medium grades, hard ones rarer.
func generateRoute(panelType string, index int) model.ClimbingRoute {
	color := routeColors[getRandomInt(len(routeColors))]
	name := routeAdjectives[getRandomInt(len(routeAdjectives))] +
		" " + routeNouns[getRandomInt(len(routeNouns))] +
		" #" + strconv.Itoa(index+1)

	return model.ClimbingRoute{
		ID:          uuid.New().String(),
		Name:        name,
		Color:       color,
		ColorHex:    model.ColorHexFor(color),
		Difficulty:  generateVariedDifficulty(),
		PanelType:   panelType,
		CreatedDate: time.Now().UTC(),
		IsActive:    true,
	}
}

// generateVariedDifficulty creates a grade with varied distribution.
func generateVariedDifficulty() int {
	switch getRandomInt(difficultyCaseCount) {
	case caseEasyRoute, caseMediumRoute:
		// Easy (1-3) and medium (4-6) grades are most common.
		if getRandomFloat() < 0.5 {
			return gradeEasyMin + getRandomInt(gradeEasyRange)
		}
		return gradeMediumMin + getRandomInt(gradeMediumRange)
	case caseHardRoute:
		// Hard grades (7-9) are rare.
		return gradeHardMin + getRandomInt(gradeHardRange)
	default:
		return gradeMediumMin + getRandomInt(gradeMediumRange)
	}
}

// generateSession creates one historical training session on a panel,
// touching a random subset of the panel's routes.
func generateSession(userID, panelType string, routes []model.ClimbingRoute, historyDays int) model.TrainingSession {
	daysAgo := getRandomInt(historyDays + 1)
	when := time.Now().AddDate(0, 0, -daysAgo).Add(-time.Duration(getRandomInt(12)) * time.Hour)

	touched := 1 + getRandomInt(len(routes))
	completed := make([]model.CompletedRoute, 0, touched)
	for _, route := range routes[:touched] {
		completed = append(completed, model.CompletedRoute{
			RouteID:   route.ID,
			Completed: getRandomInt(percentDivisor) < completionPercent,
			Attempts:  1 + getRandomInt(maxAttemptsPerRoute),
		})
	}

	minutes := minSessionMinutes + getRandomInt(sessionMinutesRange)
	return model.TrainingSession{
		UserID:          userID,
		PanelType:       panelType,
		Timestamp:       when,
		Duration:        time.Duration(minutes) * time.Minute,
		CompletedRoutes: completed,
	}
}
