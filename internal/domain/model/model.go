// Package model contains domain models passed between layers.
package model

import "time"

// ClimbingRoute is one route on a wall panel. Routes are partitioned by
// panel type in the document store under routes/{panelType}/{id}.
type ClimbingRoute struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	ColorHex    string    `json:"colorHex,omitempty"`
	Difficulty  int       `json:"difficulty"` // 1..9, aggregation bucket key
	PanelType   string    `json:"panelType"`
	CreatedDate time.Time `json:"createdDate"`
	IsActive    bool      `json:"isActive"`
}

// EffectiveColorHex returns the stored hex value, falling back to the
// color-name lookup table when the document carries none.
func (r ClimbingRoute) EffectiveColorHex() string {
	if r.ColorHex != "" {
		return r.ColorHex
	}
	return ColorHexFor(r.Color)
}

// CompletedRoute records one attempted route within one training session.
// Attempts holds only this session's delta, not the cumulative total.
type CompletedRoute struct {
	RouteID   string `json:"routeId"`
	Completed bool   `json:"completed"`
	Attempts  int    `json:"attempts"`
}

// TrainingSession is one recorded training, stored under
// trainingSessions/{userId}/{id}. Sessions are created once at the end of
// a training and are delete-only afterward.
type TrainingSession struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId"`
	PanelType       string           `json:"panelType"`
	Timestamp       time.Time        `json:"timestamp"`
	Duration        time.Duration    `json:"duration"`
	CompletedRoutes []CompletedRoute `json:"completedRoutes"`
}

// TotalRoutes returns the number of routes attempted in the session.
func (s TrainingSession) TotalRoutes() int {
	return len(s.CompletedRoutes)
}

// CompletedRoutesCount returns the number of routes completed in the session.
func (s TrainingSession) CompletedRoutesCount() int {
	n := 0
	for _, cr := range s.CompletedRoutes {
		if cr.Completed {
			n++
		}
	}
	return n
}
