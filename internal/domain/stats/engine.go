// Package stats computes dashboard aggregations from training sessions
// joined against route metadata.
package stats

import (
	"context"
	"sort"
	"time"

	"github.com/betalog/betalog/internal/domain/model"
	"github.com/betalog/betalog/internal/domain/types"
	"github.com/betalog/betalog/pkg/metrics"
)

// Default aggregation parameters.
const (
	DefaultFrequencyWindowDays = 30
	DefaultRecentSessionsLimit = 5

	maxCompletionRate = 100
)

// RouteSource resolves the route list for one panel. The repository layer
// implements it; tests supply fakes.
type RouteSource interface {
	RoutesByPanel(ctx context.Context, panelType string) ([]model.ClimbingRoute, error)
}

// Engine computes aggregations over immutable session snapshots. All
// methods treat empty input as empty output and never fail the whole
// computation for an unresolvable route reference.
type Engine struct {
	routes RouteSource
	now    func() time.Time
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithNow injects the clock used for window calculations.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an aggregation engine over the given route source.
func New(routes RouteSource, opts ...Option) *Engine {
	e := &Engine{
		routes: routes,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// panelRoutes caches per-panel route lookups for the duration of a single
// aggregation pass. Each distinct panel is fetched at most once; a failed
// fetch is cached as empty so the pass never retries it.
type panelRoutes struct {
	source  RouteSource
	byPanel map[string]map[string]model.ClimbingRoute
}

func newPanelRoutes(source RouteSource) *panelRoutes {
	return &panelRoutes{
		source:  source,
		byPanel: make(map[string]map[string]model.ClimbingRoute),
	}
}

// difficulty resolves a route's difficulty within its session's panel.
// The second return is false when the route cannot be resolved; callers
// skip such entries.
func (p *panelRoutes) difficulty(ctx context.Context, panelType, routeID string) (int, bool) {
	lookup, ok := p.byPanel[panelType]
	if !ok {
		lookup = make(map[string]model.ClimbingRoute)
		if routes, err := p.source.RoutesByPanel(ctx, panelType); err == nil {
			for _, r := range routes {
				lookup[r.ID] = r
			}
		}
		p.byPanel[panelType] = lookup
	}
	route, ok := lookup[routeID]
	if !ok {
		metrics.RecordAggregationSkippedEntry()
		return 0, false
	}
	return route.Difficulty, true
}

// Summary computes the dashboard headline counters.
func (e *Engine) Summary(sessions []model.TrainingSession) types.Summary {
	defer observe("summary", time.Now())

	var s types.Summary
	s.TotalSessions = len(sessions)
	for _, session := range sessions {
		s.TotalRoutesAttempted += session.TotalRoutes()
		s.TotalRoutesCompleted += session.CompletedRoutesCount()
		s.TotalTrainingTime += session.Duration
	}
	if s.TotalRoutesAttempted > 0 {
		s.CompletionRate = float64(s.TotalRoutesCompleted) / float64(s.TotalRoutesAttempted) * 100
	}
	if s.TotalSessions > 0 {
		s.AverageSessionMinutes = s.TotalTrainingTime.Minutes() / float64(s.TotalSessions)
	}
	return s
}

// FrequencySeries returns one point per calendar date in the trailing
// window [today-windowDays, today], zeros filled for dates without
// sessions. windowDays <= 0 selects the default window.
func (e *Engine) FrequencySeries(sessions []model.TrainingSession, windowDays int) []types.FrequencyPoint {
	defer observe("frequency_series", time.Now())

	if windowDays <= 0 {
		windowDays = DefaultFrequencyWindowDays
	}
	today := localDate(e.now())
	start := today.AddDate(0, 0, -windowDays)

	counts := make(map[string]int)
	for _, session := range sessions {
		date := localDate(session.Timestamp)
		if date.Before(start) || date.After(today) {
			continue
		}
		counts[date.Format(time.DateOnly)]++
	}

	series := make([]types.FrequencyPoint, 0, windowDays+1)
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		series = append(series, types.FrequencyPoint{Date: key, Count: counts[key]})
	}
	return series
}

// DifficultyDistribution counts completed routes per difficulty bucket.
// Entries whose route cannot be resolved are skipped.
func (e *Engine) DifficultyDistribution(ctx context.Context, sessions []model.TrainingSession) map[int]int {
	defer observe("difficulty_distribution", time.Now())

	cache := newPanelRoutes(e.routes)
	dist := make(map[int]int)
	for _, session := range sessions {
		for _, cr := range session.CompletedRoutes {
			if !cr.Completed {
				continue
			}
			if d, ok := cache.difficulty(ctx, session.PanelType, cr.RouteID); ok {
				dist[d]++
			}
		}
	}
	return dist
}

// CompletionRateByDifficulty computes floor(completed*100/attempted) per
// difficulty. Every completed-route entry counts as an attempt regardless
// of its completed flag.
func (e *Engine) CompletionRateByDifficulty(ctx context.Context, sessions []model.TrainingSession) map[int]int {
	defer observe("completion_rate_by_difficulty", time.Now())

	cache := newPanelRoutes(e.routes)
	attempted := make(map[int]int)
	completed := make(map[int]int)
	for _, session := range sessions {
		for _, cr := range session.CompletedRoutes {
			d, ok := cache.difficulty(ctx, session.PanelType, cr.RouteID)
			if !ok {
				continue
			}
			attempted[d]++
			if cr.Completed {
				completed[d]++
			}
		}
	}

	rates := make(map[int]int, len(attempted))
	for d, n := range attempted {
		if n == 0 {
			rates[d] = 0
			continue
		}
		rates[d] = completed[d] * maxCompletionRate / n
	}
	return rates
}

// AverageAttemptsByDifficulty computes the mean attempts per difficulty
// over completed entries only.
func (e *Engine) AverageAttemptsByDifficulty(ctx context.Context, sessions []model.TrainingSession) map[int]float64 {
	defer observe("average_attempts_by_difficulty", time.Now())

	cache := newPanelRoutes(e.routes)
	sums := make(map[int]int)
	counts := make(map[int]int)
	for _, session := range sessions {
		for _, cr := range session.CompletedRoutes {
			if !cr.Completed {
				continue
			}
			d, ok := cache.difficulty(ctx, session.PanelType, cr.RouteID)
			if !ok {
				continue
			}
			sums[d] += cr.Attempts
			counts[d]++
		}
	}

	averages := make(map[int]float64, len(counts))
	for d, n := range counts {
		averages[d] = float64(sums[d]) / float64(n)
	}
	return averages
}

// TimeByWeekday sums training minutes per day of week. All seven buckets
// are present even when zero, Monday first.
func (e *Engine) TimeByWeekday(sessions []model.TrainingSession) map[string]int {
	defer observe("time_by_weekday", time.Now())

	totals := map[string]time.Duration{}
	for _, day := range weekdays() {
		totals[day.String()] = 0
	}
	for _, session := range sessions {
		totals[session.Timestamp.Weekday().String()] += session.Duration
	}

	minutes := make(map[string]int, len(totals))
	for day, total := range totals {
		minutes[day] = int(total.Minutes())
	}
	return minutes
}

// RecentSessions returns the latest n sessions by timestamp descending.
// n <= 0 selects the default limit. The input slice is not mutated.
func (e *Engine) RecentSessions(sessions []model.TrainingSession, n int) []model.TrainingSession {
	defer observe("recent_sessions", time.Now())

	if n <= 0 {
		n = DefaultRecentSessionsLimit
	}
	sorted := make([]model.TrainingSession, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// localDate truncates a timestamp to its local calendar date.
func localDate(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// weekdays returns the week Monday-first to match the dashboard's
// presentation order.
func weekdays() []time.Weekday {
	return []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
}

func observe(computation string, start time.Time) {
	metrics.RecordAggregationDuration(computation, float64(time.Since(start).Milliseconds()))
}
