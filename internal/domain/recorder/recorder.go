// Package recorder tracks an in-progress training session: elapsed time,
// per-route attempt counters, completion toggles and the single selected
// route. It is a state machine Idle -> Active -> Ended; Ended is terminal
// and the instance is discarded afterward.
package recorder

import (
	"sync"
	"time"

	"github.com/betalog/betalog/internal/domain/model"
)

// State is the recorder lifecycle state.
type State int

const (
	StateIdle State = iota
	StateActive
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// RouteState is the observable per-route state shown during a session.
// Attempts is the cumulative display counter (seed plus this session).
type RouteState struct {
	Route            model.ClimbingRoute `json:"route"`
	Attempts         int                 `json:"attempts"`
	PreviousAttempts int                 `json:"previousAttempts"`
	Completed        bool                `json:"completed"`
	Selected         bool                `json:"selected"`
}

// Status is a point-in-time snapshot of the recorder.
type Status struct {
	State     string        `json:"state"`
	PanelType string        `json:"panelType"`
	Elapsed   time.Duration `json:"elapsed"`
	Routes    []RouteState  `json:"routes"`
}

// Recorder is the session state machine. The tick is cooperative: the
// owner calls Tick once per second while the recorder is active, so no
// goroutine or timer lives inside.
type Recorder struct {
	mu sync.Mutex

	state     State
	panelType string
	userID    string

	routes   []RouteState
	index    map[string]int // route id -> position in routes
	selected string         // selected route id, empty when none

	elapsed   time.Duration
	startedAt time.Time
	now       func() time.Time

	draft *model.TrainingSession // built once by End
}

// Option applies a configuration option to the Recorder.
type Option func(*Recorder)

// WithNow injects the clock used for start and save timestamps.
func WithNow(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates an idle recorder for one panel. Attempt counters are seeded
// from the user's previous attempts on that panel.
func New(panelType, userID string, routes []model.ClimbingRoute, previousAttempts map[string]int, opts ...Option) *Recorder {
	r := &Recorder{
		state:     StateIdle,
		panelType: panelType,
		userID:    userID,
		index:     make(map[string]int, len(routes)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	for i, route := range routes {
		seed := previousAttempts[route.ID]
		r.routes = append(r.routes, RouteState{
			Route:            route,
			Attempts:         seed,
			PreviousAttempts: seed,
		})
		r.index[route.ID] = i
	}
	return r
}

// Select marks routeID as the selected route, deselecting any previous
// one. The first selection moves the recorder from Idle to Active and
// starts the elapsed-time clock.
func (r *Recorder) Select(routeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateEnded {
		return ErrEnded
	}
	i, ok := r.index[routeID]
	if !ok {
		return ErrUnknownRoute
	}

	if r.state == StateIdle {
		r.state = StateActive
		r.startedAt = r.now()
	}

	if r.selected != "" {
		r.routes[r.index[r.selected]].Selected = false
	}
	r.routes[i].Selected = true
	r.selected = routeID
	return nil
}

// ToggleCompleted flips a route's completion flag. Completing increments
// the attempt counter by one; un-completing decrements it, but never below
// the seeded previous-attempts value.
func (r *Recorder) ToggleCompleted(routeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, err := r.activeRoute(routeID)
	if err != nil {
		return err
	}
	rs := &r.routes[i]
	if rs.Completed {
		rs.Completed = false
		if rs.Attempts > rs.PreviousAttempts {
			rs.Attempts--
		}
	} else {
		rs.Completed = true
		rs.Attempts++
	}
	return nil
}

// IncrementAttempts bumps a route's attempt counter by one.
func (r *Recorder) IncrementAttempts(routeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, err := r.activeRoute(routeID)
	if err != nil {
		return err
	}
	r.routes[i].Attempts++
	return nil
}

// DecrementAttempts lowers a route's attempt counter by one, floored at
// zero. The floor intentionally differs from the toggle's: the manual
// control may dip below the seeded value.
func (r *Recorder) DecrementAttempts(routeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, err := r.activeRoute(routeID)
	if err != nil {
		return err
	}
	if r.routes[i].Attempts > 0 {
		r.routes[i].Attempts--
	}
	return nil
}

// Tick advances the elapsed clock by one second. No-op unless Active.
func (r *Recorder) Tick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateActive {
		r.elapsed += time.Second
	}
}

// Elapsed returns the session's elapsed time.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsed
}

// State returns the current lifecycle state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Snapshot returns the observable state for presentation.
func (r *Recorder) Snapshot() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	routes := make([]RouteState, len(r.routes))
	copy(routes, r.routes)
	return Status{
		State:     r.state.String(),
		PanelType: r.panelType,
		Elapsed:   r.elapsed,
		Routes:    routes,
	}
}

// End stops the recorder and builds the session draft. With no selected
// route the draft is nil and the session is discarded. The draft holds
// exactly one completed-route entry for the selected route, with attempts
// reduced to this session's delta over the seed. End is idempotent: later
// calls return the same draft without side effects, which makes the
// teardown/end-training race safe.
func (r *Recorder) End() *model.TrainingSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateEnded {
		return r.draft
	}
	r.state = StateEnded

	if r.selected == "" {
		return nil
	}

	rs := r.routes[r.index[r.selected]]
	delta := rs.Attempts - rs.PreviousAttempts
	if delta < 0 {
		// Manual decrements may dip below the seed; a session never
		// records negative attempts.
		delta = 0
	}
	r.draft = &model.TrainingSession{
		UserID:    r.userID,
		PanelType: r.panelType,
		Timestamp: r.now(),
		Duration:  r.elapsed,
		CompletedRoutes: []model.CompletedRoute{{
			RouteID:   rs.Route.ID,
			Completed: rs.Completed,
			Attempts:  delta,
		}},
	}
	return r.draft
}

// activeRoute validates that the recorder accepts commands and routeID is
// known. Callers hold the lock.
func (r *Recorder) activeRoute(routeID string) (int, error) {
	if r.state == StateEnded {
		return 0, ErrEnded
	}
	if r.state != StateActive {
		return 0, ErrNotActive
	}
	i, ok := r.index[routeID]
	if !ok {
		return 0, ErrUnknownRoute
	}
	return i, nil
}
