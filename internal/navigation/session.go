package navigation

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rikshrestha/freshair-hikes/internal/shared/geo"
)

type State string

const (
	StateActive  State = "active"
	StatePaused  State = "paused"
	StateArrived State = "arrived"
	StateEnded   State = "ended"
)

var (
	ErrSessionNotFound = errors.New("navigation session not found")
	ErrSessionEnded    = errors.New("navigation session already ended")
)

// Session is the value object replacing the app's old global "current
// navigation" singleton; the manager owns its lifecycle.
type Session struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	TrailID       string     `json:"trail_id,omitempty"`
	TrailName     string     `json:"trail_name,omitempty"`
	Mode          string     `json:"mode"`
	Start         geo.LatLng `json:"start"`
	Destination   geo.LatLng `json:"destination"`
	Route         Route      `json:"route"`
	State         State      `json:"state"`
	OffRoute      bool       `json:"off_route"`
	StartedAt     time.Time  `json:"started_at"`
	LastRerouteAt time.Time  `json:"last_reroute_at,omitempty"`
}

// Progress is recomputed from the immutable route plus the latest live
// position on every tick; it is never persisted.
type Progress struct {
	SessionID    string  `json:"session_id"`
	State        State   `json:"state"`
	TraveledMi   float64 `json:"traveled_mi"`
	RemainingMi  float64 `json:"remaining_mi"`
	TotalMi      float64 `json:"total_mi"`
	NearestIndex int     `json:"nearest_index"`
	OffRoute     bool    `json:"off_route"`
	Arrived      bool    `json:"arrived"`
	NextStep     *Step   `json:"next_step,omitempty"`
	// RerouteSuggested is set when the position is off-route and the
	// reroute cooldown has lapsed; the caller decides whether to act.
	RerouteSuggested bool `json:"reroute_suggested"`
}

// Manager holds active sessions in memory, one serial update stream each.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	nowFn    func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		sessions: map[string]*Session{},
		nowFn:    time.Now,
	}
}

func (m *Manager) Start(userID string, trailID, trailName, mode string, start, destination geo.LatLng, route Route) *Session {
	s := &Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		TrailID:     trailID,
		TrailName:   trailName,
		Mode:        mode,
		Start:       start,
		Destination: destination,
		Route:       route,
		State:       StateActive,
		StartedAt:   m.nowFn(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

func (m *Manager) Get(id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return *s, nil
}

// Tick folds one live position into the session. Paused and finished
// sessions ignore ticks and just report their state.
func (m *Manager) Tick(id string, pos geo.LatLng) (Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Progress{}, ErrSessionNotFound
	}
	if s.State != StateActive {
		return Progress{SessionID: s.ID, State: s.State, OffRoute: s.OffRoute, TotalMi: s.Route.TotalMiles()}, nil
	}

	total := s.Route.TotalMiles()
	traveled := TraveledMiles(s.Route, pos)
	remaining := RemainingMiles(s.Route, &pos, total)
	offRoute := IsOffRoute(s.Route, pos)
	arrived := IsArrived(s.Route, pos, remaining)

	s.OffRoute = offRoute
	if arrived {
		s.State = StateArrived
	}

	return Progress{
		SessionID:    s.ID,
		State:        s.State,
		TraveledMi:   traveled,
		RemainingMi:  remaining,
		TotalMi:      total,
		NearestIndex: geo.NearestPointIndex(pos, s.Route.Coords),
		OffRoute:     offRoute,
		Arrived:      arrived,
		NextStep:     NextStep(s.Route, &pos),
		RerouteSuggested: offRoute &&
			RerouteEligible(s.LastRerouteAt, m.nowFn(), RerouteCooldown),
	}, nil
}

func (m *Manager) Pause(id string) error {
	return m.transition(id, StatePaused, StateActive)
}

func (m *Manager) Resume(id string) error {
	return m.transition(id, StateActive, StatePaused)
}

func (m *Manager) End(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	s.State = StateEnded
	return nil
}

// Discard removes the session entirely ("start over").
func (m *Manager) Discard(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// RerouteAllowed checks the cooldown without consuming it.
func (m *Manager) RerouteAllowed(id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return false, ErrSessionNotFound
	}
	return RerouteEligible(s.LastRerouteAt, m.nowFn(), RerouteCooldown), nil
}

// ApplyReroute swaps in a freshly fetched route and records the attempt
// time for throttling.
func (m *Manager) ApplyReroute(id string, route Route) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if s.State == StateEnded {
		return ErrSessionEnded
	}
	s.Route = route
	s.OffRoute = false
	s.LastRerouteAt = m.nowFn()
	return nil
}

func (m *Manager) transition(id string, to, from State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if s.State != from {
		return ErrSessionEnded
	}
	s.State = to
	return nil
}
