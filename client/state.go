package client

import (
	"sync"
	"sync/atomic"

	"short-url-client/model"
)

// State is the application state owned by a session.
// Snapshots are swapped whole through atomic pointers, so readers see either the
// previous or the fully replaced collection.
type State struct {
	mu       sync.Mutex
	mode     model.ClientMode
	fellBack bool

	links     atomic.Pointer[[]model.LinkRecord]
	analytics atomic.Pointer[[]model.AnalyticsPoint]
	live      atomic.Bool

	subMu       sync.RWMutex
	subscribers []func()
}

// NewState creates the state with the mode derived at load time
func NewState(mode model.ClientMode) *State {
	return &State{mode: mode}
}

// Mode returns the current client mode
func (s *State) Mode() model.ClientMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// FallBack moves a redirecting client back to the dashboard.
// It succeeds at most once; it reports false when the client was not redirecting.
func (s *State) FallBack() bool {
	s.mu.Lock()
	switch s.mode {
	case model.ModeRedirecting:
		if s.fellBack {
			s.mu.Unlock()
			return false
		}
		s.mode = model.ModeDashboard
		s.fellBack = true
	case model.ModeDashboard:
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()

	s.notify()
	return true
}

// Links returns a copy of the current link snapshot
func (s *State) Links() []model.LinkRecord {
	p := s.links.Load()
	if p == nil {
		return nil
	}
	out := make([]model.LinkRecord, len(*p))
	copy(out, *p)
	return out
}

// Analytics returns a copy of the current analytics snapshot
func (s *State) Analytics() []model.AnalyticsPoint {
	p := s.analytics.Load()
	if p == nil {
		return nil
	}
	out := make([]model.AnalyticsPoint, len(*p))
	copy(out, *p)
	return out
}

// ReplaceLinks swaps in a new link snapshot and marks the client live
func (s *State) ReplaceLinks(links []model.LinkRecord) {
	snapshot := make([]model.LinkRecord, len(links))
	copy(snapshot, links)
	s.links.Store(&snapshot)
	s.live.Store(true)
	s.notify()
}

// ReplaceAnalytics swaps in a new analytics snapshot
func (s *State) ReplaceAnalytics(points []model.AnalyticsPoint) {
	snapshot := make([]model.AnalyticsPoint, len(points))
	copy(snapshot, points)
	s.analytics.Store(&snapshot)
	s.notify()
}

// Live reports whether at least one link sync has succeeded
func (s *State) Live() bool {
	return s.live.Load()
}

// Status is the connection indicator shown to the operator
func (s *State) Status() string {
	if s.Live() {
		return "live"
	}
	return "connecting"
}

// Subscribe registers fn to be called after every state change.
// fn must not block.
func (s *State) Subscribe(fn func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *State) notify() {
	s.subMu.RLock()
	subscribers := make([]func(), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.subMu.RUnlock()

	for _, fn := range subscribers {
		fn()
	}
}
