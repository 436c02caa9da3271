package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"short-url-client/eventlog"
	"short-url-client/model"
	"short-url-client/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrNoClipboard is returned by CopyLink when no clipboard is wired
var ErrNoClipboard = errors.New("clipboard unavailable")

// Session is one page load of the client
type Session struct {
	ID string

	opts     Options
	code     string
	state    *State
	events   *eventlog.Log
	syncer   *Syncer
	resolver *Resolver
	logger   zerolog.Logger

	mu     sync.Mutex // Guards poller and closed; Start and Close may run on different goroutines
	poller *Poller
	closed bool

	inflight atomic.Int32 // Outstanding shorten requests
}

// NewSession classifies path and prepares a session in the matching mode
func NewSession(opts Options, path string) *Session {
	opts = opts.withDefaults()

	code := utils.ClassifyPath(path, opts.MountPrefix)
	mode := model.ModeDashboard
	if code != "" {
		mode = model.ModeRedirecting
	}

	id := uuid.New().String()
	state := NewState(mode)
	s := &Session{
		ID:     id,
		opts:   opts,
		code:   code,
		state:  state,
		events: opts.Log,
		syncer: NewSyncer(opts.Backend, state, opts.PollInterval),
		logger: log.With().Str("session_id", id).Logger(),
	}
	if code != "" {
		s.resolver = NewResolver(code, utils.RootPath(opts.MountPrefix), opts.Backend, state, opts.Log, opts.Navigator)
	}
	return s
}

// Start runs the page-load sequence: announce the backend, resolve the code when in
// redirect mode, then start the sync loop unless the session navigated away.
// Close stops the loop.
func (s *Session) Start(ctx context.Context) {
	s.events.System(fmt.Sprintf("Configured API: %s", s.opts.Backend.BaseURL()))
	s.logger.Info().
		Str("mode", s.state.Mode().String()).
		Str("short_code", s.code).
		Msg("Session started")

	s.Resolve(ctx)

	if s.state.Mode() != model.ModeDashboard {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.poller == nil && !s.closed {
		s.poller = s.syncer.Start(ctx)
	}
}

// Resolve runs the redirect resolver. Dashboard sessions have nothing to resolve.
func (s *Session) Resolve(ctx context.Context) model.ResolverState {
	if s.resolver == nil {
		return model.ResolverIdle
	}
	return s.resolver.Resolve(ctx)
}

// Close stops the sync loop. A Start still in progress will not start one afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	poller := s.poller
	s.mu.Unlock()

	poller.Stop()
	s.logger.Debug().Msg("Session closed")
}

// Refresh runs one out-of-band sync tick
func (s *Session) Refresh(ctx context.Context) {
	s.syncer.Tick(ctx)
}

func (s *Session) State() *State          { return s.state }
func (s *Session) Log() *eventlog.Log     { return s.events }
func (s *Session) Code() string           { return s.code }
func (s *Session) Mode() model.ClientMode { return s.state.Mode() }

// ResolverState reports how far redirect resolution got
func (s *Session) ResolverState() model.ResolverState {
	if s.resolver == nil {
		return model.ResolverIdle
	}
	return s.resolver.State()
}

// Busy reports whether a shorten request is outstanding.
// UIs use it to disable their trigger; the session itself does not serialize submissions.
func (s *Session) Busy() bool {
	return s.inflight.Load() > 0
}

// ShortLink returns the fully-qualified short link for code
func (s *Session) ShortLink(code string) string {
	return utils.ShortLink(s.opts.Origin, s.opts.MountPrefix, code)
}

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Round(time.Millisecond).Milliseconds()
}
