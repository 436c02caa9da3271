package client

import (
	"context"
	"sync"
	"time"

	"short-url-client/model"

	"github.com/rs/zerolog/log"
)

// Syncer keeps the session's snapshots of links and analytics fresh.
// Every fetch is best-effort: a failure leaves the previous snapshot in place.
type Syncer struct {
	api      Backend
	state    *State
	interval time.Duration
}

// NewSyncer creates a syncer that refreshes state from api every interval
func NewSyncer(api Backend, state *State, interval time.Duration) *Syncer {
	return &Syncer{api: api, state: state, interval: interval}
}

// Tick runs one refresh. It is a no-op while the client is redirecting.
func (s *Syncer) Tick(ctx context.Context) {
	if s.state.Mode() == model.ModeRedirecting {
		return
	}

	if links, err := s.api.Links(ctx); err != nil {
		log.Debug().Err(err).Msg("Polling links failed - backend might be sleeping")
	} else {
		s.state.ReplaceLinks(links)
	}

	if points, err := s.api.Analytics(ctx); err != nil {
		log.Debug().Err(err).Msg("Polling analytics failed - backend might be sleeping")
	} else {
		s.state.ReplaceAnalytics(points)
	}
}

// Start ticks once right away and then every interval until the returned poller is stopped
// or ctx is done.
func (s *Syncer) Start(ctx context.Context) *Poller {
	ctx, cancel := context.WithCancel(ctx)
	p := &Poller{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(p.done)

		s.Tick(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Tick(ctx)
			}
		}
	}()

	return p
}

// Poller is the handle of a running sync loop
type Poller struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Stop cancels the loop, including an in-flight tick, and waits for it to exit.
// It is safe to call more than once.
func (p *Poller) Stop() {
	if p == nil {
		return
	}
	p.once.Do(p.cancel)
	<-p.done
}
