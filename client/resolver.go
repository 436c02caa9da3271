package client

import (
	"context"
	"fmt"
	"sync"

	"short-url-client/backend"
	"short-url-client/eventlog"
	"short-url-client/model"

	"github.com/rs/zerolog/log"
)

// InvalidShortURLNotice is shown when the backend does not know the requested code
const InvalidShortURLNotice = "Invalid Short URL"

// Resolver turns the short code a session was opened with into a hard navigation.
// It runs at most once and never retries.
type Resolver struct {
	code   string
	root   string
	api    Backend
	state  *State
	events *eventlog.Log
	nav    Navigator

	once    sync.Once
	mu      sync.Mutex
	current model.ResolverState
}

// NewResolver creates an idle resolver for code
func NewResolver(code, root string, api Backend, state *State, events *eventlog.Log, nav Navigator) *Resolver {
	return &Resolver{
		code:   code,
		root:   root,
		api:    api,
		state:  state,
		events: events,
		nav:    nav,
	}
}

// State returns the resolver's progress
func (r *Resolver) State() model.ResolverState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Resolver) setState(s model.ResolverState) {
	r.mu.Lock()
	r.current = s
	r.mu.Unlock()
}

// Resolve looks the code up and either navigates to its destination or falls back to
// the dashboard. Later calls return the outcome of the first.
func (r *Resolver) Resolve(ctx context.Context) model.ResolverState {
	r.once.Do(func() {
		r.resolve(ctx)
	})
	return r.State()
}

func (r *Resolver) resolve(ctx context.Context) {
	r.setState(model.ResolverResolving)
	r.events.System(fmt.Sprintf("Attempting redirect for code: %s", r.code))

	resp, err := r.api.Lookup(ctx, r.code)
	switch {
	case err == nil && resp.Location != "":
		r.setState(model.ResolverNavigated)
		log.Info().Str("short_code", r.code).Str("location", resp.Location).Msg("Redirecting")
		r.nav.Navigate(resp.Location)

	case err == nil && resp.Detail != "":
		r.fallBack(fmt.Errorf("%w: %s", backend.ErrUnknownCode, resp.Detail), true)

	case err == nil:
		r.fallBack(backend.ErrUnknownCode, true)

	default:
		r.fallBack(err, backend.IsUnknownCode(err))
	}
}

// fallBack returns the client to the dashboard. Only an unknown code raises the
// user-visible notice; transport failures and other rejections are logged only.
func (r *Resolver) fallBack(err error, unknown bool) {
	r.setState(model.ResolverFellBack)
	r.events.Error(fmt.Sprintf("Redirect Error: %v", err))
	log.Warn().Err(err).Str("short_code", r.code).Bool("unknown_code", unknown).Msg("Redirect failed")

	r.state.FallBack()
	r.nav.ReplacePath(r.root)
	if unknown {
		r.nav.Alert(InvalidShortURLNotice)
	}
}
