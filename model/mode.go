package model

// ClientMode tells whether a session renders the dashboard or resolves a short code
type ClientMode int

const (
	ModeDashboard ClientMode = iota
	ModeRedirecting
)

func (m ClientMode) String() string {
	switch m {
	case ModeDashboard:
		return "dashboard"
	case ModeRedirecting:
		return "redirecting"
	default:
		return "unknown"
	}
}

// ResolverState is the progress of a one-shot redirect resolution
type ResolverState int

const (
	ResolverIdle ResolverState = iota
	ResolverResolving
	ResolverNavigated
	ResolverFellBack
)

func (s ResolverState) String() string {
	switch s {
	case ResolverIdle:
		return "idle"
	case ResolverResolving:
		return "resolving"
	case ResolverNavigated:
		return "navigated"
	case ResolverFellBack:
		return "fell_back"
	default:
		return "unknown"
	}
}

// Done reports whether the resolver reached a terminal state
func (s ResolverState) Done() bool {
	return s == ResolverNavigated || s == ResolverFellBack
}
