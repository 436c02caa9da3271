package tui

import (
	"context"

	"short-url-client/client"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

// Run shows the dashboard for a session opened at path until the operator quits,
// or until a short code resolves and the browser takes over.
func Run(ctx context.Context, opts client.Options, path string) error {
	ctx, cancel := context.WithCancel(ctx)
	m := New(ctx, opts, path)

	// Cancel first so an in-flight resolve or tick returns before Close waits on it
	defer func() {
		cancel()
		m.Session().Close()
	}()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("Terminal dashboard failed")
		return err
	}
	return nil
}
