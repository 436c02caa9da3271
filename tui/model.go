// Package tui is the terminal dashboard: a full-screen view over one client session.
package tui

import (
	"context"

	"short-url-client/client"
	"short-url-client/model"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

type focus int

const (
	focusInput focus = iota
	focusRecords
)

type (
	startedMsg struct{ state model.ResolverState }
	changedMsg struct{}

	shortenDoneMsg struct {
		resp *model.ShortenResponse
		err  error
	}

	visitDoneMsg struct {
		location string
		err      error
	}
)

// Model is the bubbletea model of the terminal dashboard
type Model struct {
	ctx     context.Context
	session *client.Session
	nav     *navigator
	changes chan struct{}
	open    func(string) error

	input    textinput.Model
	logView  viewport.Model
	spinner  spinner.Model
	focus    focus
	selected int

	path       string
	notice     string
	shortening bool
	quitting   bool
	width      int
}

// New builds the dashboard for a session opened at path.
// opts.Navigator is replaced by the terminal's own.
func New(ctx context.Context, opts client.Options, path string) Model {
	nav := &navigator{}
	opts.Navigator = nav
	session := client.NewSession(opts, path)

	// One pending signal is enough: every redraw reads the latest state
	changes := make(chan struct{}, 1)
	signal := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}
	session.Log().Subscribe(func(model.LogEntry) { signal() })
	session.State().Subscribe(signal)

	ti := textinput.New()
	ti.Placeholder = "https://example.com/a/very/long/url"
	ti.Prompt = "URL > "
	ti.CharLimit = 2048
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		session: session,
		nav:     nav,
		changes: changes,
		open:    openURL,
		input:   ti,
		logView: viewport.New(80, 10),
		spinner: sp,
		path:    path,
	}
}

// Session exposes the dashboard's session so the caller can close it
func (m Model) Session() *client.Session {
	return m.session
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startCmd(), m.waitForChange(), m.spinner.Tick, textinput.Blink)
}

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		m.session.Start(m.ctx)
		return startedMsg{state: m.session.ResolverState()}
	}
}

// waitForChange blocks until the event log or the state changes
func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.changes:
			return changedMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m Model) shortenCmd(url string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.session.Shorten(m.ctx, url)
		return shortenDoneMsg{resp: resp, err: err}
	}
}

func (m Model) visitCmd(code string) tea.Cmd {
	return func() tea.Msg {
		location, err := m.session.SimulateVisit(m.ctx, code)
		return visitDoneMsg{location: location, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.logView.Width = msg.Width
		if h := msg.Height / 3; h > 3 {
			m.logView.Height = h
		}
		m.refreshLog()
		return m, nil

	case startedMsg:
		destination, path, notice := m.nav.snapshot()
		if msg.state == model.ResolverNavigated && destination != "" {
			if err := m.open(destination); err != nil {
				log.Error().Err(err).Str("destination", destination).Msg("Failed to open browser")
			}
			m.quitting = true
			return m, tea.Quit
		}
		if path != "" {
			m.path = path
		}
		m.notice = notice
		m.refreshLog()
		return m, nil

	case changedMsg:
		m.refreshLog()
		m.clampSelection()
		return m, m.waitForChange()

	case shortenDoneMsg:
		m.shortening = false
		if msg.err == nil {
			m.input.Reset()
		}
		return m, nil

	case visitDoneMsg:
		if msg.err == nil && msg.location != "" {
			if err := m.open(msg.location); err != nil {
				log.Warn().Err(err).Str("location", msg.location).Msg("Failed to open browser")
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		if m.focus == focusInput {
			m.focus = focusRecords
			m.input.Blur()
			return m, nil
		}
		m.focus = focusInput
		return m, m.input.Focus()
	}

	if m.focus == focusInput {
		switch msg.String() {
		case "enter":
			if !m.canShorten() {
				return m, nil
			}
			m.shortening = true
			m.notice = ""
			return m, m.shortenCmd(m.input.Value())
		case "esc":
			m.focus = focusRecords
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	links := m.session.State().Links()
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(links)-1 {
			m.selected++
		}
	case "t", "enter":
		if code, ok := selectedCode(links, m.selected); ok {
			return m, m.visitCmd(code)
		}
	case "c":
		if code, ok := selectedCode(links, m.selected); ok {
			m.session.CopyLink(code)
		}
	case "pgup":
		m.logView.HalfViewUp()
	case "pgdown":
		m.logView.HalfViewDown()
	}
	return m, nil
}

// canShorten is false until the backend answered once, and while a submission is outstanding
func (m Model) canShorten() bool {
	return m.session.State().Live() && !m.shortening && !m.session.Busy()
}

func (m *Model) refreshLog() {
	m.logView.SetContent(renderLog(m.session.Log().Entries()))
	m.logView.GotoBottom()
}

func (m *Model) clampSelection() {
	n := len(m.session.State().Links())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func selectedCode(links []model.LinkRecord, i int) (string, bool) {
	if i < 0 || i >= len(links) {
		return "", false
	}
	return links[i].ShortCode, true
}
