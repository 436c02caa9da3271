package tui

import (
	"fmt"
	"strings"

	"short-url-client/model"

	"github.com/charmbracelet/lipgloss"
)

const maxBarWidth = 30

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	liveStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	waitingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	bannerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	barStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	kindStyles = map[model.LogKind]lipgloss.Style{
		model.KindInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		model.KindSystem:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		model.KindSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		model.KindWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		model.KindError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	state := m.session.State()
	var b strings.Builder

	b.WriteString(titleStyle.Render("SHORT URL CLIENT"))
	b.WriteString("  ")
	if state.Live() {
		b.WriteString(liveStyle.Render("● Live"))
	} else {
		b.WriteString(waitingStyle.Render(m.spinner.View() + " Connecting…"))
	}
	b.WriteString(dimStyle.Render("  " + m.path))
	b.WriteString("\n")

	if !state.Live() {
		b.WriteString(bannerStyle.Render("The backend may be waking up. The first request can take up to a minute."))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	if m.shortening {
		b.WriteString(dimStyle.Render("  shortening…"))
	}
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("Records"))
	b.WriteString("\n")
	b.WriteString(renderRecords(state.Links(), m.selected, m.focus == focusRecords, m.session.ShortLink))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Traffic"))
	b.WriteString("\n")
	b.WriteString(renderTraffic(state.Analytics()))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Event Log"))
	b.WriteString("\n")
	b.WriteString(m.logView.View())
	b.WriteString("\n")

	b.WriteString(dimStyle.Render("tab switch focus • enter shorten • ↑/↓ select • t test visit • c copy • q quit"))
	return b.String()
}

func renderRecords(links []model.LinkRecord, selected int, focused bool, shortLink func(string) string) string {
	if len(links) == 0 {
		return dimStyle.Render("No links yet") + "\n"
	}

	var b strings.Builder
	for i, l := range links {
		line := fmt.Sprintf("%-30s %5d  %s", shortLink(l.ShortCode), l.Clicks, l.OriginalURL)
		if focused && i == selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderTraffic(points []model.AnalyticsPoint) string {
	if len(points) == 0 {
		return dimStyle.Render("No traffic yet") + "\n"
	}

	maxClicks := 0
	nameWidth := 0
	for _, p := range points {
		if p.Clicks > maxClicks {
			maxClicks = p.Clicks
		}
		if len(p.Name) > nameWidth {
			nameWidth = len(p.Name)
		}
	}

	var b strings.Builder
	for _, p := range points {
		fmt.Fprintf(&b, "%-*s %s %d\n", nameWidth, p.Name, barStyle.Render(bar(p.Clicks, maxClicks)), p.Clicks)
	}
	return b.String()
}

// bar scales clicks against maxClicks; any traffic gets at least one cell
func bar(clicks, maxClicks int) string {
	if clicks <= 0 || maxClicks <= 0 {
		return ""
	}
	n := clicks * maxBarWidth / maxClicks
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

func renderLog(entries []model.LogEntry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		line := fmt.Sprintf("[%s] %s", e.Timestamp, e.Message)
		if e.LatencyMs > 0 {
			line += fmt.Sprintf(" (%dms)", e.LatencyMs)
		}
		style, ok := kindStyles[e.Kind]
		if !ok {
			style = kindStyles[model.KindInfo]
		}
		b.WriteString(style.Render(line))
	}
	return b.String()
}
