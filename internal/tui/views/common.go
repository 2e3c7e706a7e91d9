// Package views provides the screen components of the SafeWatch TUI.
package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/safewatch/safewatch/internal/gateway"
	"github.com/safewatch/safewatch/internal/tui"
)

// maxBoxWidth is the maximum width for a screen box.
const maxBoxWidth = 96

func boxWidth(width int) int {
	if width-4 < maxBoxWidth {
		return max(width-4, 20)
	}
	return maxBoxWidth
}

func frame(width int, content string) string {
	return tui.BoxStyle.Width(boxWidth(width)).Render(content)
}

func header(title, subtitle string) string {
	h := tui.TitleStyle.Render(title)
	if subtitle != "" {
		h += tui.DimStyle.Render("  " + subtitle)
	}
	return h
}

// footer joins key hints and appends the exit hint.
func footer(ctrlCPending bool, hints ...string) string {
	hintsStr := tui.DimStyle.Render(strings.Join(hints, " · "))

	ctrlCHint := tui.DimStyle.Render("Ctrl+C: Exit")
	if ctrlCPending {
		ctrlCHint = tui.WarningStyle.Render("Press Ctrl+C again to exit")
	}
	if hintsStr == "" {
		return ctrlCHint
	}
	return hintsStr + " · " + ctrlCHint
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// readState tracks one query: whether a result arrived and the last error.
// Data from an earlier success stays visible while err is set.
type readState struct {
	loaded bool
	err    error
}

func (r *readState) apply(err error) {
	r.loaded = true
	r.err = err
}

// render returns the inline loading or error line, or "" when there is
// nothing to show.
func (r readState) render(what string, hasData bool) string {
	switch {
	case !r.loaded:
		return tui.DimStyle.Render("Loading " + what + "...")
	case r.err != nil && hasData:
		return tui.WarningStyle.Render(fmt.Sprintf("Couldn't refresh %s: %s (r to retry)", what, gateway.UserMessage(r.err)))
	case r.err != nil:
		return tui.ErrorStyle.Render(fmt.Sprintf("Failed to load %s: %s", what, gateway.UserMessage(r.err))) +
			"\n" + tui.DimStyle.Render("Press r to retry")
	default:
		return ""
	}
}

// notice is a dismissible message shown above the footer.
type notice struct {
	title string
	text  string
	isErr bool
}

func (n *notice) set(title, text string, isErr bool) {
	n.title, n.text, n.isErr = title, text, isErr
}

func (n *notice) clear() { *n = notice{} }

func (n notice) active() bool { return n.title != "" || n.text != "" }

func (n notice) render(width int) string {
	if !n.active() {
		return ""
	}
	title := tui.SuccessStyle.Render(n.title)
	if n.isErr {
		title = tui.ErrorStyle.Render(n.title)
	}
	body := title
	if n.text != "" {
		body += "\n" + n.text
	}
	body += "\n" + tui.DimStyle.Render("enter: dismiss")
	return tui.NoticeStyle.Width(min(boxWidth(width)-6, 70)).Render(body)
}

// relativeTime renders t relative to now, the way the alert lists show it.
func relativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Local().Format("Jan 02, 2006")
	}
}

// alertRow renders one alert line.
func alertRow(a gateway.Alert, selected bool, now time.Time) string {
	cursor := "  "
	if selected {
		cursor = tui.SelectedStyle.Render("▸ ")
	}
	icon := tui.SeverityStyle(a.Severity).Render(tui.Glyph(a.Severity.Icon()))
	title := a.Type.Label()
	if selected {
		title = tui.SelectedStyle.Render(title)
	}
	status := ""
	if a.IsResolved {
		status = " " + tui.SuccessStyle.Render("✓ resolved")
	}
	return fmt.Sprintf("%s%s %s %s %s%s",
		cursor, icon, title,
		tui.SeverityStyle(a.Severity).Render("["+a.Severity.Label()+"]"),
		tui.DimStyle.Render(relativeTime(a.CreatedAt, now)),
		status,
	)
}

// alertDetail renders the detail overlay for an alert.
func alertDetail(a gateway.Alert, resolving bool, width int) string {
	var b strings.Builder
	b.WriteString(tui.SeverityStyle(a.Severity).Bold(true).Render(a.Type.Label()))
	b.WriteString("  ")
	b.WriteString(tui.SeverityBadge(a.Severity))
	b.WriteString("\n\n")
	msg := a.Message
	if strings.TrimSpace(msg) == "" {
		msg = "No message available"
	}
	b.WriteString(msg)
	b.WriteString("\n\n")
	b.WriteString(tui.DimStyle.Render("Reported " + a.CreatedAt.Local().Format("Jan 02, 2006 15:04")))
	if a.Latitude != nil && a.Longitude != nil {
		b.WriteString(tui.DimStyle.Render(fmt.Sprintf("\nAt %.6f, %.6f", *a.Latitude, *a.Longitude)))
	}
	b.WriteString("\n\n")
	switch {
	case a.IsResolved:
		b.WriteString(tui.SuccessStyle.Render("Resolved") + tui.DimStyle.Render(" · esc: close"))
	case resolving:
		b.WriteString(tui.WarningStyle.Render("Resolving..."))
	default:
		b.WriteString(tui.DimStyle.Render("x: Mark as resolved · esc: close"))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(a.Severity.Color())).
		Padding(0, 1).
		Width(min(boxWidth(width)-6, 70)).
		Render(b.String())
}

func accountSubtitle(acct *gateway.Account) string {
	if acct == nil {
		return ""
	}
	return acct.Name
}

func clampCursor(cursor, n int) int {
	if n == 0 {
		return 0
	}
	return min(max(cursor, 0), n-1)
}
