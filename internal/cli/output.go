package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/safewatch/safewatch/internal/alert"
	"github.com/safewatch/safewatch/internal/gateway"
	"github.com/safewatch/safewatch/internal/tui"
)

var (
	headingColor = color.New(color.Bold)
	dimColor     = color.New(color.FgHiBlack)
	okColor      = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	dangerColor  = color.New(color.FgRed, color.Bold)
)

// severityColor maps a level onto the terminal palette.
func severityColor(s alert.Severity) *color.Color {
	switch {
	case s.AtLeast(alert.Emergency):
		return color.New(color.FgHiRed, color.Bold)
	case s == alert.Warning:
		return color.New(color.FgRed)
	case s == alert.Watch:
		return color.New(color.FgYellow)
	case s == alert.Advisory:
		return color.New(color.FgHiYellow)
	case s == alert.Info:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgWhite)
	}
}

func levelColor(level string) *color.Color {
	switch level {
	case tui.LevelSafe:
		return okColor
	case tui.LevelWarning:
		return warnColor
	default:
		return dangerColor
	}
}

func statusColor(status string) *color.Color {
	switch status {
	case gateway.StatusActive:
		return okColor
	case gateway.StatusRecentlyActive:
		return warnColor
	default:
		return dimColor
	}
}

func printAlert(w io.Writer, a gateway.Alert) {
	state := warnColor.Sprint("active")
	if a.IsResolved {
		state = okColor.Sprint("resolved")
	}
	fmt.Fprintf(w, "  %-36s  %-24s  %s  %-8s  %s\n",
		a.ID,
		a.Type.Label(),
		severityColor(a.Severity).Sprintf("%-9s", a.Severity.Label()),
		state,
		dimColor.Sprint(a.CreatedAt.Local().Format(time.DateTime)),
	)
	if a.Message != "" {
		fmt.Fprintf(w, "  %s\n", a.Message)
	}
}

func printContact(w io.Writer, c gateway.Contact) {
	fmt.Fprintf(w, "  %-36s  %-20s  %-16s", c.ID, c.Name, c.Phone)
	if rel := c.RelationOrEmpty(); rel != "" {
		fmt.Fprintf(w, "  %s", dimColor.Sprint(rel))
	}
	if email := c.EmailOrEmpty(); email != "" {
		fmt.Fprintf(w, "  %s", email)
	}
	fmt.Fprintln(w)
}
