package views

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/safewatch/safewatch/internal/tui"
)

// Loading renders the boot screen shown while the saved session is read.
func Loading(width int, appName, spin string) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		tui.TitleStyle.Render(appName),
		"",
		spin+" Loading...",
	)
	return frame(width, content)
}
