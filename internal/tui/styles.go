package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/safewatch/safewatch/internal/alert"
	"github.com/safewatch/safewatch/internal/gateway"
)

// Palette.
const (
	primaryColor   = "#D32F2F" // Emergency red
	secondaryColor = "#4CAF50" // Green
	warningColor   = "#FF9800" // Orange
	errorColor     = "#F44336" // Red
	dimColor       = "#757575" // Gray
)

var (
	// BoxStyle frames a screen.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(primaryColor)).
			Padding(1, 2)

	// CardStyle frames a block inside a screen.
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			PaddingLeft(1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(primaryColor)).
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(primaryColor)).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(dimColor))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(secondaryColor))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(errorColor))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(warningColor))

	// NoticeStyle renders dismissible notices.
	NoticeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(warningColor)).
			Padding(0, 1)

	// EmergencyButtonStyle renders the emergency trigger.
	EmergencyButtonStyle = lipgloss.NewStyle().
				Background(lipgloss.Color(primaryColor)).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true).
				Padding(0, 2)

	ActiveChipStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(primaryColor)).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)

	InactiveChipStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#374151")).
				Foreground(lipgloss.Color("#9CA3AF")).
				Padding(0, 1)
)

// SeverityStyle colors text by severity.
func SeverityStyle(s alert.Severity) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color()))
}

// SeverityBadge renders a colored severity label.
func SeverityBadge(s alert.Severity) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(s.Color())).
		Foreground(lipgloss.Color("#FFFFFF")).
		Padding(0, 1).
		Render(s.Label())
}

// iconGlyphs maps icon identifiers to terminal glyphs.
var iconGlyphs = map[string]string{
	alert.IconInfo:         "ℹ",
	alert.IconWarning:      "⚠",
	alert.IconError:        "✖",
	alert.IconPriorityHigh: "‼",
}

// Glyph returns the terminal glyph for an icon identifier.
func Glyph(icon string) string {
	if g, ok := iconGlyphs[icon]; ok {
		return g
	}
	return "•"
}

// AccountStatusStyle colors an account activity label.
func AccountStatusStyle(status string) lipgloss.Style {
	switch status {
	case gateway.StatusActive:
		return SuccessStyle
	case gateway.StatusRecentlyActive:
		return WarningStyle
	default:
		return DimStyle
	}
}

// Safety levels shown on the dashboard.
const (
	LevelSafe    = "safe"
	LevelWarning = "warning"
	LevelDanger  = "danger"
)

// LevelStyle colors a safety level.
func LevelStyle(level string) lipgloss.Style {
	switch level {
	case LevelSafe:
		return SuccessStyle
	case LevelWarning:
		return WarningStyle
	case LevelDanger:
		return ErrorStyle
	default:
		return DimStyle
	}
}

// LevelGlyph marks a safety level.
func LevelGlyph(level string) string {
	switch level {
	case LevelSafe:
		return "✓"
	case LevelWarning:
		return "⚠"
	case LevelDanger:
		return "✖"
	default:
		return "?"
	}
}
