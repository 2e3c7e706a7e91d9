package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/safewatch/safewatch/internal/alert"
	"github.com/safewatch/safewatch/internal/device"
	"github.com/safewatch/safewatch/internal/gateway"
	"github.com/safewatch/safewatch/internal/nav"
	"github.com/safewatch/safewatch/internal/tui"
)

// Emergency form sections, in tab order.
const (
	sectionType = iota
	sectionSeverity
	sectionLocation
	sectionDescription
	sectionCount
)

// Messages shown by the emergency form.
const (
	msgSelectTypeAndSeverity = "Please select both emergency type and severity level."
	msgProvideLocation       = "Please provide your current location."
	msgLocationUnavailable   = "Unable to get your current location. Please enter it manually."
)

// pickerRows is how many picker options are visible at once.
const pickerRows = 6

// EmergencyModel is the form for sending an emergency alert.
type EmergencyModel struct {
	section int

	typeCursor int
	typeIdx    int // -1 until chosen
	sevCursor  int
	sevIdx     int // -1 until chosen

	location    textinput.Model
	description textinput.Model

	// coords holds the last device fix; it is attached to the alert only
	// while the location field still shows it.
	coords     *device.Position
	locating   bool
	formErr    string
	submitting bool
	sent       bool
	notice     notice

	width  int
	height int

	ctrlCPending bool
}

// NewEmergencyModel creates an empty emergency form.
func NewEmergencyModel(width, height int) EmergencyModel {
	loc := textinput.New()
	loc.Placeholder = "Address or coordinates (ctrl+l: use current location)"
	loc.CharLimit = 200

	desc := textinput.New()
	desc.Placeholder = "Describe the situation (optional)"
	desc.CharLimit = 500

	m := EmergencyModel{
		typeIdx:     -1,
		sevIdx:      -1,
		location:    loc,
		description: desc,
		width:       width,
		height:      height,
	}
	m.resize()
	return m
}

func (m *EmergencyModel) resize() {
	w := min(boxWidth(m.width)-20, 60)
	m.location.Width = w
	m.description.Width = w
}

// Init returns the initial command for the emergency form.
func (m EmergencyModel) Init() tea.Cmd {
	return nil
}

// Selection returns the chosen type and severity, with ok false until both
// are chosen.
func (m EmergencyModel) Selection() (alert.AlertType, alert.Severity, bool) {
	if m.typeIdx < 0 || m.sevIdx < 0 {
		return "", alert.SeverityUnknown, false
	}
	return alert.AlertTypes[m.typeIdx], alert.Severities[m.sevIdx], true
}

// Update handles messages for the emergency form.
func (m EmergencyModel) Update(msg tea.Msg) (EmergencyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tui.LocationMsg:
		m.locating = false
		switch {
		case msg.Denied:
			m.notice.set("Location Permission Required",
				"Please enable location permissions to automatically get your current location.", true)
		case msg.Err != nil:
			m.notice.set("Location Error", msgLocationUnavailable, true)
		default:
			pos := msg.Position
			m.coords = &pos
			m.location.SetValue(pos.String())
			m.formErr = ""
		}
		return m, nil

	case tui.AlertCreatedMsg:
		m.submitting = false
		if msg.Err != nil {
			m.notice.set("Error", "Failed to send emergency alert: "+gateway.UserMessage(msg.Err), true)
			return m, nil
		}
		m.sent = true
		m.notice.set("Emergency Alert Sent",
			"Your emergency alert has been sent. Your contacts and local authorities have been notified.", false)
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m.updateInputs(msg)
}

func (m EmergencyModel) handleKey(msg tea.KeyMsg) (EmergencyModel, tea.Cmd) {
	keys := tui.DefaultKeyMap

	if m.notice.active() {
		if key.Matches(msg, keys.Enter) || key.Matches(msg, keys.Back) {
			m.notice.clear()
			if m.sent {
				return m, emit(tui.NavigateMsg{Event: nav.Back})
			}
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Back):
		if m.submitting {
			return m, nil
		}
		return m, emit(tui.NavigateMsg{Event: nav.Back})
	case key.Matches(msg, keys.Submit):
		return m.submit()
	case key.Matches(msg, keys.Locate):
		if m.locating {
			return m, nil
		}
		m.locating = true
		return m, emit(tui.LocateMsg{})
	case msg.Type == tea.KeyTab:
		cmd := m.focusSection((m.section + 1) % sectionCount)
		return m, cmd
	case msg.Type == tea.KeyShiftTab:
		cmd := m.focusSection((m.section + sectionCount - 1) % sectionCount)
		return m, cmd
	}

	switch m.section {
	case sectionType:
		m.typeCursor, m.typeIdx = movePicker(msg, m.typeCursor, m.typeIdx, len(alert.AlertTypes))
		return m, nil
	case sectionSeverity:
		m.sevCursor, m.sevIdx = movePicker(msg, m.sevCursor, m.sevIdx, len(alert.Severities))
		return m, nil
	case sectionDescription:
		if msg.Type == tea.KeyEnter {
			return m.submit()
		}
	case sectionLocation:
		if msg.Type == tea.KeyEnter {
			cmd := m.focusSection(sectionDescription)
			return m, cmd
		}
	}
	return m.updateInputs(msg)
}

// movePicker applies a key to a picker: arrows move the cursor, enter or
// space choose the option under it.
func movePicker(msg tea.KeyMsg, cursor, chosen, n int) (int, int) {
	keys := tui.DefaultKeyMap
	switch {
	case key.Matches(msg, keys.Up):
		cursor = clampCursor(cursor-1, n)
	case key.Matches(msg, keys.Down):
		cursor = clampCursor(cursor+1, n)
	case msg.Type == tea.KeyEnter, msg.Type == tea.KeySpace:
		chosen = cursor
	}
	return cursor, chosen
}

func (m EmergencyModel) updateInputs(msg tea.Msg) (EmergencyModel, tea.Cmd) {
	var cmd tea.Cmd
	switch m.section {
	case sectionLocation:
		m.location, cmd = m.location.Update(msg)
	case sectionDescription:
		m.description, cmd = m.description.Update(msg)
	}
	return m, cmd
}

func (m *EmergencyModel) focusSection(s int) tea.Cmd {
	m.section = s
	m.location.Blur()
	m.description.Blur()
	switch s {
	case sectionLocation:
		return m.location.Focus()
	case sectionDescription:
		return m.description.Focus()
	}
	return nil
}

// Input builds the alert payload from the form. The account id is left
// empty for the caller to fill in.
func (m EmergencyModel) Input() (gateway.CreateAlertInput, string) {
	t, sev, ok := m.Selection()
	if !ok {
		return gateway.CreateAlertInput{}, msgSelectTypeAndSeverity
	}
	location := strings.TrimSpace(m.location.Value())
	if location == "" {
		return gateway.CreateAlertInput{}, msgProvideLocation
	}

	message := strings.TrimSpace(m.description.Value())
	if message == "" {
		message = alert.DefaultMessage(t, sev, location)
	}
	in := gateway.CreateAlertInput{Type: t, Severity: sev, Message: message}
	if m.coords != nil && location == m.coords.String() {
		lat, lng := m.coords.Latitude, m.coords.Longitude
		in.Latitude, in.Longitude = &lat, &lng
	}
	return in, ""
}

func (m EmergencyModel) submit() (EmergencyModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	in, problem := m.Input()
	if problem != "" {
		m.formErr = problem
		return m, nil
	}
	m.formErr = ""
	m.submitting = true
	return m, emit(tui.SubmitAlertMsg{Input: in})
}

// Submitting reports whether a submission is in flight.
func (m EmergencyModel) Submitting() bool {
	return m.submitting
}

// View renders the emergency form.
func (m EmergencyModel) View() string {
	var b strings.Builder

	b.WriteString(header("Emergency Alert", "Send an alert to your contacts and local authorities"))
	b.WriteString("\n\n")

	b.WriteString(m.sectionTitle(sectionType, "Emergency Type"))
	b.WriteString("\n")
	b.WriteString(renderPicker(len(alert.AlertTypes), m.typeCursor, m.typeIdx, m.section == sectionType,
		func(i int) string {
			t := alert.AlertTypes[i]
			return tui.Glyph(t.Icon()) + " " + t.Label()
		}))
	b.WriteString("\n\n")

	b.WriteString(m.sectionTitle(sectionSeverity, "Severity Level"))
	b.WriteString("\n")
	b.WriteString(renderPicker(len(alert.Severities), m.sevCursor, m.sevIdx, m.section == sectionSeverity,
		func(i int) string {
			s := alert.Severities[i]
			return tui.SeverityStyle(s).Render(fmt.Sprintf("%-10s", s.Label())) + " " + tui.DimStyle.Render(s.Description())
		}))
	b.WriteString("\n\n")

	b.WriteString(m.sectionTitle(sectionLocation, "Location *"))
	b.WriteString("\n")
	b.WriteString(m.location.View())
	if m.locating {
		b.WriteString("\n" + tui.DimStyle.Render("Getting current location..."))
	}
	b.WriteString("\n\n")

	b.WriteString(m.sectionTitle(sectionDescription, "Description"))
	b.WriteString("\n")
	b.WriteString(m.description.View())
	b.WriteString("\n\n")

	switch {
	case m.submitting:
		b.WriteString(tui.WarningStyle.Render("Sending Alert..."))
	case m.formErr != "":
		b.WriteString(tui.ErrorStyle.Render(m.formErr))
	default:
		b.WriteString(tui.EmergencyButtonStyle.Render("SEND EMERGENCY ALERT (ctrl+s)"))
	}
	b.WriteString("\n")

	if m.notice.active() {
		b.WriteString("\n" + m.notice.render(m.width) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(footer(m.ctrlCPending,
		"Tab: Next section", "Enter: Choose", "Ctrl+L: Locate", "Ctrl+S: Send", "Esc: Back"))
	return frame(m.width, b.String())
}

func (m EmergencyModel) sectionTitle(s int, title string) string {
	if m.section == s {
		return tui.SelectedStyle.Render("▸ " + title)
	}
	return tui.DimStyle.Render("  " + title)
}

// renderPicker shows a window of options around the cursor, marking the
// chosen one.
func renderPicker(n, cursor, chosen int, focused bool, label func(int) string) string {
	start := 0
	if cursor >= pickerRows {
		start = cursor - pickerRows + 1
	}
	end := min(start+pickerRows, n)

	rows := make([]string, 0, pickerRows+1)
	for i := start; i < end; i++ {
		mark := "( )"
		if i == chosen {
			mark = tui.SelectedStyle.Render("(•)")
		}
		prefix := "  "
		if focused && i == cursor {
			prefix = tui.SelectedStyle.Render("▸ ")
		}
		rows = append(rows, prefix+mark+" "+label(i))
	}
	if n > pickerRows {
		rows = append(rows, tui.DimStyle.Render(fmt.Sprintf("  %d/%d", cursor+1, n)))
	}
	return strings.Join(rows, "\n")
}

// SetCtrlCPending sets the Ctrl+C pending state for display.
func (m *EmergencyModel) SetCtrlCPending(pending bool) {
	m.ctrlCPending = pending
}
