package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/safewatch/safewatch/internal/gateway"
	"github.com/safewatch/safewatch/internal/nav"
	"github.com/safewatch/safewatch/internal/tui"
)

type contactsMode int

const (
	contactsList contactsMode = iota
	contactsForm
	contactsConfirmDelete
	contactsConfirmCall
)

// Form field order.
const (
	fieldName = iota
	fieldPhone
	fieldEmail
	fieldRelation
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name *", "Phone *", "Email", "Relation"}

const contactsRequiredMsg = "Name and phone number are required."

// ContactsModel manages the account's emergency contacts.
type ContactsModel struct {
	account  *gateway.Account
	contacts []gateway.Contact
	read     readState

	cursor int
	mode   contactsMode
	// target is the contact a confirmation was opened for; list reloads
	// while the dialog is up do not change it.
	target gateway.Contact

	inputs    [fieldCount]textinput.Model
	focus     int
	editingID string
	formErr   string
	saving    bool
	deleting  bool

	notice notice

	width  int
	height int

	ctrlCPending bool
}

// NewContactsModel creates an empty contacts screen.
func NewContactsModel(width, height int) ContactsModel {
	m := ContactsModel{width: width, height: height}
	placeholders := [fieldCount]string{"Full name", "+1 555 123 4567", "name@example.com", "e.g. Mother, Friend"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 120
		ti.Width = min(boxWidth(width)-20, 50)
		m.inputs[i] = ti
	}
	return m
}

// Init returns the initial command for the contacts screen.
func (m ContactsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the contacts screen.
func (m ContactsModel) Update(msg tea.Msg) (ContactsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tui.AccountLoadedMsg:
		if msg.Err == nil || msg.Account != nil {
			m.account = msg.Account
		}
		return m, nil

	case tui.ContactsLoadedMsg:
		m.read.apply(msg.Err)
		if msg.Err == nil || msg.Contacts != nil {
			m.contacts = msg.Contacts
			m.cursor = clampCursor(m.cursor, len(m.contacts))
		}
		return m, nil

	case tui.ContactSavedMsg:
		m.saving = false
		if msg.Err != nil {
			if gateway.IsValidation(msg.Err) {
				m.formErr = contactsRequiredMsg
			} else {
				m.formErr = "Failed to save contact: " + gateway.UserMessage(msg.Err)
			}
			return m, nil
		}
		m.closeForm()
		if msg.Created {
			m.notice.set("Contact Added", "Emergency contact added successfully.", false)
		} else {
			m.notice.set("Contact Updated", "Emergency contact updated successfully.", false)
		}
		return m, nil

	case tui.ContactDeletedMsg:
		m.deleting = false
		if msg.Err != nil {
			m.notice.set("Error", "Failed to delete contact: "+gateway.UserMessage(msg.Err), true)
			return m, nil
		}
		m.notice.set("Contact Deleted", "Emergency contact removed.", false)
		return m, nil

	case tui.CallPlacedMsg:
		if msg.Err != nil {
			m.notice.set("Unable to Call", gateway.UserMessage(msg.Err), true)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		for i := range m.inputs {
			m.inputs[i].Width = min(boxWidth(m.width)-20, 50)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.mode == contactsForm {
		return m.updateInputs(msg)
	}
	return m, nil
}

func (m ContactsModel) handleKey(msg tea.KeyMsg) (ContactsModel, tea.Cmd) {
	keys := tui.DefaultKeyMap

	if m.notice.active() {
		if key.Matches(msg, keys.Enter) || key.Matches(msg, keys.Back) {
			m.notice.clear()
		}
		return m, nil
	}

	switch m.mode {
	case contactsForm:
		return m.handleFormKey(msg)

	case contactsConfirmDelete:
		switch {
		case key.Matches(msg, keys.Confirm):
			m.mode = contactsList
			if !m.deleting {
				m.deleting = true
				return m, emit(tui.DeleteContactMsg{ID: m.target.ID})
			}
		case key.Matches(msg, keys.Cancel):
			m.mode = contactsList
		}
		return m, nil

	case contactsConfirmCall:
		switch {
		case key.Matches(msg, keys.Confirm):
			m.mode = contactsList
			return m, emit(tui.CallContactMsg{Phone: m.target.Phone})
		case key.Matches(msg, keys.Cancel):
			m.mode = contactsList
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Back):
		return m, emit(tui.NavigateMsg{Event: nav.Back})
	case key.Matches(msg, keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(m.contacts))
	case key.Matches(msg, keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(m.contacts))
	case key.Matches(msg, keys.Add):
		cmd := m.openForm(nil)
		return m, cmd
	case key.Matches(msg, keys.Edit):
		if c, ok := m.selected(); ok {
			cmd := m.openForm(&c)
			return m, cmd
		}
	case key.Matches(msg, keys.Delete):
		if c, ok := m.selected(); ok {
			m.target = c
			m.mode = contactsConfirmDelete
		}
	case key.Matches(msg, keys.Call):
		if c, ok := m.selected(); ok {
			m.target = c
			m.mode = contactsConfirmCall
		}
	case key.Matches(msg, keys.Refresh):
		return m, emit(tui.RefreshMsg{})
	}
	return m, nil
}

func (m ContactsModel) handleFormKey(msg tea.KeyMsg) (ContactsModel, tea.Cmd) {
	keys := tui.DefaultKeyMap
	switch {
	case msg.Type == tea.KeyEsc:
		if !m.saving {
			m.closeForm()
		}
		return m, nil
	case key.Matches(msg, keys.Submit):
		return m.submit()
	case msg.Type == tea.KeyEnter:
		if m.focus == fieldCount-1 {
			return m.submit()
		}
		cmd := m.focusField(m.focus + 1)
		return m, cmd
	case msg.Type == tea.KeyTab, msg.Type == tea.KeyDown:
		cmd := m.focusField((m.focus + 1) % fieldCount)
		return m, cmd
	case msg.Type == tea.KeyShiftTab, msg.Type == tea.KeyUp:
		cmd := m.focusField((m.focus + fieldCount - 1) % fieldCount)
		return m, cmd
	}
	return m.updateInputs(msg)
}

func (m ContactsModel) updateInputs(msg tea.Msg) (ContactsModel, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m ContactsModel) submit() (ContactsModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	in := m.FormInput()
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" {
		m.formErr = contactsRequiredMsg
		return m, nil
	}
	m.formErr = ""
	m.saving = true
	return m, emit(tui.SaveContactMsg{ID: m.editingID, Input: in})
}

// FormInput returns the values currently entered in the form.
func (m ContactsModel) FormInput() gateway.ContactInput {
	return gateway.ContactInput{
		Name:     m.inputs[fieldName].Value(),
		Phone:    m.inputs[fieldPhone].Value(),
		Email:    m.inputs[fieldEmail].Value(),
		Relation: m.inputs[fieldRelation].Value(),
	}
}

func (m *ContactsModel) openForm(c *gateway.Contact) tea.Cmd {
	m.mode = contactsForm
	m.formErr = ""
	m.editingID = ""
	values := [fieldCount]string{}
	if c != nil {
		m.editingID = c.ID
		values = [fieldCount]string{c.Name, c.Phone, c.EmailOrEmpty(), c.RelationOrEmpty()}
	}
	for i := range m.inputs {
		m.inputs[i].SetValue(values[i])
	}
	return m.focusField(fieldName)
}

func (m *ContactsModel) closeForm() {
	m.mode = contactsList
	m.editingID = ""
	m.formErr = ""
	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].Reset()
	}
}

func (m *ContactsModel) focusField(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

func (m ContactsModel) selected() (gateway.Contact, bool) {
	if len(m.contacts) == 0 {
		return gateway.Contact{}, false
	}
	return m.contacts[clampCursor(m.cursor, len(m.contacts))], true
}

// Editing reports whether the add/edit form is open.
func (m ContactsModel) Editing() bool {
	return m.mode == contactsForm
}

// View renders the contacts screen.
func (m ContactsModel) View() string {
	var b strings.Builder

	b.WriteString(header("Emergency Contacts", accountSubtitle(m.account)))
	b.WriteString("\n\n")

	if m.mode == contactsForm {
		b.WriteString(m.renderForm())
		b.WriteString("\n\n")
		hints := []string{"Tab: Next field", "Ctrl+S: Save", "Esc: Cancel"}
		b.WriteString(footer(m.ctrlCPending, hints...))
		return frame(m.width, b.String())
	}

	if line := m.read.render("contacts", len(m.contacts) > 0); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.read.loaded && len(m.contacts) == 0 && m.read.err == nil {
		b.WriteString(tui.DimStyle.Render("No emergency contacts yet. Press a to add one."))
		b.WriteString("\n")
	}
	for i, c := range m.contacts {
		b.WriteString(m.renderContact(c, i == m.cursor))
		b.WriteString("\n")
	}

	switch {
	case m.notice.active():
		b.WriteString("\n" + m.notice.render(m.width) + "\n")
	case m.mode == contactsConfirmDelete:
		b.WriteString("\n" + tui.NoticeStyle.Render(
			tui.WarningStyle.Render("Delete Contact")+"\n"+
				fmt.Sprintf("Are you sure you want to delete %s?", m.target.Name)+"\n"+
				tui.DimStyle.Render("y: Delete · n: Cancel")) + "\n")
	case m.mode == contactsConfirmCall:
		b.WriteString("\n" + tui.NoticeStyle.Render(
			tui.WarningStyle.Render(fmt.Sprintf("Call %s?", m.target.Name))+"\n"+
				m.target.Phone+"\n"+
				tui.DimStyle.Render("y: Call · n: Cancel")) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(footer(m.ctrlCPending,
		"a: Add", "Enter: Edit", "d: Delete", "p: Call", "r: Refresh", "Esc: Back"))
	return frame(m.width, b.String())
}

func (m ContactsModel) renderContact(c gateway.Contact, selected bool) string {
	cursor := "  "
	name := c.Name
	if selected {
		cursor = tui.SelectedStyle.Render("▸ ")
		name = tui.SelectedStyle.Render(name)
	}
	line := cursor + name
	if rel := c.RelationOrEmpty(); rel != "" {
		line += tui.DimStyle.Render(" (" + rel + ")")
	}
	line += "\n    " + c.Phone
	if email := c.EmailOrEmpty(); email != "" {
		line += tui.DimStyle.Render(" · " + email)
	}
	return line
}

func (m ContactsModel) renderForm() string {
	var b strings.Builder
	title := "Add Contact"
	if m.editingID != "" {
		title = "Edit Contact"
	}
	b.WriteString(tui.TitleStyle.Render(title))
	b.WriteString("\n\n")
	for i, in := range m.inputs {
		label := fmt.Sprintf("%-10s", fieldLabels[i])
		if i == m.focus {
			label = tui.SelectedStyle.Render(label)
		}
		b.WriteString(label + " " + in.View() + "\n")
	}
	switch {
	case m.saving:
		b.WriteString("\n" + tui.WarningStyle.Render("Saving..."))
	case m.formErr != "":
		b.WriteString("\n" + tui.ErrorStyle.Render(m.formErr))
	}
	return b.String()
}

// SetCtrlCPending sets the Ctrl+C pending state for display.
func (m *ContactsModel) SetCtrlCPending(pending bool) {
	m.ctrlCPending = pending
}
