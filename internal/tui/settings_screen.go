package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/billbook/internal/app"
	"github.com/andy/billbook/internal/domain"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type settingsMode int

const (
	settingsModeView settingsMode = iota
	settingsModeEdit
)

// settings form field indices
const (
	settingsFieldEmail = iota
	settingsFieldName
	settingsFieldPhone
	settingsFieldAddress
	settingsFieldCurrency
	settingsFieldCount
)

var settingsLabels = []string{"Account Email:", "Store Name:", "Store Phone:", "Address:", "Currency Symbol:"}

type settingsLoadedMsg struct {
	settings *domain.StoreSettings
	err      error
}

type settingsSavedMsg struct {
	settings *domain.StoreSettings
	err      error
}

// SettingsModel manages the store settings screen
type SettingsModel struct {
	app        *app.App
	mode       settingsMode
	current    *domain.StoreSettings
	fields     []textinput.Model
	fieldFocus int
	err        error
	statusMsg  string
}

// NewSettingsModel creates a new settings screen
func NewSettingsModel(a *app.App) tea.Model {
	return &SettingsModel{
		app:  a,
		mode: settingsModeView,
	}
}

// IsCapturingInput returns true when the edit form is active
func (m *SettingsModel) IsCapturingInput() bool {
	return m.mode == settingsModeEdit
}

func (m *SettingsModel) Init() tea.Cmd {
	return m.loadSettings()
}

func (m *SettingsModel) loadSettings() tea.Cmd {
	a := m.app
	return func() tea.Msg {
		settings, err := a.SettingsService.Get(context.Background(), a.UserKey())
		return settingsLoadedMsg{settings: settings, err: err}
	}
}

func newSettingsInput(placeholder string, limit, width int, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = width
	ti.SetValue(value)
	return ti
}

func (m *SettingsModel) initForm() {
	s := m.current
	if s == nil {
		s = domain.NewStoreSettings("")
	}
	email := ""
	if m.app != nil && m.app.Config != nil {
		email = m.app.Config.User.Email
	}

	m.fields = make([]textinput.Model, settingsFieldCount)
	m.fields[settingsFieldEmail] = newSettingsInput("you@example.com", 254, 40, email)
	m.fields[settingsFieldName] = newSettingsInput(domain.DefaultStoreName, 80, 40, s.Name)
	m.fields[settingsFieldPhone] = newSettingsInput("9876543210", 20, 20, s.Phone)
	m.fields[settingsFieldAddress] = newSettingsInput("Shop address", 200, 60, s.Address)
	m.fields[settingsFieldCurrency] = newSettingsInput(domain.DefaultCurrency, 4, 6, s.Currency)

	m.fieldFocus = settingsFieldName
	if email == "" {
		m.fieldFocus = settingsFieldEmail
	}
}

// formValues copies the form into a settings document
func (m *SettingsModel) formValues() (email string, settings domain.StoreSettings) {
	email = strings.TrimSpace(m.fields[settingsFieldEmail].Value())
	settings = domain.StoreSettings{
		UserKey:  domain.UserKey(email),
		Name:     m.fields[settingsFieldName].Value(),
		Phone:    m.fields[settingsFieldPhone].Value(),
		Address:  m.fields[settingsFieldAddress].Value(),
		Currency: m.fields[settingsFieldCurrency].Value(),
	}
	return email, settings
}

func (m *SettingsModel) saveSettings() tea.Cmd {
	a := m.app
	email, settings := m.formValues()
	return func() tea.Msg {
		if email == "" {
			return settingsSavedMsg{err: fmt.Errorf("account email is required")}
		}

		if email != a.Config.User.Email {
			a.Config.User.Email = email
			if err := a.SaveConfig(); err != nil {
				return settingsSavedMsg{err: fmt.Errorf("failed to save config: %w", err)}
			}
		}

		if err := a.SettingsService.Save(context.Background(), &settings); err != nil {
			return settingsSavedMsg{err: err}
		}
		return settingsSavedMsg{settings: &settings}
	}
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsLoadedMsg:
		m.err = msg.err
		m.current = msg.settings
		return m, nil

	case RefreshDataMsg:
		if m.mode == settingsModeView {
			return m, m.loadSettings()
		}
		return m, nil
	}

	if m.mode == settingsModeEdit {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		m.err = nil
		if msg.String() == "enter" {
			m.mode = settingsModeEdit
			m.statusMsg = ""
			m.initForm()
			return m, m.fields[m.fieldFocus].Focus()
		}
	}

	return m, nil
}

func (m *SettingsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.current = msg.settings
		m.mode = settingsModeView
		m.err = nil
		m.statusMsg = "Settings saved"
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.mode = settingsModeView
			m.err = nil
			return m, nil

		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + settingsFieldCount) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "enter":
			if m.fieldFocus == settingsFieldCount-1 {
				return m, m.saveSettings()
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()

		case "ctrl+s":
			return m, m.saveSettings()
		}
	}

	// Update the focused text input
	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *SettingsModel) View() string {
	if m.mode == settingsModeEdit {
		return m.viewForm()
	}
	return m.viewSettings()
}

func (m *SettingsModel) viewSettings() string {
	var s string
	s += titleStyle.Render("Store Settings") + "\n\n"

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).
			Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	email := ""
	if m.app != nil && m.app.Config != nil {
		email = m.app.Config.User.Email
	}
	if email == "" {
		email = subtitleStyle.Render("(not set)")
	}

	labelStyle := lipgloss.NewStyle().Bold(true).Width(18)
	valueStyle := lipgloss.NewStyle().Foreground(primaryColor)

	st := m.current
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render(settingsLabels[settingsFieldEmail]), email)
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render(settingsLabels[settingsFieldName]), valueStyle.Render(st.DisplayName()))
	if st != nil {
		s += fmt.Sprintf("  %s %s\n", labelStyle.Render(settingsLabels[settingsFieldPhone]), valueStyle.Render(st.Phone))
		s += fmt.Sprintf("  %s %s\n", labelStyle.Render(settingsLabels[settingsFieldAddress]), valueStyle.Render(st.Address))
	}
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render(settingsLabels[settingsFieldCurrency]), valueStyle.Render(st.CurrencySymbol()))

	s += "\n" + helpStyle.Render("  enter: edit settings")
	return s
}

func (m *SettingsModel) viewForm() string {
	var s string
	s += titleStyle.Render("Edit Store Settings") + "\n\n"

	for i, label := range settingsLabels {
		indicator := "  "
		labelStyle := subtitleStyle
		if i == m.fieldFocus {
			indicator = "> "
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}
		s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, labelStyle.Render(label), m.fields[i].View())
	}

	if m.err != nil {
		s += lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel")
	return s
}
