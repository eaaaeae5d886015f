package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/billbook/internal/app"
	"github.com/andy/billbook/internal/delivery"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenInvoices Screen = iota
	ScreenSettings
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenInvoices:
		return "Invoices"
	case ScreenSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// screenFactories builds each screen on first visit
var screenFactories = map[Screen]func(*app.App) tea.Model{
	ScreenInvoices: NewInvoicesModel,
	ScreenSettings: NewSettingsModel,
}

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	currentScreen Screen
	width         int
	height        int

	// Screen models, created lazily
	screens map[Screen]tea.Model

	// Latest delivery notice, cleared on the next keypress
	notice *delivery.Notice

	quitMsg string // shown when quit is blocked
}

// New creates a new root model
func New(a *app.App) Model {
	return Model{
		app:           a,
		currentScreen: ScreenInvoices,
		screens: map[Screen]tea.Model{
			ScreenInvoices: NewInvoicesModel(a),
		},
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if screen := m.screens[m.currentScreen]; screen != nil {
		return screen.Init()
	}
	return nil
}

// switchTo makes screen current. First visits build and init the screen;
// later visits send RefreshDataMsg so it reloads.
func (m *Model) switchTo(screen Screen) tea.Cmd {
	m.currentScreen = screen
	if m.screens == nil {
		m.screens = make(map[Screen]tea.Model)
	}
	if _, ok := m.screens[screen]; ok {
		return func() tea.Msg { return RefreshDataMsg{} }
	}
	factory, ok := screenFactories[screen]
	if !ok {
		return nil
	}
	model := factory(m.app)
	m.screens[screen] = model
	return model.Init()
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys (I, ",", Q) are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.screens[m.currentScreen].(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

func (m *Model) deliveryInProgress() bool {
	return m.app != nil && m.app.Orchestrator != nil && m.app.Orchestrator.InProgress()
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Clear transient banners on any keypress
		m.quitMsg = ""
		m.notice = nil

		// Skip global navigation when a screen is capturing text input
		if !m.activeScreenCapturingInput() {
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				if m.deliveryInProgress() {
					m.quitMsg = "A delivery is in progress. Wait for it to finish before quitting."
					return m, nil
				}
				return m, tea.Quit

			case key.Matches(msg, DefaultKeyMap.Invoices):
				return m, m.switchTo(ScreenInvoices)

			case key.Matches(msg, DefaultKeyMap.Settings):
				return m, m.switchTo(ScreenSettings)
			}
		}

	case NoticeMsg:
		n := msg.Notice
		m.notice = &n
		return m, nil

	}

	// Route everything else to the current screen
	screen, ok := m.screens[m.currentScreen]
	if !ok {
		return m, nil
	}
	screen, cmd := screen.Update(msg)
	m.screens[m.currentScreen] = screen
	return m, cmd
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := headerStyle.Render(fmt.Sprintf("billbook - %s", m.currentScreen.String()))
	footer := footerStyle.Render("[I]nvoices  [,] Settings  [Q]uit")

	content := "Loading..."
	if screen, ok := m.screens[m.currentScreen]; ok {
		content = screen.View()
	}

	// Notice/warning display
	banner := ""
	switch {
	case m.notice != nil:
		banner = "\n" + renderNotice(*m.notice)
	case m.quitMsg != "":
		banner = lipgloss.NewStyle().
			Foreground(warningColor).
			Render(fmt.Sprintf("\n%s", m.quitMsg))
	}

	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(
		strings.Repeat("─", dividerWidth),
	)

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, banner, divider, footer)

	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4) // leave room for border top/bottom
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

func renderNotice(n delivery.Notice) string {
	title := noticeTitleStyle
	if n.Kind == delivery.NoticeHandoffError {
		title = noticeErrorStyle
	}
	return title.Render("! "+n.Title) + "\n" + n.Body
}

// Run starts the TUI. Delivery notices are routed into the program while it runs.
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())

	if a.Notifier != nil {
		a.Notifier.Set(delivery.NotifierFunc(func(_ context.Context, n delivery.Notice) {
			p.Send(NoticeMsg{Notice: n})
		}))
		defer a.Notifier.Set(nil)
	}

	_, err := p.Run()
	return err
}
