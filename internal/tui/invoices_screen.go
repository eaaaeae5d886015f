package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/andy/billbook/internal/app"
	"github.com/andy/billbook/internal/delivery"
	"github.com/andy/billbook/internal/domain"
	"github.com/andy/billbook/internal/message"
	"github.com/andy/billbook/internal/repository"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type invoiceViewMode int

const (
	invoiceViewList          invoiceViewMode = iota
	invoiceViewDetail                        // Viewing a single invoice and its message
	invoiceViewConfirmDelete                 // Waiting for y/n
)

// InvoicesModel displays invoices in list and detail views and sends them
type InvoicesModel struct {
	app       *app.App
	mode      invoiceViewMode
	invoices  []*domain.Invoice
	cursor    int
	selected  *domain.Invoice
	message   string // composed message for selected
	currency  string
	loading   bool
	sending   bool
	err       error
	statusMsg string
}

type invoicesDataMsg struct {
	invoices []*domain.Invoice
	currency string
	err      error
}

type invoiceDetailMsg struct {
	invoice *domain.Invoice
	message string
	err     error
}

// invoiceSentMsg reports the end of a delivery attempt
type invoiceSentMsg struct {
	result *delivery.Result
	err    error
}

type invoiceDeletedMsg struct {
	id  int64
	err error
}

// NewInvoicesModel creates a new invoices screen model
func NewInvoicesModel(a *app.App) tea.Model {
	return &InvoicesModel{
		app:      a,
		mode:     invoiceViewList,
		currency: domain.DefaultCurrency,
		loading:  true,
	}
}

func (m *InvoicesModel) Init() tea.Cmd {
	return m.loadInvoices()
}

func (m *InvoicesModel) loadInvoices() tea.Cmd {
	a := m.app
	return func() tea.Msg {
		ctx := context.Background()
		invoices, err := a.InvoiceService.ListInvoices(ctx, repository.InvoiceFilter{})
		if err != nil {
			return invoicesDataMsg{err: err}
		}

		currency := domain.DefaultCurrency
		if settings, err := a.SettingsService.Get(ctx, a.UserKey()); err == nil {
			currency = settings.CurrencySymbol()
		}

		return invoicesDataMsg{invoices: invoices, currency: currency}
	}
}

// loadDetail fetches the invoice with items and composes its message
func (m *InvoicesModel) loadDetail(id int64) tea.Cmd {
	a := m.app
	return func() tea.Msg {
		invoice, msg, err := a.InvoiceService.ComposeMessage(context.Background(), id, a.UserKey())
		if err != nil {
			return invoiceDetailMsg{err: err}
		}
		return invoiceDetailMsg{invoice: invoice, message: msg}
	}
}

// sendInvoice composes afresh and delivers. Notices arrive separately as NoticeMsg.
func (m *InvoicesModel) sendInvoice(id int64) tea.Cmd {
	a := m.app
	return func() tea.Msg {
		result, err := a.SendService.Send(context.Background(), id, a.UserKey(), "")
		return invoiceSentMsg{result: result, err: err}
	}
}

func (m *InvoicesModel) deleteInvoice(id int64) tea.Cmd {
	a := m.app
	return func() tea.Msg {
		err := a.InvoiceService.DeleteInvoice(context.Background(), id)
		return invoiceDeletedMsg{id: id, err: err}
	}
}

func (m *InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadInvoices()

	case invoicesDataMsg:
		m.loading = false
		m.err = msg.err
		m.invoices = msg.invoices
		if msg.currency != "" {
			m.currency = msg.currency
		}
		if m.cursor >= len(m.invoices) {
			m.cursor = max(len(m.invoices)-1, 0)
		}
		return m, nil

	case invoiceDetailMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.selected = msg.invoice
		m.message = msg.message
		m.mode = invoiceViewDetail
		return m, nil

	case invoiceSentMsg:
		m.sending = false
		m.statusMsg = ""
		if msg.err != nil {
			// Missing number is already shown as a notice
			if !errors.Is(msg.err, domain.ErrMissingDestination) {
				m.err = msg.err
			}
			return m, nil
		}
		switch msg.result.Outcome {
		case domain.OutcomeHandedOff:
			m.statusMsg = fmt.Sprintf("Opened WhatsApp for +%s", msg.result.Number)
		case domain.OutcomeClipboardFallback:
			if msg.result.ClipboardErr == nil {
				m.statusMsg = "Message copied to clipboard"
			}
		}
		return m, nil

	case invoiceDeletedMsg:
		m.mode = invoiceViewList
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Invoice #%d deleted", msg.id)
		m.loading = true
		return m, m.loadInvoices()

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch m.mode {
		case invoiceViewList:
			return m.updateList(msg)
		case invoiceViewDetail:
			return m.updateDetail(msg)
		case invoiceViewConfirmDelete:
			return m.updateConfirmDelete(msg)
		}
	}

	return m, nil
}

func (m *InvoicesModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	switch {
	case key.Matches(msg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, DefaultKeyMap.Down):
		if m.cursor < len(m.invoices)-1 {
			m.cursor++
		}
	case key.Matches(msg, DefaultKeyMap.Select):
		if len(m.invoices) > 0 {
			m.loading = true
			m.statusMsg = ""
			return m, m.loadDetail(m.invoices[m.cursor].ID)
		}
	case key.Matches(msg, DefaultKeyMap.Delete):
		if len(m.invoices) > 0 {
			m.mode = invoiceViewConfirmDelete
		}
	case key.Matches(msg, DefaultKeyMap.Refresh):
		m.loading = true
		return m, m.loadInvoices()
	}

	return m, nil
}

func (m *InvoicesModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Back):
		if m.sending {
			return m, nil
		}
		m.mode = invoiceViewList
		m.selected = nil
		m.message = ""
		m.statusMsg = ""
		m.err = nil
	case key.Matches(msg, DefaultKeyMap.Send):
		// One delivery at a time
		if m.sending || m.selected == nil {
			return m, nil
		}
		m.sending = true
		m.err = nil
		m.statusMsg = ""
		return m, m.sendInvoice(m.selected.ID)
	}
	return m, nil
}

func (m *InvoicesModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m, m.deleteInvoice(m.invoices[m.cursor].ID)
	default:
		m.mode = invoiceViewList
	}
	return m, nil
}

func (m *InvoicesModel) View() string {
	if m.loading {
		return subtitleStyle.Render("  Loading...")
	}

	switch m.mode {
	case invoiceViewDetail:
		return m.viewDetail()
	default:
		return m.viewList()
	}
}

func (m *InvoicesModel) money(amount float64) string {
	var f *message.Formatter
	if m.app != nil {
		f = m.app.Formatter
	}
	return formatMoney(f, m.currency, amount)
}

func (m *InvoicesModel) viewList() string {
	var s string
	s += titleStyle.Render("Invoices") + "\n\n"

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += lipgloss.NewStyle().Foreground(errorColor).Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	if len(m.invoices) == 0 {
		s += subtitleStyle.Render("  No invoices yet. Add one with: billbook invoices add") + "\n"
		return s
	}

	s += subtitleStyle.Render(fmt.Sprintf("  %-14s  %-22s  %-14s  %12s", "Number", "Customer", "Phone", "Total")) + "\n"

	for i, inv := range m.invoices {
		line := fmt.Sprintf("  %-14s  %-22s  %-14s  %12s",
			truncateStr(inv.Reference(), 14),
			truncateStr(inv.CustomerName, 22),
			truncateStr(inv.Phone(), 14),
			m.money(inv.Total),
		)
		if i == m.cursor {
			s += selectedStyle.Render(line) + "\n"
		} else {
			s += line + "\n"
		}
	}

	if m.mode == invoiceViewConfirmDelete {
		s += "\n" + lipgloss.NewStyle().Foreground(warningColor).Render(
			fmt.Sprintf("  Delete invoice %s? (y/n)", m.invoices[m.cursor].Reference()),
		) + "\n"
		return s
	}

	s += "\n" + helpStyle.Render("  j/k: navigate  enter: view & send  d: delete  r: refresh")
	return s
}

func (m *InvoicesModel) viewDetail() string {
	inv := m.selected
	if inv == nil {
		return "No invoice selected"
	}

	var s string
	s += titleStyle.Render(fmt.Sprintf("Invoice %s", inv.Reference())) + "\n\n"

	customer := inv.CustomerName
	if customer == "" {
		customer = "-"
	}
	phone := inv.Phone()
	if phone == "" {
		phone = lipgloss.NewStyle().Foreground(warningColor).Render("no mobile number")
	}
	s += fmt.Sprintf("  Customer: %s\n", customer)
	s += fmt.Sprintf("  Phone:    %s\n", phone)
	s += fmt.Sprintf("  Items:    %s\n", strconv.Itoa(len(inv.Items)))
	s += fmt.Sprintf("  Total:    %s\n\n", m.money(inv.Total))

	s += subtitleStyle.Render("  Message preview") + "\n"
	s += messageBoxStyle.Render(m.message) + "\n\n"

	switch {
	case m.sending:
		s += pendingStyle.Render("  Sending...") + "\n\n"
	case m.statusMsg != "":
		s += lipgloss.NewStyle().Foreground(successColor).Render("  "+m.statusMsg) + "\n\n"
	case m.err != nil:
		s += lipgloss.NewStyle().Foreground(errorColor).Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render("  s: send via WhatsApp  esc: back to list")
	return s
}
