package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/andy/billbook/internal/app"
	"github.com/andy/billbook/internal/delivery"
	"github.com/andy/billbook/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func detailModel() *InvoicesModel {
	return &InvoicesModel{
		mode:     invoiceViewDetail,
		currency: domain.DefaultCurrency,
		selected: &domain.Invoice{ID: 7, InvoiceNumber: "INV-7", CustomerName: "Asha", CustomerPhone: "9876543210"},
		message:  "*My Store*\nInvoice: INV-7",
	}
}

func TestInvoicesModel_SendIgnoredWhilePending(t *testing.T) {
	m := detailModel()

	_, cmd := m.Update(runeKey("s"))
	require.NotNil(t, cmd, "first send should start a delivery")
	assert.True(t, m.sending)

	_, cmd = m.Update(runeKey("s"))
	assert.Nil(t, cmd, "send key must be ignored while a delivery is pending")
	assert.True(t, m.sending)
}

func TestInvoicesModel_BackBlockedWhileSending(t *testing.T) {
	m := detailModel()
	m.sending = true

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, invoiceViewDetail, m.mode)

	m.sending = false
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, invoiceViewList, m.mode)
	assert.Nil(t, m.selected)
}

func TestInvoicesModel_SentOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		msg        invoiceSentMsg
		wantStatus string
		wantErr    bool
	}{
		{
			name:       "handed off",
			msg:        invoiceSentMsg{result: &delivery.Result{Outcome: domain.OutcomeHandedOff, Number: "919876543210"}},
			wantStatus: "Opened WhatsApp for +919876543210",
		},
		{
			name:       "clipboard fallback",
			msg:        invoiceSentMsg{result: &delivery.Result{Outcome: domain.OutcomeClipboardFallback}},
			wantStatus: "Message copied to clipboard",
		},
		{
			name: "clipboard fallback that failed to copy",
			msg: invoiceSentMsg{result: &delivery.Result{
				Outcome:      domain.OutcomeClipboardFallback,
				ClipboardErr: domain.ErrClipboard,
			}},
		},
		{
			name: "missing destination is left to the notice",
			msg:  invoiceSentMsg{err: domain.ErrMissingDestination},
		},
		{
			name:    "lookup failure",
			msg:     invoiceSentMsg{err: errors.New("invoice not found")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := detailModel()
			m.sending = true

			m.Update(tt.msg)

			assert.False(t, m.sending)
			assert.Equal(t, tt.wantStatus, m.statusMsg)
			assert.Equal(t, tt.wantErr, m.err != nil)
		})
	}
}

func TestInvoicesModel_ListNavigation(t *testing.T) {
	m := &InvoicesModel{mode: invoiceViewList, currency: domain.DefaultCurrency}
	m.Update(invoicesDataMsg{
		invoices: []*domain.Invoice{{ID: 1}, {ID: 2}, {ID: 3}},
		currency: "$",
	})

	assert.Equal(t, "$", m.currency)
	m.Update(runeKey("j"))
	m.Update(runeKey("j"))
	m.Update(runeKey("j"))
	assert.Equal(t, 2, m.cursor)
	m.Update(runeKey("k"))
	assert.Equal(t, 1, m.cursor)

	// shrinking list clamps the cursor
	m.Update(invoicesDataMsg{invoices: []*domain.Invoice{{ID: 1}}})
	assert.Equal(t, 0, m.cursor)
}

func TestInvoicesModel_DeleteConfirmation(t *testing.T) {
	m := &InvoicesModel{mode: invoiceViewList, invoices: []*domain.Invoice{{ID: 4, InvoiceNumber: "INV-4"}}}

	m.Update(runeKey("d"))
	assert.Equal(t, invoiceViewConfirmDelete, m.mode)
	assert.Contains(t, m.View(), "Delete invoice INV-4?")

	_, cmd := m.Update(runeKey("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, invoiceViewList, m.mode)

	m.Update(runeKey("d"))
	_, cmd = m.Update(runeKey("y"))
	assert.NotNil(t, cmd)
}

func TestInvoicesModel_DetailViewShowsMessage(t *testing.T) {
	m := detailModel()
	view := m.View()

	assert.Contains(t, view, "Invoice INV-7")
	assert.Contains(t, view, "Invoice: INV-7")
	assert.Contains(t, view, "s: send via WhatsApp")

	m.sending = true
	assert.Contains(t, m.View(), "Sending...")
}

func TestModel_NoticeBannerClearedOnKey(t *testing.T) {
	m := Model{currentScreen: ScreenInvoices, width: 100, height: 40}

	updated, _ := m.Update(NoticeMsg{Notice: delivery.Notice{
		Kind:  delivery.NoticeAppUnavailable,
		Title: "WhatsApp not available",
		Body:  "The invoice message was copied to your clipboard.",
	}})
	m = updated.(Model)
	require.NotNil(t, m.notice)
	assert.Contains(t, m.View(), "WhatsApp not available")

	updated, _ = m.Update(runeKey("x"))
	m = updated.(Model)
	assert.Nil(t, m.notice)
}

func TestModel_QuitAllowedWhenIdle(t *testing.T) {
	m := Model{currentScreen: ScreenInvoices}
	_, cmd := m.Update(runeKey("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

// blockingLauncher holds Open until released
type blockingLauncher struct {
	entered chan struct{}
	release chan struct{}
}

func (l *blockingLauncher) CanOpen(context.Context, string) (bool, error) { return true, nil }

func (l *blockingLauncher) Open(context.Context, string) error {
	close(l.entered)
	<-l.release
	return nil
}

type nopClipboard struct{}

func (nopClipboard) WriteText(context.Context, string) error { return nil }

func TestModel_QuitBlockedWhileDelivering(t *testing.T) {
	l := &blockingLauncher{entered: make(chan struct{}), release: make(chan struct{})}
	a := &app.App{Orchestrator: delivery.NewOrchestrator(l, nopClipboard{}, nil, delivery.Options{})}
	m := Model{app: a, currentScreen: ScreenInvoices}

	done := make(chan error, 1)
	go func() {
		_, err := a.Orchestrator.Deliver(context.Background(), "9876543210", "hello")
		done <- err
	}()
	<-l.entered

	updated, cmd := m.Update(runeKey("q"))
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.Contains(t, m.quitMsg, "delivery is in progress")

	close(l.release)
	require.NoError(t, <-done)

	_, cmd = m.Update(runeKey("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestSettingsModel_FormValues(t *testing.T) {
	m := &SettingsModel{current: &domain.StoreSettings{Name: "Rao Stores", Currency: "₹"}}
	m.initForm()

	assert.Equal(t, settingsFieldEmail, m.fieldFocus, "email is focused first when unset")

	m.fields[settingsFieldEmail].SetValue(" Owner@Example.com ")
	m.fields[settingsFieldPhone].SetValue("9876543210")

	email, s := m.formValues()
	assert.Equal(t, "Owner@Example.com", email)
	assert.Equal(t, domain.UserKey("owner@example.com"), s.UserKey)
	assert.Equal(t, "Rao Stores", s.Name)
	assert.Equal(t, "9876543210", s.Phone)
	assert.Equal(t, "₹", s.Currency)
}

func TestSettingsModel_EscLeavesForm(t *testing.T) {
	m := &SettingsModel{mode: settingsModeView}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.IsCapturingInput())

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.IsCapturingInput())
}

func TestTruncateStr(t *testing.T) {
	assert.Equal(t, "abc", truncateStr("abc", 5))
	assert.Equal(t, "ab...", truncateStr("abcdefgh", 5))
	assert.Equal(t, "ab", truncateStr("abcdefgh", 2))
}
