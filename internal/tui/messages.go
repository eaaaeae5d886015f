package tui

import "github.com/andy/billbook/internal/delivery"

// RefreshDataMsg requests data refresh
type RefreshDataMsg struct{}

// NoticeMsg carries a delivery notice raised by the orchestrator
type NoticeMsg struct {
	Notice delivery.Notice
}
