package tui

import (
	"fmt"

	"github.com/andy/billbook/internal/message"
)

// formatMoney renders amount with the app formatter when there is one
func formatMoney(f *message.Formatter, currency string, amount float64) string {
	if f == nil {
		return fmt.Sprintf("%s%.2f", currency, amount)
	}
	return f.FormatAmount(currency, amount)
}

// truncateStr truncates a string to the specified length with ellipsis
func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
