package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/andy/billbook/internal/domain"
	"github.com/spf13/cobra"
)

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid invoice ID: %w", err)
	}
	return id, nil
}

// resolveInvoiceID takes the invoice from --number when set, else from the ID argument
func resolveInvoiceID(ctx context.Context, cmd *cobra.Command, args []string) (int64, error) {
	number, _ := cmd.Flags().GetString("number")
	if number != "" {
		invoice, err := appInstance.InvoiceService.GetInvoiceByNumber(ctx, number)
		if err != nil {
			return 0, fmt.Errorf("invoice %s: %w", number, err)
		}
		return invoice.ID, nil
	}
	if len(args) == 0 {
		return 0, fmt.Errorf("give an invoice ID or --number")
	}
	return parseID(args[0])
}

// parseItem reads "name:quantity:total". The name may itself contain colons.
func parseItem(s string) (domain.LineItem, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 {
		return domain.LineItem{}, fmt.Errorf("invalid item %q: expected name:quantity:total", s)
	}

	n := len(parts)
	name := strings.TrimSpace(strings.Join(parts[:n-2], ":"))
	if name == "" {
		return domain.LineItem{}, fmt.Errorf("invalid item %q: name is empty", s)
	}

	qty, err := strconv.ParseFloat(strings.TrimSpace(parts[n-2]), 64)
	if err != nil || qty <= 0 {
		return domain.LineItem{}, fmt.Errorf("invalid item %q: quantity must be a positive number", s)
	}

	total, err := strconv.ParseFloat(strings.TrimSpace(parts[n-1]), 64)
	if err != nil || total < 0 {
		return domain.LineItem{}, fmt.Errorf("invalid item %q: total must be a non-negative number", s)
	}

	return domain.LineItem{Name: name, Quantity: qty, Total: total}, nil
}

// currencySymbol returns the user's configured currency, falling back to the default
func currencySymbol(ctx context.Context) string {
	settings, err := appInstance.SettingsService.Get(ctx, appInstance.UserKey())
	if err != nil {
		return domain.DefaultCurrency
	}
	return settings.CurrencySymbol()
}

func formatMoney(currency string, amount float64) string {
	if appInstance != nil && appInstance.Formatter != nil {
		return appInstance.Formatter.FormatAmount(currency, amount)
	}
	return fmt.Sprintf("%s%.2f", currency, amount)
}
