// Package message renders invoices as plain-text messages for chat delivery.
package message

import (
	"strconv"
	"strings"
	"time"

	"github.com/andy/billbook/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultLocale       = "en-IN"
	DefaultDateLayout   = "02/01/2006"
	DefaultCustomerName = "Customer"
)

// dateLayouts are tried in order when reading Invoice.Date
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Formatter composes invoice messages for one locale
type Formatter struct {
	printer    *message.Printer
	dateLayout string
	location   *time.Location // nil means time.Local
}

// NewFormatter creates a Formatter. Unknown locales fall back to DefaultLocale.
func NewFormatter(locale, dateLayout string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	if strings.TrimSpace(dateLayout) == "" {
		dateLayout = DefaultDateLayout
	}
	return &Formatter{
		printer:    message.NewPrinter(tag),
		dateLayout: dateLayout,
	}
}

var defaultFormatter = NewFormatter(DefaultLocale, DefaultDateLayout)

// Compose renders inv with the default locale
func Compose(inv *domain.Invoice, settings *domain.StoreSettings) string {
	return defaultFormatter.Compose(inv, settings)
}

// Compose renders inv as a WhatsApp-friendly text message. It has no side effects
// and degrades missing optional fields to defaults or omission.
func (f *Formatter) Compose(inv *domain.Invoice, settings *domain.StoreSettings) string {
	if inv == nil {
		inv = &domain.Invoice{}
	}
	currency := settings.CurrencySymbol()

	customer := strings.TrimSpace(inv.CustomerName)
	if customer == "" {
		customer = DefaultCustomerName
	}

	var b strings.Builder
	b.WriteString("*" + settings.DisplayName() + "*\n")
	b.WriteString("Invoice: " + inv.Reference() + "\n")
	b.WriteString("Date: " + f.formatDate(inv.Date) + "\n")
	b.WriteString("Customer: " + customer + "\n")

	if inv.Items != nil {
		b.WriteString("\nItems:\n")
		for _, item := range inv.Items {
			b.WriteString(item.Name + " x " + formatQuantity(item.Quantity) + " = " + f.FormatAmount(currency, item.Total) + "\n")
		}
	}

	b.WriteString("\nSubtotal: " + f.FormatAmount(currency, inv.Subtotal) + "\n")
	if inv.Discount > 0 {
		b.WriteString("Discount: -" + f.FormatAmount(currency, inv.Discount) + "\n")
	}
	if inv.Tax > 0 {
		b.WriteString("Tax: +" + f.FormatAmount(currency, inv.Tax) + "\n")
	}
	b.WriteString("*Total: " + f.FormatAmount(currency, inv.Total) + "*\n")
	b.WriteString("\nThank you for your business!")

	return b.String()
}

// formatDate returns "" when raw does not parse
func (f *Formatter) formatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		// Timestamps with an offset are shown on the shop's calendar day;
		// bare dates are already calendar days.
		if strings.Contains(layout, "Z07") {
			t = t.In(f.loc())
		}
		return t.Format(f.dateLayout)
	}
	return ""
}

func (f *Formatter) loc() *time.Location {
	if f.location != nil {
		return f.location
	}
	return time.Local
}

// FormatAmount renders amount with the currency symbol and locale digit grouping
func (f *Formatter) FormatAmount(currency string, amount float64) string {
	return currency + f.printer.Sprintf("%.2f", amount)
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
