package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

type Invoice struct {
	ID             int64      `json:"id"`
	InvoiceNumber  string     `json:"invoiceNumber"`
	Date           string     `json:"date"` // as received; may not parse
	CustomerName   string     `json:"customerName"`
	CustomerPhone  string     `json:"customerPhone"`
	CustomerMobile string     `json:"customerMobile"` // alternate field used by older records
	Items          []LineItem `json:"items"`          // nil when the record carries no items
	Subtotal       float64    `json:"subtotal"`
	Discount       float64    `json:"discount"`
	Tax            float64    `json:"tax"`
	Total          float64    `json:"total"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type LineItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Total    float64 `json:"total"`
}

// NewInvoice creates an invoice dated today
func NewInvoice(invoiceNumber, customerName string) *Invoice {
	now := time.Now()
	return &Invoice{
		InvoiceNumber: strings.TrimSpace(invoiceNumber),
		CustomerName:  strings.TrimSpace(customerName),
		Date:          now.Format(time.RFC3339),
		CreatedAt:     now,
	}
}

// Phone returns the destination number, preferring CustomerPhone over CustomerMobile
func (i *Invoice) Phone() string {
	if p := strings.TrimSpace(i.CustomerPhone); p != "" {
		return p
	}
	return strings.TrimSpace(i.CustomerMobile)
}

// Reference returns the invoice number, or the ID when no number was assigned
func (i *Invoice) Reference() string {
	if n := strings.TrimSpace(i.InvoiceNumber); n != "" {
		return n
	}
	return strconv.FormatInt(i.ID, 10)
}

// CalculateTotals recalculates subtotal and total from line items, discount and tax
func (i *Invoice) CalculateTotals() {
	i.Subtotal = 0
	for _, item := range i.Items {
		i.Subtotal += item.Total
	}
	i.Total = i.Subtotal - i.Discount + i.Tax
}

// Validate returns an error if the invoice cannot be stored
func (i *Invoice) Validate() error {
	if strings.TrimSpace(i.InvoiceNumber) == "" && i.ID <= 0 {
		return errors.New("invoice number is required")
	}
	if i.Subtotal < 0 || i.Total < 0 {
		return errors.New("invoice amounts cannot be negative")
	}
	if i.Discount < 0 {
		return errors.New("discount cannot be negative")
	}
	if i.Tax < 0 {
		return errors.New("tax cannot be negative")
	}
	for idx, item := range i.Items {
		if strings.TrimSpace(item.Name) == "" {
			return errors.New("line item " + strconv.Itoa(idx+1) + " has no name")
		}
		if item.Quantity < 0 || item.Total < 0 {
			return errors.New("line item " + strconv.Itoa(idx+1) + " has a negative amount")
		}
	}
	return nil
}
