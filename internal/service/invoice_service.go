package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/andy/billbook/internal/domain"
	"github.com/andy/billbook/internal/message"
	"github.com/andy/billbook/internal/repository"
)

// InvoiceService manages stored invoices and renders their delivery message
type InvoiceService interface {
	// CreateInvoice stores an invoice, assigning a number when none is given
	CreateInvoice(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error)

	// ImportJSON stores one invoice object or an array of them
	ImportJSON(ctx context.Context, r io.Reader) ([]*domain.Invoice, error)

	// GetInvoice retrieves an invoice by ID
	GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error)

	// GetInvoiceByNumber retrieves an invoice by its invoice number
	GetInvoiceByNumber(ctx context.Context, number string) (*domain.Invoice, error)

	// ListInvoices lists invoices newest first
	ListInvoices(ctx context.Context, filter repository.InvoiceFilter) ([]*domain.Invoice, error)

	// DeleteInvoice removes an invoice and its items
	DeleteInvoice(ctx context.Context, id int64) error

	// ComposeMessage loads the invoice and the user's store settings and renders the message
	ComposeMessage(ctx context.Context, id int64, userKey string) (*domain.Invoice, string, error)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	settings    SettingsService
	formatter   *message.Formatter
	prefix      string
	now         func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	settings SettingsService,
	formatter *message.Formatter,
	prefix string,
) InvoiceService {
	if prefix == "" {
		prefix = "INV"
	}
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		settings:    settings,
		formatter:   formatter,
		prefix:      prefix,
		now:         time.Now,
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	if invoice == nil {
		return nil, errors.New("invoice is required")
	}

	if strings.TrimSpace(invoice.InvoiceNumber) == "" {
		number, err := s.invoiceRepo.GetNextInvoiceNumber(ctx, s.prefix, s.now().Year())
		if err != nil {
			return nil, fmt.Errorf("failed to generate invoice number: %w", err)
		}
		invoice.InvoiceNumber = number
	}

	// Records without totals get them from their items
	if invoice.Items != nil && invoice.Subtotal == 0 && invoice.Total == 0 {
		invoice.CalculateTotals()
	}

	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = s.now()
	}
	if invoice.Date == "" {
		invoice.Date = invoice.CreatedAt.Format(time.RFC3339)
	}

	if err := invoice.Validate(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	return invoice, nil
}

func (s *invoiceService) ImportJSON(ctx context.Context, r io.Reader) ([]*domain.Invoice, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read invoice data: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("no invoice data")
	}

	var batch []*domain.Invoice
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return nil, fmt.Errorf("failed to parse invoices: %w", err)
		}
	} else {
		var one domain.Invoice
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, fmt.Errorf("failed to parse invoice: %w", err)
		}
		batch = append(batch, &one)
	}

	created := make([]*domain.Invoice, 0, len(batch))
	for i, inv := range batch {
		// IDs from the source system are not ours
		inv.ID = 0
		if _, err := s.CreateInvoice(ctx, inv); err != nil {
			return created, fmt.Errorf("invoice %d: %w", i+1, err)
		}
		created = append(created, inv)
	}

	return created, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

func (s *invoiceService) GetInvoiceByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, domain.ErrInvoiceNotFound
	}
	return s.invoiceRepo.GetByNumber(ctx, number)
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter repository.InvoiceFilter) ([]*domain.Invoice, error) {
	return s.invoiceRepo.List(ctx, filter)
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id int64) error {
	return s.invoiceRepo.Delete(ctx, id)
}

func (s *invoiceService) ComposeMessage(ctx context.Context, id int64, userKey string) (*domain.Invoice, string, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	settings, err := s.settings.Get(ctx, userKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load store settings: %w", err)
	}

	return invoice, s.formatter.Compose(invoice, settings), nil
}
