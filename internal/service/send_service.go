package service

import (
	"context"
	"strings"

	"github.com/andy/billbook/internal/delivery"
	"go.uber.org/zap"
)

// Deliverer hands a message to the customer's messaging app
type Deliverer interface {
	Deliver(ctx context.Context, rawNumber, message string) (*delivery.Result, error)
}

// SendService composes an invoice message and delivers it
type SendService interface {
	// Send composes the message afresh and delivers it to the invoice's customer,
	// or to phoneOverride when given
	Send(ctx context.Context, invoiceID int64, userKey, phoneOverride string) (*delivery.Result, error)
}

type sendService struct {
	invoices  InvoiceService
	deliverer Deliverer
	logger    *zap.Logger
}

// NewSendService creates a new send service. A nil logger discards output.
func NewSendService(invoices InvoiceService, deliverer Deliverer, logger *zap.Logger) SendService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sendService{invoices: invoices, deliverer: deliverer, logger: logger.Named("send")}
}

func (s *sendService) Send(ctx context.Context, invoiceID int64, userKey, phoneOverride string) (*delivery.Result, error) {
	s.logger.Debug("composing invoice message", zap.Int64("invoice_id", invoiceID))
	invoice, msg, err := s.invoices.ComposeMessage(ctx, invoiceID, userKey)
	if err != nil {
		return nil, err
	}

	number := invoice.Phone()
	if p := strings.TrimSpace(phoneOverride); p != "" {
		number = p
	}

	return s.deliverer.Deliver(ctx, number, msg)
}
