package repository

import (
	"context"

	"github.com/andy/billbook/internal/domain"
)

// InvoiceRepository manages invoice persistence
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error) // Returns ErrInvoiceNotFound if absent
	GetByNumber(ctx context.Context, number string) (*domain.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]*domain.Invoice, error) // Items are not loaded
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	GetNextInvoiceNumber(ctx context.Context, prefix string, year int) (string, error)
}

// InvoiceFilter narrows List results. Zero values match everything.
type InvoiceFilter struct {
	Customer string // substring match on customer name
	Limit    int
}

// SettingsRepository manages the per-user store settings document
type SettingsRepository interface {
	Get(ctx context.Context, userKey string) (*domain.StoreSettings, error) // Returns nil if not saved yet
	Upsert(ctx context.Context, settings *domain.StoreSettings) error
	DeleteAll(ctx context.Context) error
}
