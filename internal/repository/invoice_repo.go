package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andy/billbook/internal/db"
	"github.com/andy/billbook/internal/domain"
)

// InvoiceRepo is a SQLite implementation of InvoiceRepository
type InvoiceRepo struct {
	db *db.DB
}

// NewInvoiceRepo creates a new InvoiceRepo
func NewInvoiceRepo(database *db.DB) *InvoiceRepo {
	return &InvoiceRepo{db: database}
}

const invoiceColumns = `
	id, invoice_number, invoice_date, customer_name, customer_phone, customer_mobile,
	has_items, subtotal, discount, tax, total, created_at
`

// Create inserts an invoice and its line items in one transaction
func (r *InvoiceRepo) Create(ctx context.Context, invoice *domain.Invoice) error {
	if err := invoice.Validate(); err != nil {
		return fmt.Errorf("invalid invoice: %w", err)
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO invoices (
				invoice_number, invoice_date, customer_name, customer_phone, customer_mobile,
				has_items, subtotal, discount, tax, total, created_at
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			invoice.InvoiceNumber,
			invoice.Date,
			invoice.CustomerName,
			invoice.CustomerPhone,
			invoice.CustomerMobile,
			boolToInt(invoice.Items != nil),
			invoice.Subtotal,
			invoice.Discount,
			invoice.Tax,
			invoice.Total,
			formatTime(invoice.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get invoice ID: %w", err)
		}

		for pos, item := range invoice.Items {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO invoice_items (invoice_id, position, name, quantity, total)
				VALUES (?, ?, ?, ?, ?)
			`, id, pos, item.Name, item.Quantity, item.Total)
			if err != nil {
				return fmt.Errorf("failed to add line item %d: %w", pos+1, err)
			}
		}

		invoice.ID = id
		return nil
	})
}

// GetByID retrieves an invoice with its line items
func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+invoiceColumns+" FROM invoices WHERE id = ?", id)
	return r.getOne(ctx, row)
}

// GetByNumber retrieves an invoice with its line items by invoice number
func (r *InvoiceRepo) GetByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+invoiceColumns+" FROM invoices WHERE invoice_number = ?", number)
	return r.getOne(ctx, row)
}

func (r *InvoiceRepo) getOne(ctx context.Context, row *sql.Row) (*domain.Invoice, error) {
	invoice, hasItems, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	if hasItems {
		if invoice.Items, err = r.getItems(ctx, invoice.ID); err != nil {
			return nil, err
		}
	}

	return invoice, nil
}

// List retrieves invoices newest first, without line items
func (r *InvoiceRepo) List(ctx context.Context, filter InvoiceFilter) ([]*domain.Invoice, error) {
	query := "SELECT " + invoiceColumns + " FROM invoices WHERE 1=1"
	args := make([]interface{}, 0)

	if filter.Customer != "" {
		query += " AND customer_name LIKE ?"
		args = append(args, "%"+filter.Customer+"%")
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices := make([]*domain.Invoice, 0)
	for rows.Next() {
		invoice, _, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoices: %w", err)
	}

	return invoices, nil
}

// Delete removes an invoice; its items go with it through ON DELETE CASCADE
func (r *InvoiceRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM invoices WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}

	return nil
}

// DeleteAll removes every invoice and line item
func (r *InvoiceRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		// Order matters due to foreign keys
		for _, table := range []string{"invoice_items", "invoices"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// GetNextInvoiceNumber generates the next invoice number in format "PREFIX-YEAR-SEQUENCE"
func (r *InvoiceRepo) GetNextInvoiceNumber(ctx context.Context, prefix string, year int) (string, error) {
	query := `
		SELECT invoice_number
		FROM invoices
		WHERE invoice_number LIKE ?
		ORDER BY length(invoice_number) DESC, invoice_number DESC
		LIMIT 1
	`

	pattern := fmt.Sprintf("%s-%d-%%", prefix, year)
	var lastNumber string

	err := r.db.QueryRowContext(ctx, query, pattern).Scan(&lastNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Sprintf("%s-%d-001", prefix, year), nil
		}
		return "", fmt.Errorf("failed to get last invoice number: %w", err)
	}

	// Format: PREFIX-YEAR-SEQUENCE (e.g., "INV-2026-005")
	var parsedYear, lastSeq int
	if _, err := fmt.Sscanf(lastNumber, prefix+"-%d-%d", &parsedYear, &lastSeq); err != nil {
		return fmt.Sprintf("%s-%d-001", prefix, year), nil
	}

	return fmt.Sprintf("%s-%d-%03d", prefix, year, lastSeq+1), nil
}

func (r *InvoiceRepo) getItems(ctx context.Context, invoiceID int64) ([]domain.LineItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, quantity, total
		FROM invoice_items
		WHERE invoice_id = ?
		ORDER BY position
	`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get line items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.LineItem, 0)
	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.Name, &item.Quantity, &item.Total); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line items: %w", err)
	}

	return items, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanInvoice reads one invoices row and reports whether it carries items
func scanInvoice(s scanner) (*domain.Invoice, bool, error) {
	invoice := &domain.Invoice{}
	var hasItems int
	var createdAt string

	err := s.Scan(
		&invoice.ID,
		&invoice.InvoiceNumber,
		&invoice.Date,
		&invoice.CustomerName,
		&invoice.CustomerPhone,
		&invoice.CustomerMobile,
		&hasItems,
		&invoice.Subtotal,
		&invoice.Discount,
		&invoice.Tax,
		&invoice.Total,
		&createdAt,
	)
	if err != nil {
		return nil, false, err
	}

	if invoice.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, false, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return invoice, hasItems == 1, nil
}
