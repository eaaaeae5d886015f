package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andy/billbook/internal/db"
	"github.com/andy/billbook/internal/domain"
)

// SettingsRepo is a SQLite implementation of SettingsRepository
type SettingsRepo struct {
	db *db.DB
}

// NewSettingsRepo creates a new SettingsRepo
func NewSettingsRepo(database *db.DB) *SettingsRepo {
	return &SettingsRepo{db: database}
}

// Get retrieves the settings document for userKey, or nil if none was saved
func (r *SettingsRepo) Get(ctx context.Context, userKey string) (*domain.StoreSettings, error) {
	query := `
		SELECT user_key, name, phone, address, currency, updated_at
		FROM store_settings
		WHERE user_key = ?
	`

	s := &domain.StoreSettings{}
	var updatedAt string

	err := r.db.QueryRowContext(ctx, query, userKey).Scan(
		&s.UserKey,
		&s.Name,
		&s.Phone,
		&s.Address,
		&s.Currency,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return s, nil
}

// Upsert creates or replaces the settings document keyed by settings.UserKey
func (r *SettingsRepo) Upsert(ctx context.Context, settings *domain.StoreSettings) error {
	if strings.TrimSpace(settings.UserKey) == "" {
		return errors.New("settings user key is required")
	}

	settings.UpdatedAt = time.Now()

	query := `
		INSERT INTO store_settings (user_key, name, phone, address, currency, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_key) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			address = excluded.address,
			currency = excluded.currency,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		settings.UserKey,
		settings.Name,
		settings.Phone,
		settings.Address,
		settings.Currency,
		formatTime(settings.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}

// DeleteAll removes every settings document
func (r *SettingsRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM store_settings"); err != nil {
		return fmt.Errorf("failed to clear store_settings: %w", err)
	}
	return nil
}
