package service

import (
	"context"
	"errors"
	"strings"

	"github.com/andy/billbook/internal/domain"
	"github.com/andy/billbook/internal/repository"
)

// SettingsService reads and writes the per-user store settings document
type SettingsService interface {
	// Get returns the saved settings, or defaults when none were saved
	Get(ctx context.Context, userKey string) (*domain.StoreSettings, error)

	// Save creates or replaces the settings document
	Save(ctx context.Context, settings *domain.StoreSettings) error
}

type settingsService struct {
	repo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo repository.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) Get(ctx context.Context, userKey string) (*domain.StoreSettings, error) {
	settings, err := s.repo.Get(ctx, userKey)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return domain.NewStoreSettings(userKey), nil
	}
	return settings, nil
}

func (s *settingsService) Save(ctx context.Context, settings *domain.StoreSettings) error {
	if settings == nil || strings.TrimSpace(settings.UserKey) == "" {
		return errors.New("settings need a user key (set user.email in the config)")
	}
	settings.Name = strings.TrimSpace(settings.Name)
	settings.Phone = strings.TrimSpace(settings.Phone)
	if strings.TrimSpace(settings.Currency) == "" {
		settings.Currency = domain.DefaultCurrency
	}
	return s.repo.Upsert(ctx, settings)
}
