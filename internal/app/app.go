package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/andy/billbook/internal/config"
	"github.com/andy/billbook/internal/crypto"
	"github.com/andy/billbook/internal/db"
	"github.com/andy/billbook/internal/delivery"
	"github.com/andy/billbook/internal/domain"
	"github.com/andy/billbook/internal/logging"
	"github.com/andy/billbook/internal/message"
	"github.com/andy/billbook/internal/platform"
	"github.com/andy/billbook/internal/repository"
	"github.com/andy/billbook/internal/service"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// App is the dependency injection container for all application components
type App struct {
	Config  *config.Config
	DB      *db.DB
	Logger  *zap.Logger
	Keyring crypto.Keyring

	// Repositories
	InvoiceRepo  repository.InvoiceRepository
	SettingsRepo repository.SettingsRepository

	// Services
	Formatter       *message.Formatter
	InvoiceService  service.InvoiceService
	SettingsService service.SettingsService

	// Delivery
	Notifier     *delivery.NotifierSwitch
	Orchestrator *delivery.Orchestrator
	SendService  service.SendService
}

// Options tweak how the App is built
type Options struct {
	Verbose bool
}

// New creates a new App instance, initializing all dependencies
// It handles:
// 1. Loading config
// 2. Getting encryption key from keyring
// 3. Opening database
// 4. Running migrations
// 5. Creating repositories and services
// 6. Wiring the delivery orchestrator to the desktop launcher and clipboard
func New(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg, opts)
}

// NewWithConfig creates an App with a provided config
func NewWithConfig(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logger, err := logging.New(cfg.Logging, opts.Verbose)
	if err != nil {
		return nil, err
	}

	keyring := crypto.NewKeyring()

	password, err := keyring.GetKey()
	if err != nil {
		if !errors.Is(err, crypto.ErrKeyNotFound) {
			logger.Warn("keyring lookup failed", zap.Error(err))
		}
		fmt.Println("Setting up database encryption for the first time...")
		password, err = promptForPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to set password: %w", err)
		}

		if err := keyring.SetKey(password); err != nil {
			return nil, fmt.Errorf("failed to store encryption key: %w", err)
		}
	}

	database, err := db.Open(cfg.Database.Path, password)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a := Build(cfg, database, logger, platform.NewLauncher(), platform.NewClipboard())
	a.Keyring = keyring
	logger.Debug("app initialized", zap.String("database", cfg.Database.Path))
	return a, nil
}

// Build wires repositories, services and delivery around an open database.
// Launcher and clipboard are parameters so tests can substitute fakes.
func Build(cfg *config.Config, database *db.DB, logger *zap.Logger, launcher delivery.Launcher, clipboard delivery.Clipboard) *App {
	if logger == nil {
		logger = zap.NewNop()
	}

	invoiceRepo := repository.NewInvoiceRepo(database)
	settingsRepo := repository.NewSettingsRepo(database)

	formatter := message.NewFormatter(cfg.Delivery.Locale, cfg.Delivery.DateLayout)
	settingsService := service.NewSettingsService(settingsRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, settingsService, formatter, cfg.Invoice.NumberPrefix)

	notifier := delivery.NewNotifierSwitch()
	orchestrator := delivery.NewOrchestrator(launcher, clipboard, notifier, delivery.Options{
		CountryCode: cfg.Delivery.CountryCode,
		LinkStyle:   delivery.ParseLinkStyle(cfg.Delivery.LinkStyle),
		Logger:      logger,
	})

	return &App{
		Config:          cfg,
		DB:              database,
		Logger:          logger,
		InvoiceRepo:     invoiceRepo,
		SettingsRepo:    settingsRepo,
		Formatter:       formatter,
		InvoiceService:  invoiceService,
		SettingsService: settingsService,
		Notifier:        notifier,
		Orchestrator:    orchestrator,
		SendService:     service.NewSendService(invoiceService, orchestrator, logger),
	}
}

// UserKey returns the settings key derived from the configured email
func (a *App) UserKey() string {
	return domain.UserKey(a.Config.User.Email)
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// Wipe closes the database, removes its files and forgets the stored encryption
// key, so the next run starts over with a new password. A key supplied through
// the environment is left alone.
func (a *App) Wipe() error {
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.DB = nil
	}

	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(a.Config.Database.Path + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove database: %w", err)
		}
	}

	if a.Keyring == nil || !a.Keyring.IsAvailable() {
		return nil
	}
	if err := a.Keyring.DeleteKey(); err != nil && !errors.Is(err, crypto.ErrKeyNotFound) {
		return err
	}
	a.Logger.Info("database wiped and encryption key forgotten")
	return nil
}

// promptForPassword prompts user for a new database password (first run)
// This should be called when keyring has no stored key
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your invoices and store settings will be encrypted with a password.")
	fmt.Println("This password will be stored securely in your system keyring.")
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured successfully")
	fmt.Println()

	return string(password), nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}
