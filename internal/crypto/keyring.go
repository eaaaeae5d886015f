package crypto

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	ServiceName = "billbook"
	KeyName     = "db-encryption-key"

	// EnvKey overrides the system keyring, for headless machines and CI
	EnvKey = "BILLBOOK_DB_KEY"
)

// ErrKeyNotFound means neither the environment nor the keyring holds a key
var ErrKeyNotFound = errors.New("encryption key not found")

// Keyring provides secure key storage abstraction
type Keyring interface {
	GetKey() (string, error)
	SetKey(password string) error
	DeleteKey() error
	IsAvailable() bool
}

type systemKeyring struct {
	account string
	getenv  func(string) string
}

// NewKeyring returns a keyring backed by the OS secret store (Keychain,
// Secret Service or Windows Credential Manager), with BILLBOOK_DB_KEY taking precedence.
func NewKeyring() Keyring {
	return &systemKeyring{account: KeyName, getenv: os.Getenv}
}

// GetKey returns the database key from the environment or the OS secret store
func (k *systemKeyring) GetKey() (string, error) {
	if key := strings.TrimSpace(k.getenv(EnvKey)); key != "" {
		return key, nil
	}

	key, err := keyring.Get(ServiceName, k.account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to retrieve key from keyring: %w", err)
	}

	if key == "" {
		return "", ErrKeyNotFound
	}

	return key, nil
}

// SetKey stores the key in the OS secret store
func (k *systemKeyring) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}

	if err := keyring.Set(ServiceName, k.account, password); err != nil {
		return fmt.Errorf("keyring not available (set %s instead): %w", EnvKey, err)
	}

	return nil
}

// DeleteKey removes the key from the OS secret store
func (k *systemKeyring) DeleteKey() error {
	if err := keyring.Delete(ServiceName, k.account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrKeyNotFound
		}
		return fmt.Errorf("failed to delete key from keyring: %w", err)
	}
	return nil
}

// IsAvailable reports whether a key can be obtained without prompting
func (k *systemKeyring) IsAvailable() bool {
	_, err := k.GetKey()
	return err == nil
}
