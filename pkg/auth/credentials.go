package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultProfile is the profile name used when none is given.
const DefaultProfile = "default"

// Common credential errors
var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)

// Account represents one set of API credentials. The bearer token is what
// the collector actually sends; key/secret are optional and kept only for
// regenerating tokens.
type Account struct {
	Profile      string    `json:"profile"`
	BearerToken  string    `json:"bearer_token"`
	APIKey       string    `json:"api_key,omitempty"`
	APISecret    string    `json:"api_secret,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// CredentialStore is the interface for storing and retrieving credentials
type CredentialStore interface {
	// Store saves credentials for a given profile
	Store(account *Account) error

	// Retrieve gets credentials for a specific profile
	Retrieve(profile string) (*Account, error)

	// List returns all stored profiles
	List() ([]*Account, error)

	// Delete removes credentials for a specific profile
	Delete(profile string) error

	// Exists checks if credentials exist for a profile
	Exists(profile string) bool
}

// Manager handles credential storage with fallback mechanisms
type Manager struct {
	stores []CredentialStore
}

// NewManager creates a new credential manager with appropriate storage
// backends: system keyring first, encrypted file second, environment
// variables as read-only last resort.
func NewManager() (*Manager, error) {
	var stores []CredentialStore

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a manager over explicit stores, for tests
func NewManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves credentials using the first store that accepts them
func (m *Manager) Store(account *Account) error {
	if account == nil || account.BearerToken == "" {
		return ErrInvalidCredentials
	}
	if account.Profile == "" {
		account.Profile = DefaultProfile
	}

	account.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(account); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store credentials: %w", lastErr)
	}
	return ErrStoreUnavailable
}

// Retrieve gets credentials from the first store that has them
func (m *Manager) Retrieve(profile string) (*Account, error) {
	if profile == "" {
		profile = DefaultProfile
	}

	for _, store := range m.stores {
		if account, err := store.Retrieve(profile); err == nil {
			return account, nil
		}
	}

	return nil, fmt.Errorf("%w: profile %s", ErrCredentialsNotFound, profile)
}

// List returns all stored accounts across all stores, first store wins on
// duplicate profiles.
func (m *Manager) List() ([]*Account, error) {
	seen := make(map[string]bool)
	var accounts []*Account

	for _, store := range m.stores {
		stored, err := store.List()
		if err != nil {
			continue
		}
		for _, account := range stored {
			if !seen[account.Profile] {
				seen[account.Profile] = true
				accounts = append(accounts, account)
			}
		}
	}

	return accounts, nil
}

// Delete removes credentials from every store that has them
func (m *Manager) Delete(profile string) error {
	if profile == "" {
		profile = DefaultProfile
	}

	deleted := false
	var lastErr error
	for _, store := range m.stores {
		if err := store.Delete(profile); err == nil {
			deleted = true
		} else if !errors.Is(err, ErrCredentialsNotFound) && !errors.Is(err, ErrStoreUnavailable) {
			lastErr = err
		}
	}

	if !deleted && lastErr != nil {
		return lastErr
	}
	if !deleted {
		return ErrCredentialsNotFound
	}
	return nil
}

// Exists checks if any store has credentials for the profile
func (m *Manager) Exists(profile string) bool {
	if profile == "" {
		profile = DefaultProfile
	}
	for _, store := range m.stores {
		if store.Exists(profile) {
			return true
		}
	}
	return false
}

// getConfigDir returns the tweetpeek config directory, creating it if needed
func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	dir := filepath.Join(home, ".config", "tweetpeek")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return dir, nil
}
