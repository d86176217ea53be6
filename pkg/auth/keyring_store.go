package auth

import (
	"encoding/json"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "tweetpeek"
	keyringPrefix  = "twitter_"
	keyringIndex   = "profiles_index"
)

// KeyringStore implements CredentialStore using the system keychain
type KeyringStore struct{}

// NewKeyringStore creates a new keyring-based credential store
func NewKeyringStore() (*KeyringStore, error) {
	// Test if keyring is available
	testKey := "test_availability"
	if err := keyring.Set(keyringService, testKey, "test"); err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(keyringService, testKey)

	return &KeyringStore{}, nil
}

// Store saves credentials to the system keychain
func (k *KeyringStore) Store(account *Account) error {
	if account == nil || account.Profile == "" {
		return ErrInvalidCredentials
	}

	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	key := keyringPrefix + account.Profile
	if err := keyring.Set(keyringService, key, string(data)); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}

	k.indexAdd(account.Profile)
	return nil
}

// Retrieve gets credentials from the system keychain
func (k *KeyringStore) Retrieve(profile string) (*Account, error) {
	if profile == "" {
		return nil, ErrInvalidCredentials
	}

	key := keyringPrefix + profile
	data, err := keyring.Get(keyringService, key)
	if err != nil {
		if err == keyring.ErrNotFound {
			return nil, ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("failed to retrieve from keyring: %w", err)
	}

	var account Account
	if err := json.Unmarshal([]byte(data), &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return &account, nil
}

// List returns all stored profiles. The keyring has no enumeration API, so
// a separate index entry tracks known profiles.
func (k *KeyringStore) List() ([]*Account, error) {
	profiles := k.indexLoad()

	var accounts []*Account
	for _, profile := range profiles {
		if account, err := k.Retrieve(profile); err == nil {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

// Delete removes credentials from the system keychain
func (k *KeyringStore) Delete(profile string) error {
	if profile == "" {
		return ErrInvalidCredentials
	}

	key := keyringPrefix + profile
	if err := keyring.Delete(keyringService, key); err != nil {
		if err == keyring.ErrNotFound {
			return ErrCredentialsNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}

	k.indexRemove(profile)
	return nil
}

// Exists checks if credentials exist for a profile
func (k *KeyringStore) Exists(profile string) bool {
	account, err := k.Retrieve(profile)
	return err == nil && account != nil
}

func (k *KeyringStore) indexLoad() []string {
	data, err := keyring.Get(keyringService, keyringIndex)
	if err != nil {
		return nil
	}
	var profiles []string
	if err := json.Unmarshal([]byte(data), &profiles); err != nil {
		return nil
	}
	return profiles
}

func (k *KeyringStore) indexSave(profiles []string) {
	data, err := json.Marshal(profiles)
	if err != nil {
		return
	}
	_ = keyring.Set(keyringService, keyringIndex, string(data))
}

func (k *KeyringStore) indexAdd(profile string) {
	profiles := k.indexLoad()
	for _, p := range profiles {
		if p == profile {
			return
		}
	}
	k.indexSave(append(profiles, profile))
}

func (k *KeyringStore) indexRemove(profile string) {
	profiles := k.indexLoad()
	var kept []string
	for _, p := range profiles {
		if p != profile {
			kept = append(kept, p)
		}
	}
	k.indexSave(kept)
}
