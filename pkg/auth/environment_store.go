package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CredentialStore using environment variables.
// It is read-only and always maps to the default profile.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve gets credentials from environment variables
func (e *EnvironmentStore) Retrieve(profile string) (*Account, error) {
	token := os.Getenv("TWEETPEEK_BEARER_TOKEN")
	if token == "" {
		return nil, ErrCredentialsNotFound
	}

	if profile == "" {
		profile = DefaultProfile
	}

	return &Account{
		Profile:      profile,
		BearerToken:  token,
		APIKey:       os.Getenv("TWEETPEEK_API_KEY"),
		APISecret:    os.Getenv("TWEETPEEK_API_SECRET"),
		LastModified: time.Now(),
	}, nil
}

// List returns a single account if environment variables are set
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(profile string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(profile string) bool {
	return os.Getenv("TWEETPEEK_BEARER_TOKEN") != ""
}
