package auth

import "sync"

// MockStore implements CredentialStore in memory, for tests
type MockStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account
	// FailStore makes Store return ErrStoreUnavailable, to exercise the
	// manager's fallback path
	FailStore bool
}

// NewMockStore creates a new in-memory credential store
func NewMockStore() *MockStore {
	return &MockStore{accounts: make(map[string]*Account)}
}

func (m *MockStore) Store(account *Account) error {
	if m.FailStore {
		return ErrStoreUnavailable
	}
	if account == nil || account.Profile == "" {
		return ErrInvalidCredentials
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *account
	m.accounts[account.Profile] = &copied
	return nil
}

func (m *MockStore) Retrieve(profile string) (*Account, error) {
	if profile == "" {
		return nil, ErrInvalidCredentials
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	account, exists := m.accounts[profile]
	if !exists {
		return nil, ErrCredentialsNotFound
	}
	copied := *account
	return &copied, nil
}

func (m *MockStore) List() ([]*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var accounts []*Account
	for _, account := range m.accounts {
		copied := *account
		accounts = append(accounts, &copied)
	}
	return accounts, nil
}

func (m *MockStore) Delete(profile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accounts[profile]; !exists {
		return ErrCredentialsNotFound
	}
	delete(m.accounts, profile)
	return nil
}

func (m *MockStore) Exists(profile string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.accounts[profile]
	return exists
}
