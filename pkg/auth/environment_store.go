package auth

import (
	"os"
	"time"
)

// Environment variables read by EnvironmentStore
const (
	EnvConsumerKey    = "TLHARVEST_CONSUMER_KEY"
	EnvConsumerSecret = "TLHARVEST_CONSUMER_SECRET"
	EnvAccessToken    = "TLHARVEST_ACCESS_TOKEN"
	EnvAccessSecret   = "TLHARVEST_ACCESS_SECRET"
)

// EnvironmentStore is a read-only store over the TLHARVEST_* variables
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve returns the environment credentials under name, or "env" when
// name is empty
func (e *EnvironmentStore) Retrieve(name string) (*Account, error) {
	account := &Account{
		ConsumerKey:    os.Getenv(EnvConsumerKey),
		ConsumerSecret: os.Getenv(EnvConsumerSecret),
		AccessToken:    os.Getenv(EnvAccessToken),
		AccessSecret:   os.Getenv(EnvAccessSecret),
		LastModified:   time.Now(),
	}
	if !account.Credentials().Valid() {
		return nil, ErrCredentialsNotFound
	}

	account.Name = name
	if account.Name == "" {
		account.Name = "env"
	}
	return account, nil
}

// List returns a single account if the environment is complete
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists reports whether all four variables are set
func (e *EnvironmentStore) Exists(name string) bool {
	_, err := e.Retrieve(name)
	return err == nil
}
