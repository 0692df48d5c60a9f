// Package keyring keeps secrets in the OS credential store under the app's service name.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/trackmy/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored for the user
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Get retrieves the secret stored for user.
func Get(user string) (string, error) {
	secret, err := keyring.Get(constants.AppName, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores secret for user, replacing any previous value.
func Set(user, secret string) error {
	if secret == "" {
		return fmt.Errorf("%s cannot be empty", user)
	}
	if err := keyring.Set(constants.AppName, user, secret); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", user, err)
	}
	return nil
}

// Delete removes the secret stored for user.
func Delete(user string) error {
	if err := keyring.Delete(constants.AppName, user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", user, err)
	}
	return nil
}

// GetConnectionString retrieves the database connection string.
func GetConnectionString() (string, error) {
	return Get(constants.KeyringUserConnection)
}

// SetConnectionString stores the database connection string.
func SetConnectionString(connStr string) error {
	return Set(constants.KeyringUserConnection, connStr)
}

// DeleteConnectionString removes the database connection string.
func DeleteConnectionString() error {
	return Delete(constants.KeyringUserConnection)
}

// GetAPIKey retrieves the AI provider API key.
func GetAPIKey() (string, error) {
	return Get(constants.KeyringUserAPIKey)
}

// SetAPIKey stores the AI provider API key.
func SetAPIKey(key string) error {
	return Set(constants.KeyringUserAPIKey, key)
}

// DeleteAPIKey removes the AI provider API key.
func DeleteAPIKey() error {
	return Delete(constants.KeyringUserAPIKey)
}

// IsAvailable reports whether the OS keyring answers a read. Best effort.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
