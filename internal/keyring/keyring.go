// Package keyring keeps the OpenAI API key in the OS keyring.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/wellmeing/internal/constants"
)

var (
	// ErrNotFound is returned when no API key is stored
	ErrNotFound = errors.New("api key not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetAPIKey retrieves the OpenAI API key. Returns ErrNotFound if none is
// stored.
func GetAPIKey() (string, error) {
	key, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return key, nil
}

// SetAPIKey stores the OpenAI API key.
func SetAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("api key cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, key); err != nil {
		return fmt.Errorf("failed to store api key in keyring: %w", err)
	}
	return nil
}

// DeleteAPIKey removes the OpenAI API key.
func DeleteAPIKey() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete api key from keyring: %w", err)
	}
	return nil
}

// ResolveAPIKey prefers an explicit key, typically from the environment,
// and falls back to the keyring. An empty result with a nil error means no
// key is configured anywhere.
func ResolveAPIKey(explicit string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit, nil
	}
	key, err := GetAPIKey()
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return key, err
}

// IsAvailable reports whether the OS keyring can be used. A missing entry
// still means the keyring works.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// Mask hides all but the last four characters of key.
func Mask(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
