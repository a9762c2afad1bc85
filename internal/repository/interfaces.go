package repository

import (
	"context"
	"errors"
)

// ErrSettingNotFound is returned when a key has no stored value.
var ErrSettingNotFound = errors.New("setting not found")

// SettingsRepository persists small string values by key.
type SettingsRepository interface {
	// Get returns the value stored under key, or ErrSettingNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping checks the store is reachable.
	Ping(ctx context.Context) error
}
