// Package auth stores provider API tokens. The Vscale token is kept under
// the credential key vscale.TokenStoreKey, in the OS keychain or in the
// VSCALE_TOKEN environment variable.
package auth

import (
	"errors"
	"os"

	"thebits/vscale/internal/util"
)

// ServiceName is the keychain service holding vscale tokens.
const ServiceName = "vscale"

var (
	ErrTokenNotFound = errors.New("auth token not found")

	// ErrEmptyToken is returned when saving a blank token.
	ErrEmptyToken = errors.New("auth token is empty")

	// ErrKeychainUnavailable means the OS keychain could not be reached,
	// e.g. on a headless host without a secret service. The environment
	// variable still works there.
	ErrKeychainUnavailable = errors.New("keychain unavailable")
)

type Store interface {
	SetToken(provider string, token string) error
	GetToken(provider string) (string, error)
	DeleteToken(provider string) error
}

// DefaultStore returns the standard auth store: environment variables
// layered over the OS keychain.
func DefaultStore() Store {
	return NewEnvStore(NewKeyringStore(ServiceName), os.LookupEnv)
}

// NormalizeProvider normalizes a provider name for consistent key lookup.
func NormalizeProvider(provider string) string {
	return util.NormalizeKey(provider)
}
