package auth

import (
	"cmp"
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringStore keeps tokens in the OS keychain, one account per credential
// key under a single service.
type KeyringStore struct {
	service string
}

// NewKeyringStore returns a store using service, or ServiceName when empty.
func NewKeyringStore(service string) *KeyringStore {
	return &KeyringStore{service: cmp.Or(service, ServiceName)}
}

// SetToken saves token for provider, trimmed of surrounding whitespace.
func (k *KeyringStore) SetToken(provider string, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	if err := keyring.Set(k.service, NormalizeProvider(provider), token); err != nil {
		return keyringError("save", provider, err)
	}
	return nil
}

func (k *KeyringStore) GetToken(provider string) (string, error) {
	token, err := keyring.Get(k.service, NormalizeProvider(provider))
	if err != nil {
		return "", keyringError("read", provider, err)
	}
	return token, nil
}

func (k *KeyringStore) DeleteToken(provider string) error {
	if err := keyring.Delete(k.service, NormalizeProvider(provider)); err != nil {
		return keyringError("delete", provider, err)
	}
	return nil
}

// keyringError maps go-keyring failures onto the package errors.
func keyringError(op, provider string, err error) error {
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return ErrTokenNotFound
	case errors.Is(err, keyring.ErrSetDataTooBig):
		return fmt.Errorf("token for %s is too large for the keychain: %w", provider, err)
	default:
		return fmt.Errorf("%w: failed to %s token for %s (set %s instead): %v",
			ErrKeychainUnavailable, op, provider, EnvVar(provider), err)
	}
}
