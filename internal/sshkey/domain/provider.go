package domain

import "context"

// Provider defines SSH key management operations for a cloud provider.
type Provider interface {
	GetDisplayName() string

	ListKeyPairs(ctx context.Context) ([]KeyPair, error)

	// GetKeyPair returns the key whose name equals name exactly. The boolean
	// is false, with a nil error, when the account has no such key.
	GetKeyPair(ctx context.Context, name string) (*KeyPair, bool, error)

	CreateKeyPair(ctx context.Context, name, publicKey string) (*KeyPair, error)

	// DeleteKeyPair reports whether the provider confirmed the deletion.
	DeleteKeyPair(ctx context.Context, kp KeyPair) (bool, error)
}
