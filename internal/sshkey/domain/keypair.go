package domain

// KeyPair is an SSH public key registered with a provider.
type KeyPair struct {
	Name      string `json:"name" yaml:"name"`
	PublicKey string `json:"public_key" yaml:"public_key"`

	// Fingerprint is computed locally from PublicKey; providers do not report it.
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`

	// Extra holds provider fields, such as the numeric key "id".
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}
