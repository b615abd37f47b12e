package config

import (
	"fmt"
	"strings"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "default-provider").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set applies a value for this key to the given Config (in memory only;
	// the caller is responsible for calling Save).
	Set func(cfg *Config, value string)

	// Normalize canonicalises a user-supplied value before Set. Nil means
	// the value is only trimmed.
	Normalize func(value string) string
}

// NormalizeValue applies the key's Normalize function, or trims value when
// the key has none.
func (k *KeySpec) NormalizeValue(value string) string {
	if k.Normalize == nil {
		return strings.TrimSpace(value)
	}
	return k.Normalize(value)
}

func lower(v string) string { return strings.ToLower(strings.TrimSpace(v)) }

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "default-provider",
		Description: "Cloud provider used when --provider is not specified",
		Get:         func(cfg *Config) string { return cfg.DefaultProvider },
		Set:         func(cfg *Config, v string) { cfg.DefaultProvider = v },
		Normalize:   lower,
	},
	{
		Name:        "dns-provider",
		Description: "DNS provider used by dns commands when --provider is not specified",
		Get:         func(cfg *Config) string { return cfg.DNSProvider },
		Set:         func(cfg *Config, v string) { cfg.DNSProvider = v },
		Normalize:   lower,
	},
	{
		Name:        "default-location",
		Description: "Location used by server create and server sizes when --location is not specified",
		Get:         func(cfg *Config) string { return cfg.DefaultLocation },
		Set:         func(cfg *Config, v string) { cfg.DefaultLocation = v },
		Normalize:   lower,
	},
	{
		Name:        "api-url",
		Description: "Base URL of the Vscale API",
		Get:         func(cfg *Config) string { return cfg.APIURL },
		Set:         func(cfg *Config, v string) { cfg.APIURL = v },
		Normalize:   func(v string) string { return strings.TrimRight(strings.TrimSpace(v), "/") },
	},
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	// Find the longest key name for alignment.
	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
