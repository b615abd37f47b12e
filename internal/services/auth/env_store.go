package auth

import (
	"strings"
)

// EnvStore reads tokens from <PROVIDER>_TOKEN environment variables before
// falling back to another store. Writes and deletes go to the fallback.
type EnvStore struct {
	next   Store
	lookup func(string) (string, bool)
}

// NewEnvStore wraps next. lookup is usually os.LookupEnv.
func NewEnvStore(next Store, lookup func(string) (string, bool)) *EnvStore {
	return &EnvStore{next: next, lookup: lookup}
}

// EnvVar returns the environment variable consulted for provider,
// e.g. VSCALE_TOKEN.
func EnvVar(provider string) string {
	name := strings.ToUpper(NormalizeProvider(provider))
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_TOKEN"
}

func (e *EnvStore) SetToken(provider string, token string) error {
	return e.next.SetToken(provider, token)
}

func (e *EnvStore) GetToken(provider string) (string, error) {
	if e.lookup != nil {
		if token, ok := e.lookup(EnvVar(provider)); ok && strings.TrimSpace(token) != "" {
			return strings.TrimSpace(token), nil
		}
	}
	return e.next.GetToken(provider)
}

func (e *EnvStore) DeleteToken(provider string) error {
	return e.next.DeleteToken(provider)
}

// FromEnv reports whether the token for provider currently comes from the
// environment rather than the wrapped store.
func (e *EnvStore) FromEnv(provider string) bool {
	if e.lookup == nil {
		return false
	}
	token, ok := e.lookup(EnvVar(provider))
	return ok && strings.TrimSpace(token) != ""
}
