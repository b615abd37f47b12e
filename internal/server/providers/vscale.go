package providers

import (
	"fmt"
	"net/url"

	"thebits/vscale/internal/platform/vscale"
	"thebits/vscale/internal/server/domain"
	"thebits/vscale/internal/services/auth"
	sshkeydomain "thebits/vscale/internal/sshkey/domain"
)

const vscaleProviderName = "vscale"

// Compile-time checks that VscaleProvider satisfies both provider interfaces.
var (
	_ domain.Provider       = (*VscaleProvider)(nil)
	_ sshkeydomain.Provider = (*VscaleProvider)(nil)
)

// VscaleProvider implements domain.Provider and sshkeydomain.Provider on
// top of the Vscale REST API.
type VscaleProvider struct {
	conn *vscale.Connection
}

// NewVscaleProvider creates a VscaleProvider using conn for all requests.
func NewVscaleProvider(conn *vscale.Connection) *VscaleProvider {
	return &VscaleProvider{conn: conn}
}

// NewVscaleProviderFromStore reads the API token from store and builds a
// provider with the given connection options.
func NewVscaleProviderFromStore(store auth.Store, opts ...vscale.Option) (*VscaleProvider, error) {
	token, err := store.GetToken(vscale.TokenStoreKey)
	if err != nil {
		return nil, fmt.Errorf("vscale auth: token not found (run 'vscale auth login' or set %s): %w",
			auth.EnvVar(vscale.TokenStoreKey), err)
	}
	return NewVscaleProvider(vscale.NewConnection(token, opts...)), nil
}

// RegisterVscale registers the Vscale provider factory with the global
// registry. opts are applied to every connection the factory creates.
func RegisterVscale(opts ...vscale.Option) {
	Register(vscaleProviderName, func(store auth.Store) (domain.Provider, error) {
		return NewVscaleProviderFromStore(store, opts...)
	})
}

func (v *VscaleProvider) GetDisplayName() string {
	return "Vscale"
}

func escape(id string) string {
	return url.PathEscape(id)
}
