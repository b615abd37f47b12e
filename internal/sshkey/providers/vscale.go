package providers

import (
	"thebits/vscale/internal/platform/vscale"
	serverproviders "thebits/vscale/internal/server/providers"
	"thebits/vscale/internal/services/auth"
	sshkeydomain "thebits/vscale/internal/sshkey/domain"
)

var _ sshkeydomain.Provider = (*serverproviders.VscaleProvider)(nil)

// RegisterVscale registers the Vscale SSH key provider factory. Key pairs
// are served by the compute provider.
func RegisterVscale(opts ...vscale.Option) {
	Register("vscale", func(store auth.Store) (sshkeydomain.Provider, error) {
		return serverproviders.NewVscaleProviderFromStore(store, opts...)
	})
}
