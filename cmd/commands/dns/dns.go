package dns

import (
	"thebits/vscale/cmd/commands/cmdutil"
	"thebits/vscale/internal/config"
	dnsproviders "thebits/vscale/internal/dns/providers"
	"thebits/vscale/internal/dns/services"
	"thebits/vscale/internal/services/auth"

	"github.com/spf13/cobra"
)

// NewCommand returns the top-level "dns" Cobra command with all subcommands attached.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "dns",
		Short:             "Manage DNS zones and records",
		Long:              `Create, list, tag, and delete DNS zones, and manage the records inside them.`,
		PersistentPreRunE: resolveDNSProvider,
	}

	cmd.AddCommand(ZoneCommand())
	cmd.AddCommand(RecordCommand())

	cmd.PersistentFlags().String("provider", "", "DNS provider to use (overrides default)")

	return cmd
}

// resolveDNSProvider ensures the --provider flag has a value, falling back to
// the dns-provider config key and then to default-provider.
func resolveDNSProvider(cmd *cobra.Command, args []string) error {
	return cmdutil.ResolveProvider(cmd, "dns-provider",
		func(c *config.Config) string { return c.DNSProvider },
		func(c *config.Config) string { return c.DefaultProvider },
	)
}

func newDNSService(cmd *cobra.Command) (*services.Service, error) {
	providerName := cmd.Flag("provider").Value.String()
	provider, err := dnsproviders.Get(providerName, auth.DefaultStore())
	if err != nil {
		return nil, err
	}
	return services.New(provider), nil
}
