package server

import (
	"thebits/vscale/cmd/commands/cmdutil"
	"thebits/vscale/internal/config"
	"thebits/vscale/internal/server/providers"
	"thebits/vscale/internal/server/services"
	"thebits/vscale/internal/services/auth"

	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Manage servers (scalets)",
		Long: `Create, list, power-cycle, and delete servers, and browse the
locations, images, and plans they can be built from.`,
		PersistentPreRunE: resolveProvider,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(CreateCommand())
	cmd.AddCommand(DeleteCommand())
	cmd.AddCommand(StartCommand())
	cmd.AddCommand(StopCommand())
	cmd.AddCommand(RebootCommand())
	cmd.AddCommand(CatalogCommand())
	cmd.AddCommand(LocationsCommand())
	cmd.AddCommand(ImagesCommand())
	cmd.AddCommand(SizesCommand())

	cmd.PersistentFlags().String("provider", "", "Cloud provider to use (overrides default)")

	return cmd
}

// resolveProvider ensures the --provider flag has a value, falling back to the
// configured default when the flag was not explicitly passed.
func resolveProvider(cmd *cobra.Command, args []string) error {
	return cmdutil.ResolveProvider(cmd, "default-provider", func(c *config.Config) string {
		return c.DefaultProvider
	})
}

func newService(cmd *cobra.Command) (*services.Service, error) {
	providerName := cmd.Flag("provider").Value.String()
	provider, err := providers.Get(providerName, auth.DefaultStore())
	if err != nil {
		return nil, err
	}
	return services.New(provider), nil
}
