package sshkey

import (
	"thebits/vscale/cmd/commands/cmdutil"
	"thebits/vscale/internal/config"
	"thebits/vscale/internal/services/auth"
	"thebits/vscale/internal/sshkey/domain"
	"thebits/vscale/internal/sshkey/providers"

	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "ssh-key",
		Short:             "Manage SSH keys",
		Long:              `Upload, list, and delete the SSH keys registered with your account.`,
		PersistentPreRunE: resolveProvider,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(AddCommand())
	cmd.AddCommand(DeleteCommand())

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

func newProvider(cmd *cobra.Command) (domain.Provider, error) {
	return providers.Get(cmd.Flag("provider").Value.String(), auth.DefaultStore())
}
