package auth

import (
	"thebits/vscale/internal/services/auth"

	"github.com/spf13/cobra"
)

// newStore returns the credential store the commands read and write.
// Tests replace it with an in-memory store.
var newStore = auth.DefaultStore

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication for providers",
		Long: `Manage authentication for providers.

Use this command group to log in and store API tokens securely in the
system keychain. A <PROVIDER>_TOKEN environment variable, such as
VSCALE_TOKEN, takes precedence over the keychain.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(LogoutCommand())
	cmd.AddCommand(StatusCommand())

	return cmd
}
