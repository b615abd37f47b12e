package auth

import (
	"errors"
	"fmt"
	"strings"

	"thebits/vscale/cmd/commands/cmdutil"
	"thebits/vscale/internal/auditlog"
	"thebits/vscale/internal/platform/providers"
	"thebits/vscale/internal/services/auth"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout <provider>",
		Short: "Remove the stored API token for a provider",
		Long: `Remove the API token stored in the keychain for a provider.
Tokens supplied through environment variables are not affected.

Example:
  vscale auth logout vscale`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := providers.Lookup(args[0])
			if spec == nil {
				return fmt.Errorf("unknown provider %q", strings.TrimSpace(args[0]))
			}
			cmdutil.SetAuditMetadata(cmd, auditlog.Metadata{Provider: spec.Provider, ResourceType: auditlog.ResourceCredentials})

			store := newStore()
			removed := false
			for _, key := range spec.Keys {
				err := store.DeleteToken(spec.KeychainKey(key))
				switch {
				case err == nil:
					removed = true
				case errors.Is(err, auth.ErrTokenNotFound):
				default:
					return fmt.Errorf("failed to remove %s: %w", key.Prompt, err)
				}
			}

			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "No stored token for provider %s\n", spec.Provider)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed token for provider %s\n", spec.Provider)
			return nil
		},
	}

	return cmdutil.Audited(cmd)
}
