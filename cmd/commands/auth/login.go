package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"thebits/vscale/cmd/commands/cmdutil"
	"thebits/vscale/internal/auditlog"
	"thebits/vscale/internal/platform/providers"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <provider>",
		Short: "Store an API token for a provider",
		Long: `Store an API token for a provider using the local keychain.

The token is prompted for without echo. When stdin is not a terminal the
token is read from the first line of stdin.

Examples:
  vscale auth login vscale
  echo "$TOKEN" | vscale auth login vscale`,
		Args:         cobra.ExactArgs(1),
		RunE:         runLogin,
		SilenceUsage: true,
	}

	cmd.Flags().String("token", "", "API token (optional, overrides prompt)")

	return cmdutil.Audited(cmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	spec := providers.Lookup(args[0])
	if spec == nil {
		return fmt.Errorf("unknown provider %q", strings.TrimSpace(args[0]))
	}
	cmdutil.SetAuditMetadata(cmd, auditlog.Metadata{Provider: spec.Provider, ResourceType: auditlog.ResourceCredentials})

	store := newStore()
	for i, key := range spec.Keys {
		var token string
		if i == 0 {
			token, _ = cmd.Flags().GetString("token")
			token = strings.TrimSpace(token)
		}
		if token == "" {
			var err error
			token, err = promptSecret(cmd, key.Prompt)
			if err != nil {
				return err
			}
		}
		if token == "" {
			return errors.New("token cannot be empty")
		}

		if err := store.SetToken(spec.KeychainKey(key), token); err != nil {
			return fmt.Errorf("failed to save %s: %w", key.Prompt, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved token for provider %s\n", spec.Provider)
	return nil
}

// promptSecret reads a secret without echo from a terminal, or the first
// line of stdin otherwise.
func promptSecret(cmd *cobra.Command, label string) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(interface{ Fd() uintptr }); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Enter %s: ", label)
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", label, err)
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read %s: %w", label, err)
	}
	return strings.TrimSpace(line), nil
}
