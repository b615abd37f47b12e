package sshkey

import (
	"fmt"

	"thebits/vscale/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List SSH keys",
		Long: `List the SSH keys registered with the provider.

Fingerprints are computed locally from each public key.

Examples:
  vscale ssh-key list
  vscale ssh-key list -o json`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := newProvider(cmd)
			if err != nil {
				return err
			}
			keys, err := provider.ListKeyPairs(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list SSH keys: %w", err)
			}
			return cmdutil.Print(cmd, keys, keyTable(keys))
		},
	}
	cmdutil.AddOutputFlag(cmd)
	return cmd
}

func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "show <name>",
		Short:        "Show an SSH key by name",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := newProvider(cmd)
			if err != nil {
				return err
			}
			kp, found, err := provider.GetKeyPair(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch SSH key: %w", err)
			}
			if !found {
				return fmt.Errorf("SSH key %q not found", args[0])
			}
			return cmdutil.Print(cmd, kp, keyDetail(kp))
		},
	}
	cmdutil.AddOutputFlag(cmd)
	return cmd
}
