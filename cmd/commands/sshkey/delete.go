package sshkey

import (
	"errors"
	"fmt"

	"thebits/vscale/cmd/commands/cmdutil"
	"thebits/vscale/internal/auditlog"

	"github.com/spf13/cobra"
)

func DeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete an SSH key by name",
		Long: `Delete an SSH key from your account. Servers that already have the key
installed keep it.

Examples:
  vscale ssh-key delete laptop --yes`,
		Args:         cobra.ExactArgs(1),
		RunE:         runDelete,
		SilenceUsage: true,
	}

	cmdutil.AddYesFlag(cmd)

	return cmdutil.Audited(cmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	provider, err := newProvider(cmd)
	if err != nil {
		return err
	}

	name := args[0]
	kp, found, err := provider.GetKeyPair(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("failed to fetch SSH key: %w", err)
	}
	if !found {
		return fmt.Errorf("SSH key %q not found", name)
	}
	cmdutil.SetAuditMetadata(cmd, auditlog.Metadata{ResourceType: auditlog.ResourceSSHKey, ResourceID: keyID(*kp), ResourceName: name})

	err = cmdutil.Confirm(cmd, fmt.Sprintf("Delete SSH key %q?", name), "")
	if errors.Is(err, cmdutil.ErrAborted) {
		fmt.Fprintln(cmd.ErrOrStderr(), "SSH key deletion cancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	deleted, err := provider.DeleteKeyPair(cmd.Context(), *kp)
	if err != nil {
		return fmt.Errorf("failed to delete SSH key: %w", err)
	}
	if !deleted {
		return fmt.Errorf("provider did not confirm deletion of SSH key %q", name)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "SSH key %q deleted.\n", name)
	return nil
}
