package server

import (
	"errors"
	"fmt"

	"thebits/vscale/cmd/commands/cmdutil"
	"thebits/vscale/internal/auditlog"

	"github.com/spf13/cobra"
)

func DeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a server",
		Long: `Delete a server instance. You are asked for confirmation unless --yes
is passed.

Examples:
  vscale server delete 1001
  vscale server delete 1001 --yes`,
		Args:         cobra.ExactArgs(1),
		RunE:         runDelete,
		SilenceUsage: true,
	}

	cmdutil.AddYesFlag(cmd)

	return cmdutil.Audited(cmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	serverID := args[0]
	cmdutil.SetAuditMetadata(cmd, auditlog.Metadata{ResourceType: auditlog.ResourceServer, ResourceID: serverID})

	err = cmdutil.Confirm(cmd, fmt.Sprintf("Delete server %s?", serverID), "This permanently destroys the server and its disk.")
	if errors.Is(err, cmdutil.ErrAborted) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Server deletion cancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Deleting server %s...\n", serverID)
	err = cmdutil.Spin(cmd, "Deleting server...", func() error {
		return svc.DestroyNode(cmd.Context(), serverID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete server: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Server %s deleted successfully.\n", serverID)
	return nil
}
