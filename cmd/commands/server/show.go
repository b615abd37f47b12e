package server

import (
	"fmt"

	"thebits/vscale/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

// ShowCommand returns a cobra.Command that displays details for a single server.
func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show details for a server",
		Long: `Display detailed information about a single server.

Examples:
  vscale server show 1001
  vscale server show 1001 -o yaml`,
		Args:         cobra.ExactArgs(1),
		RunE:         runShow,
		SilenceUsage: true,
	}

	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	node, err := svc.GetNode(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch server: %w", err)
	}

	return cmdutil.Print(cmd, node, nodeDetail(node))
}
