package server

import (
	"fmt"

	"thebits/vscale/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all servers",
		Long: `List all servers from the specified provider.

Examples:
  vscale server list
  vscale server list -o json`,
		Args:         cobra.NoArgs,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	nodes, err := svc.ListNodes(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list servers: %w", err)
	}

	return cmdutil.Print(cmd, nodes, nodeTable(nodes))
}
