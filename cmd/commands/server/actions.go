package server

import (
	"context"
	"fmt"

	"thebits/vscale/cmd/commands/cmdutil"
	"thebits/vscale/internal/auditlog"
	"thebits/vscale/internal/server/domain"
	"thebits/vscale/internal/server/services"

	"github.com/spf13/cobra"
)

// powerAction describes one of the start/stop/reboot commands.
type powerAction struct {
	use      string
	short    string
	progress string // e.g. "Starting"
	done     string // e.g. "started"
	target   domain.NodeState
	run      func(svc *services.Service, ctx context.Context, id string) error
}

func StartCommand() *cobra.Command {
	return newPowerCommand(powerAction{
		use:      "start",
		short:    "Power on a server",
		progress: "Starting",
		done:     "started",
		target:   domain.NodeStateRunning,
		run:      (*services.Service).StartNode,
	})
}

func StopCommand() *cobra.Command {
	return newPowerCommand(powerAction{
		use:      "stop",
		short:    "Power off a server",
		progress: "Stopping",
		done:     "stopped",
		target:   domain.NodeStateStopped,
		run:      (*services.Service).StopNode,
	})
}

func RebootCommand() *cobra.Command {
	return newPowerCommand(powerAction{
		use:      "reboot",
		short:    "Restart a server",
		progress: "Rebooting",
		done:     "rebooted",
		target:   domain.NodeStateRunning,
		run:      (*services.Service).RebootNode,
	})
}

func newPowerCommand(a powerAction) *cobra.Command {
	cmd := &cobra.Command{
		Use:   a.use + " <id>",
		Short: a.short,
		Long: fmt.Sprintf(`%s.

With --wait the command polls until the server reports %q.

Examples:
  vscale server %s 1001
  vscale server %s 1001 --wait`, a.short, a.target, a.use, a.use),
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPowerAction(cmd, args[0], a)
		},
	}

	cmd.Flags().Bool("wait", false, "Wait until the server reaches the expected state")

	return cmdutil.Audited(cmd)
}

func runPowerAction(cmd *cobra.Command, serverID string, a powerAction) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	cmdutil.SetAuditMetadata(cmd, auditlog.Metadata{ResourceType: auditlog.ResourceServer, ResourceID: serverID})

	fmt.Fprintf(cmd.ErrOrStderr(), "%s server %s...\n", a.progress, serverID)
	if err := a.run(svc, cmd.Context(), serverID); err != nil {
		return fmt.Errorf("failed to %s server: %w", a.use, err)
	}

	if wait, _ := cmd.Flags().GetBool("wait"); wait {
		if _, err := svc.WaitForState(cmd.Context(), serverID, a.target, cmd.ErrOrStderr()); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Server %s %s.\n", serverID, a.done)
	return nil
}
