package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"thebits/vscale/cmd/commands/audit"
	"thebits/vscale/cmd/commands/auth"
	cfgcmd "thebits/vscale/cmd/commands/config"
	"thebits/vscale/cmd/commands/dns"
	"thebits/vscale/cmd/commands/server"
	"thebits/vscale/cmd/commands/sshkey"
	"thebits/vscale/internal/auditlog"
	"thebits/vscale/internal/config"
	dnsproviders "thebits/vscale/internal/dns/providers"
	"thebits/vscale/internal/platform/vscale"
	serverproviders "thebits/vscale/internal/server/providers"
	sshkeyproviders "thebits/vscale/internal/sshkey/providers"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// Client-side request budget for the Vscale API.
const (
	apiRateLimit = 10
	apiBurst     = 10
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd(level *slog.LevelVar) *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "vscale",
		Short: "A CLI tool for managing Vscale servers, SSH keys, and DNS",
		Long: `vscale is a command-line tool for the Vscale cloud. It manages servers
(scalets), the SSH keys installed on them, and DNS zones and records.

Quick start:
  vscale auth login vscale                 # Store your API token
  vscale config set default-provider vscale
  vscale server catalog                    # Locations, images, and plans
  vscale server list                       # List all servers
  vscale dns zone list                     # List DNS zones`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				level.Set(slog.LevelDebug)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log API requests to stderr")

	cmd.AddCommand(audit.NewCommand())
	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(dns.NewCommand())
	cmd.AddCommand(server.NewCommand())
	cmd.AddCommand(sshkey.NewCommand())

	return cmd
}

// connectionOptions builds the Vscale connection settings shared by every
// provider registration. API traffic is recorded into metrics.
func connectionOptions(logger *slog.Logger, metrics *vscale.Metrics) []vscale.Option {
	opts := []vscale.Option{
		vscale.WithLogger(logger),
		vscale.WithRateLimit(apiRateLimit, apiBurst),
		vscale.WithMetrics(metrics),
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("ignoring unreadable config", "error", err)
		return opts
	}
	if cfg.APIURL != "" {
		opts = append(opts, vscale.WithBaseURL(cfg.APIURL))
	}
	return opts
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.EnableTraverseRunHooks = true

	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	opts := connectionOptions(logger, vscale.NewMetrics(reg))
	serverproviders.RegisterVscale(opts...)
	sshkeyproviders.RegisterVscale(opts...)
	dnsproviders.RegisterVscale(opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := rootCmd(level)
	start := time.Now()
	executed, err := root.ExecuteContextC(ctx)
	recordAudit(logger, executed, start, err)
	writeRequestSummary(root.ErrOrStderr(), level, reg)

	if err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// recordAudit writes the outcome of mutating commands to the local audit log.
// Failures are logged and never change the exit status.
func recordAudit(logger *slog.Logger, executed *cobra.Command, start time.Time, cmdErr error) {
	if executed == nil || executed.Annotations[auditlog.Annotation] == "" {
		return
	}
	if err := auditlog.Record(executed.Context(), executed.CommandPath(), os.Args[1:], start, cmdErr); err != nil {
		logger.Warn("failed to write audit entry", "command", executed.CommandPath(), "error", err)
	}
}

// writeRequestSummary prints per-method API traffic when --verbose raised
// the log level to debug.
func writeRequestSummary(w io.Writer, level *slog.LevelVar, g prometheus.Gatherer) {
	if level.Level() > slog.LevelDebug {
		return
	}
	if err := vscale.WriteSummary(w, g); err != nil {
		slog.Warn("failed to summarize API requests", "error", err)
	}
}
