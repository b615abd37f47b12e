package config

import (
	"thebits/vscale/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vscale configuration",
		Long: "View and modify persistent vscale settings.\n\n" +
			"Configuration is stored at ~/.config/vscale/config.json. Every key can\n" +
			"also be supplied through a VSCALE_* environment variable, e.g.\n" +
			"VSCALE_DEFAULT_LOCATION, which takes precedence over the file.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
