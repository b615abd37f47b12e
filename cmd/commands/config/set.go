package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"thebits/vscale/cmd/commands/cmdutil"
	"thebits/vscale/internal/auditlog"
	"thebits/vscale/internal/config"
	dnsproviders "thebits/vscale/internal/dns/providers"
	providernames "thebits/vscale/internal/platform/providers/names"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value. Pass an empty value to unset a key.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  vscale config set default-provider vscale\n" +
			"  vscale config set default-location spb0",
		Args:         cobra.ExactArgs(2),
		RunE:         runSet,
		SilenceUsage: true,
	}

	return cmdutil.Audited(cmd)
}

// validators maps key names to optional pre-save validation functions.
// Keys not present in this map have no extra validation.
var validators = map[string]func(value string) error{
	"default-provider": func(v string) error { return validateProvider(v, providernames.List()) },
	"dns-provider":     func(v string) error { return validateProvider(v, dnsproviders.List()) },
	"api-url":          validateURL,
}

func runSet(cmd *cobra.Command, args []string) error {
	spec := config.Lookup(args[0])
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", args[0], strings.Join(config.KeyNames(), ", "))
	}
	value := spec.NormalizeValue(args[1])
	cmdutil.SetAuditMetadata(cmd, auditlog.Metadata{ResourceType: auditlog.ResourceConfig, ResourceName: spec.Name})

	if validate, ok := validators[spec.Name]; ok && value != "" {
		if err := validate(value); err != nil {
			return err
		}
	}

	// Environment overrides must not end up in the file.
	cfg, err := config.LoadFile()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	spec.Set(cfg, value)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if value == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s unset\n", spec.Name)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, value)
	return nil
}

// validateProvider checks that name is one of the registered providers.
func validateProvider(name string, known []string) error {
	if slices.Contains(known, name) {
		return nil
	}
	return fmt.Errorf("unknown provider %q (registered: %s)", name, strings.Join(known, ", "))
}

func validateURL(value string) error {
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API URL %q: expected http(s)://host", value)
	}
	return nil
}
