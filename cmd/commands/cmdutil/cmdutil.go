// Package cmdutil holds helpers shared by the vscale command groups.
package cmdutil

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"thebits/vscale/internal/auditlog"
	"thebits/vscale/internal/config"
	"thebits/vscale/internal/output"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ErrAborted is returned when the user declines a confirmation prompt.
var ErrAborted = errors.New("aborted")

// ResolveProvider ensures the --provider flag has a value, falling back to
// the first non-empty config value picked by the given functions. key names
// the config key suggested in the error message.
func ResolveProvider(cmd *cobra.Command, key string, pick ...func(*config.Config) string) error {
	flag := cmd.Flag("provider")
	if flag == nil || flag.Changed {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	for _, p := range pick {
		if name := p(cfg); name != "" {
			if err := flag.Value.Set(name); err != nil {
				return fmt.Errorf("failed to set provider flag: %w", err)
			}
			return nil
		}
	}

	return fmt.Errorf("no provider specified: use --provider flag or set a default with 'vscale config set %s <name>'", key)
}

// Audited marks cmd as mutating so its outcome is written to the audit log.
func Audited(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[auditlog.Annotation] = "true"
	return cmd
}

// SetAuditMetadata attaches resource details to the command's audit entry.
func SetAuditMetadata(cmd *cobra.Command, meta auditlog.Metadata) {
	if meta.Provider == "" {
		if flag := cmd.Flag("provider"); flag != nil {
			meta.Provider = flag.Value.String()
		}
	}
	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), meta))
}

// AddOutputFlag registers the -o/--output flag.
func AddOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "table", "Output format: table, json, or yaml")
}

// Print renders value with the format selected by --output.
func Print(cmd *cobra.Command, value any, t output.Table) error {
	format, _ := cmd.Flags().GetString("output")
	return output.Write(cmd.OutOrStdout(), format, value, t)
}

// AddYesFlag registers the -y/--yes flag that skips confirmation prompts.
func AddYesFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

// Confirm asks the user to approve a destructive action. It returns nil
// when --yes was passed or the user accepted, ErrAborted when the user
// declined, and an error when no terminal is available to ask.
func Confirm(cmd *cobra.Command, title, description string) error {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return nil
	}
	if !isTerminal(cmd.InOrStdin()) {
		return fmt.Errorf("confirmation required: re-run with --yes in non-interactive mode")
	}

	var ok bool
	confirm := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok)

	err := huh.NewForm(huh.NewGroup(confirm)).WithAccessible(accessible()).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}

// Spin runs action behind a spinner when stderr is a terminal, and
// directly otherwise.
func Spin(cmd *cobra.Command, title string, action func() error) error {
	if !isTerminal(cmd.ErrOrStderr()) {
		return action()
	}

	var actionErr error
	err := spinner.New().
		Title(title).
		Accessible(accessible()).
		Output(cmd.ErrOrStderr()).
		Action(func() { actionErr = action() }).
		Run()
	if err != nil {
		return err
	}
	return actionErr
}

// SplitList splits comma-separated flag values and drops empty entries.
func SplitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func accessible() bool {
	return os.Getenv("ACCESSIBLE") != ""
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
