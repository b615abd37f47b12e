package auth

import (
	"errors"
	"fmt"

	"thebits/vscale/cmd/commands/cmdutil"
	"thebits/vscale/internal/output"
	providernames "thebits/vscale/internal/platform/providers/names"
	"thebits/vscale/internal/services/auth"

	"github.com/spf13/cobra"
)

// ProviderStatus is the login state of one provider.
type ProviderStatus struct {
	Provider string `json:"provider" yaml:"provider"`
	LoggedIn bool   `json:"logged_in" yaml:"logged_in"`
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show authentication status for providers",
		Long: `Show which providers have an API token available, and whether it
comes from the keychain or the environment.

Example:
  vscale auth status`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := collectStatus(newStore(), providernames.List())
			return cmdutil.Print(cmd, statuses, statusTable(statuses))
		},
	}
	cmdutil.AddOutputFlag(cmd)
	return cmd
}

func collectStatus(store auth.Store, providers []string) []ProviderStatus {
	env, _ := store.(interface{ FromEnv(string) bool })

	statuses := make([]ProviderStatus, 0, len(providers))
	for _, provider := range providers {
		st := ProviderStatus{Provider: provider}
		_, err := store.GetToken(provider)
		switch {
		case err == nil:
			st.LoggedIn = true
			st.Source = "keychain"
			if env != nil && env.FromEnv(provider) {
				st.Source = auth.EnvVar(provider)
			}
		case errors.Is(err, auth.ErrTokenNotFound):
		default:
			st.Error = err.Error()
		}
		statuses = append(statuses, st)
	}
	return statuses
}

func statusTable(statuses []ProviderStatus) output.Table {
	t := output.Table{
		Headers: []string{"PROVIDER", "STATUS", "SOURCE"},
		Empty:   "No providers registered.",
	}
	for _, st := range statuses {
		status := "not logged in"
		switch {
		case st.Error != "":
			status = fmt.Sprintf("error (%s)", st.Error)
		case st.LoggedIn:
			status = "logged in"
		}
		source := st.Source
		if source == "" {
			source = "-"
		}
		t.Rows = append(t.Rows, []string{st.Provider, status, source})
	}
	return t
}
