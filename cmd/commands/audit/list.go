package audit

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"thebits/vscale/cmd/commands/cmdutil"
	"thebits/vscale/internal/auditlog"
	"thebits/vscale/internal/output"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audit entries",
		Long: `List recent audit entries stored locally.

Entries can be narrowed by command, resource, DNS zone, outcome, or the
error token the Vscale API answered with.

Examples:
  vscale audit list
  vscale audit list --limit 50
  vscale audit list --command "vscale server create"
  vscale audit list --resource dns-zone
  vscale audit list --zone example.com --outcome error
  vscale audit list --error-code record_already_exists
  vscale audit list --since 7d -o json`,
		Args:         cobra.NoArgs,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of entries to display")
	cmd.Flags().String("command", "", "Filter by exact command path")
	cmd.Flags().String("provider", "", "Filter by provider")
	cmd.Flags().String("resource", "", "Filter by resource type ("+strings.Join(auditlog.ResourceTypes, ", ")+")")
	cmd.Flags().String("resource-id", "", "Filter by resource ID")
	cmd.Flags().String("zone", "", "Filter DNS record entries by zone domain")
	cmd.Flags().String("outcome", "", "Filter by outcome (success, error)")
	cmd.Flags().String("error-code", "", "Filter by API error token, e.g. domain_not_found")
	cmd.Flags().String("since", "", "Only show entries newer than a duration (e.g. 12h, 7d)")
	cmdutil.AddOutputFlag(cmd)

	return cmd
}

// filterFromFlags builds the repository filter for the list flags.
func filterFromFlags(cmd *cobra.Command) (auditlog.Filter, error) {
	var f auditlog.Filter

	f.Limit, _ = cmd.Flags().GetInt("limit")
	if f.Limit <= 0 {
		return f, fmt.Errorf("limit must be greater than 0")
	}
	f.Command, _ = cmd.Flags().GetString("command")
	f.Provider, _ = cmd.Flags().GetString("provider")
	f.ResourceID, _ = cmd.Flags().GetString("resource-id")
	f.ErrorCode, _ = cmd.Flags().GetString("error-code")

	f.ResourceType, _ = cmd.Flags().GetString("resource")
	if f.ResourceType != "" && !slices.Contains(auditlog.ResourceTypes, f.ResourceType) {
		return f, fmt.Errorf("unknown resource type %q (valid: %s)", f.ResourceType, strings.Join(auditlog.ResourceTypes, ", "))
	}

	zone, _ := cmd.Flags().GetString("zone")
	f.Zone = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(zone), "."))

	f.Outcome, _ = cmd.Flags().GetString("outcome")
	switch f.Outcome {
	case "", auditlog.OutcomeSuccess, auditlog.OutcomeError:
	default:
		return f, fmt.Errorf("outcome must be %q or %q", auditlog.OutcomeSuccess, auditlog.OutcomeError)
	}

	if since, _ := cmd.Flags().GetString("since"); since != "" {
		d, err := parseDuration(since)
		if err != nil {
			return f, fmt.Errorf("invalid --since: %w", err)
		}
		f.Since = time.Now().Add(-d)
	}
	return f, nil
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}

	repo, err := auditlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	entries, err := repo.Query(filter)
	if err != nil {
		return err
	}

	return cmdutil.Print(cmd, entries, entryTable(entries))
}

func entryTable(entries []auditlog.AuditEntry) output.Table {
	t := output.Table{
		Headers: []string{"TIME", "COMMAND", "OUTCOME", "DURATION", "RESOURCE", "ERROR", "DETAIL"},
		Empty:   "No audit entries found.",
	}
	for _, entry := range entries {
		t.Rows = append(t.Rows, []string{
			entry.Timestamp.Local().Format("2006-01-02 15:04:05"),
			entry.Command,
			entry.Outcome,
			formatDuration(entry.DurationMs),
			formatResource(entry),
			orDash(entry.ErrorCode),
			orDash(entry.Detail),
		})
	}
	return t
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	d := time.Duration(ms) * time.Millisecond
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

func formatResource(entry auditlog.AuditEntry) string {
	if entry.ResourceType == "" && entry.ResourceID == "" && entry.ResourceName == "" && entry.Zone == "" {
		return "-"
	}

	resource := entry.ResourceType
	if entry.ResourceID != "" {
		if resource != "" {
			resource += ":" + entry.ResourceID
		} else {
			resource = entry.ResourceID
		}
	}
	if entry.ResourceName != "" {
		if resource != "" {
			resource += " (" + entry.ResourceName + ")"
		} else {
			resource = entry.ResourceName
		}
	}
	switch {
	case entry.Zone == "" || entry.Zone == entry.ResourceName:
	case resource == "":
		resource = entry.Zone
	default:
		resource += " in " + entry.Zone
	}
	return resource
}
