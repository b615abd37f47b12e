package dns

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"thebits/vscale/cmd/commands/cmdutil"
	"thebits/vscale/internal/auditlog"
	dnsdomain "thebits/vscale/internal/dns/domain"
	"thebits/vscale/internal/dns/services"
	"thebits/vscale/internal/domain"

	"github.com/spf13/cobra"
)

// RecordCommand returns the "dns record" command group.
func RecordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Manage DNS records",
		Long: `List, create, update, and delete the records of a DNS zone.

Zones can be referred to by numeric ID or by domain name. Record names are
relative to the zone: "www" becomes "www.example.com" and "@" is the apex.`,
	}

	cmd.AddCommand(recordListCommand())
	cmd.AddCommand(recordShowCommand())
	cmd.AddCommand(recordCreateCommand())
	cmd.AddCommand(recordUpdateCommand())
	cmd.AddCommand(recordDeleteCommand())

	return cmd
}

func recordListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <zone>",
		Short: "List the records of a DNS zone",
		Long: `List all DNS records of a zone.

Examples:
  vscale dns record list example.com
  vscale dns record list example.com --type A`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newDNSService(cmd)
			if err != nil {
				return err
			}
			zone, err := svc.ResolveZone(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch zone: %w", err)
			}
			records, err := svc.ListRecords(cmd.Context(), *zone)
			if err != nil {
				return fmt.Errorf("failed to list records: %w", err)
			}

			if typeFilter, _ := cmd.Flags().GetString("type"); typeFilter != "" {
				filtered := records[:0]
				for _, r := range records {
					if strings.EqualFold(string(r.Type), typeFilter) {
						filtered = append(filtered, r)
					}
				}
				records = filtered
			}

			return cmdutil.Print(cmd, records, recordTable(records))
		},
	}
	cmd.Flags().String("type", "", "Filter records by type (A, AAAA, CNAME, MX, TXT, etc.)")
	cmdutil.AddOutputFlag(cmd)
	return cmd
}

func recordShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "show <zone> <record-id>",
		Short:        "Show a DNS record",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newDNSService(cmd)
			if err != nil {
				return err
			}
			record, err := fetchRecord(cmd.Context(), svc, args[0], args[1])
			if err != nil {
				return err
			}
			return cmdutil.Print(cmd, record, recordDetail(record))
		},
	}
	cmdutil.AddOutputFlag(cmd)
	return cmd
}

func recordCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <zone>",
		Short: "Create a DNS record",
		Long: `Create a new DNS record in a zone.

Examples:
  vscale dns record create example.com --type A --name www --data 1.2.3.4
  vscale dns record create example.com --type MX --data "10 mail.example.com" --ttl 600`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         runRecordCreate,
	}

	cmd.Flags().String("type", "", "Record type (A, AAAA, CNAME, MX, TXT, NS, SRV, CAA, PTR) [required]")
	cmd.Flags().String("name", "", "Record name relative to the zone (default: apex)")
	cmd.Flags().String("data", "", "Record content, e.g. an IP address [required]")
	cmd.Flags().Int("ttl", 0, fmt.Sprintf("Time-to-live in seconds (default: %d)", services.DefaultTTL))
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("data")
	cmdutil.AddOutputFlag(cmd)

	return cmdutil.Audited(cmd)
}

func runRecordCreate(cmd *cobra.Command, args []string) error {
	svc, err := newDNSService(cmd)
	if err != nil {
		return err
	}

	recordType, _ := cmd.Flags().GetString("type")
	name, _ := cmd.Flags().GetString("name")
	data, _ := cmd.Flags().GetString("data")
	opts := dnsdomain.CreateRecordOpts{
		Name: name,
		Type: dnsdomain.RecordType(recordType),
		Data: data,
	}
	if cmd.Flags().Changed("ttl") {
		ttl, _ := cmd.Flags().GetInt("ttl")
		opts.TTL = &ttl
	}

	zone, err := svc.ResolveZone(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch zone: %w", err)
	}
	cmdutil.SetAuditMetadata(cmd, auditlog.Metadata{ResourceType: auditlog.ResourceRecord, ResourceName: name, Zone: zone.Domain})

	record, err := svc.CreateRecord(cmd.Context(), *zone, opts)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	cmdutil.SetAuditMetadata(cmd, auditlog.Metadata{ResourceID: record.ID, ResourceName: record.Name})

	return cmdutil.Print(cmd, record, recordDetail(record))
}

func recordUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <zone> <record-id>",
		Short: "Update a DNS record",
		Long: `Update an existing DNS record. Only the flags you pass are changed;
everything else keeps its current value.

Examples:
  vscale dns record update example.com 1001 --data 5.6.7.8
  vscale dns record update example.com 1001 --name api --ttl 600
  vscale dns record update example.com 1001 --clear-ttl`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         runRecordUpdate,
	}

	cmd.Flags().String("type", "", "New record type")
	cmd.Flags().String("name", "", "New record name relative to the zone")
	cmd.Flags().String("data", "", "New record content")
	cmd.Flags().Int("ttl", 0, "New time-to-live in seconds")
	cmd.Flags().Bool("clear-ttl", false, "Remove the record's TTL so the zone default applies")
	cmd.MarkFlagsMutuallyExclusive("ttl", "clear-ttl")
	cmdutil.AddOutputFlag(cmd)

	return cmdutil.Audited(cmd)
}

func runRecordUpdate(cmd *cobra.Command, args []string) error {
	opts := updateOptsFromFlags(cmd)
	if opts.IsEmpty() {
		return errors.New("nothing to update: pass at least one of --type, --name, --data, --ttl, --clear-ttl")
	}

	svc, err := newDNSService(cmd)
	if err != nil {
		return err
	}
	record, err := fetchRecord(cmd.Context(), svc, args[0], args[1])
	if err != nil {
		return err
	}
	cmdutil.SetAuditMetadata(cmd, auditlog.Metadata{ResourceType: auditlog.ResourceRecord, ResourceID: record.ID, ResourceName: record.Name, Zone: recordZone(record)})

	updated, err := svc.UpdateRecord(cmd.Context(), *record, opts)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	return cmdutil.Print(cmd, updated, recordDetail(updated))
}

// updateOptsFromFlags builds a patch from the flags that were explicitly set.
func updateOptsFromFlags(cmd *cobra.Command) dnsdomain.UpdateRecordOpts {
	var opts dnsdomain.UpdateRecordOpts
	flags := cmd.Flags()
	if flags.Changed("type") {
		v, _ := flags.GetString("type")
		opts.Type = domain.Set(dnsdomain.RecordType(v))
	}
	if flags.Changed("name") {
		v, _ := flags.GetString("name")
		opts.Name = domain.Set(v)
	}
	if flags.Changed("data") {
		v, _ := flags.GetString("data")
		opts.Data = domain.Set(v)
	}
	if flags.Changed("ttl") {
		v, _ := flags.GetInt("ttl")
		opts.TTL = domain.Set(&v)
	}
	if clearTTL, _ := flags.GetBool("clear-ttl"); clearTTL {
		opts.TTL = domain.Set[*int](nil)
	}
	return opts
}

func recordDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <zone> <record-id>",
		Short: "Delete a DNS record",
		Long: `Delete a DNS record.

Examples:
  vscale dns record delete example.com 1001 --yes`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newDNSService(cmd)
			if err != nil {
				return err
			}
			record, err := fetchRecord(cmd.Context(), svc, args[0], args[1])
			if err != nil {
				return err
			}
			cmdutil.SetAuditMetadata(cmd, auditlog.Metadata{ResourceType: auditlog.ResourceRecord, ResourceID: record.ID, ResourceName: record.Name, Zone: recordZone(record)})

			err = cmdutil.Confirm(cmd, fmt.Sprintf("Delete %s record %s?", record.Type, record.Name), "")
			if errors.Is(err, cmdutil.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Record deletion cancelled.")
				return nil
			}
			if err != nil {
				return err
			}

			deleted, err := svc.DeleteRecord(cmd.Context(), *record)
			if err != nil {
				return fmt.Errorf("failed to delete record: %w", err)
			}
			if !deleted {
				return fmt.Errorf("provider did not confirm deletion of record %s", record.ID)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted record %s\n", record.ID)
			return nil
		},
	}
	cmdutil.AddYesFlag(cmd)
	return cmdutil.Audited(cmd)
}

// fetchRecord resolves zoneRef and loads the record, attaching the resolved
// zone so relative names can be qualified against its domain.
func fetchRecord(ctx context.Context, svc *services.Service, zoneRef, recordID string) (*dnsdomain.Record, error) {
	zone, err := svc.ResolveZone(ctx, zoneRef)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch zone: %w", err)
	}
	record, err := svc.GetRecord(ctx, zone.ID, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch record: %w", err)
	}
	record.Zone = zone
	return record, nil
}

// recordZone returns the domain of the zone owning r, if known.
func recordZone(r *dnsdomain.Record) string {
	if r.Zone == nil {
		return ""
	}
	return r.Zone.Domain
}
