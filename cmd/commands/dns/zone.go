package dns

import (
	"errors"
	"fmt"

	"thebits/vscale/cmd/commands/cmdutil"
	"thebits/vscale/internal/auditlog"

	"github.com/spf13/cobra"
)

// ZoneCommand returns the "dns zone" command group.
func ZoneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zone",
		Short: "Manage DNS zones",
		Long: `List, create, tag, and delete DNS zones.

Zones can be referred to by numeric ID or by domain name.`,
	}

	cmd.AddCommand(zoneListCommand())
	cmd.AddCommand(zoneShowCommand())
	cmd.AddCommand(zoneCreateCommand())
	cmd.AddCommand(zoneDeleteCommand())
	cmd.AddCommand(zoneTagCommand())

	return cmd
}

func zoneListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List DNS zones",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newDNSService(cmd)
			if err != nil {
				return err
			}
			zones, err := svc.ListZones(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list zones: %w", err)
			}
			return cmdutil.Print(cmd, zones, zoneTable(zones))
		},
	}
	cmdutil.AddOutputFlag(cmd)
	return cmd
}

func zoneShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "show <zone>",
		Short:        "Show a DNS zone",
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
			return cmdutil.Print(cmd, zone, zoneDetail(zone))
		},
	}
	cmdutil.AddOutputFlag(cmd)
	return cmd
}

func zoneCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <domain>",
		Short: "Create a DNS zone",
		Long: `Create a DNS zone for a domain.

Examples:
  vscale dns zone create example.com`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newDNSService(cmd)
			if err != nil {
				return err
			}
			cmdutil.SetAuditMetadata(cmd, auditlog.Metadata{ResourceType: auditlog.ResourceZone, ResourceName: args[0]})

			zone, err := svc.CreateZone(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to create zone: %w", err)
			}
			cmdutil.SetAuditMetadata(cmd, auditlog.Metadata{ResourceID: zone.ID})

			return cmdutil.Print(cmd, zone, zoneDetail(zone))
		},
	}
	cmdutil.AddOutputFlag(cmd)
	return cmdutil.Audited(cmd)
}

func zoneDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <zone>",
		Short: "Delete a DNS zone and all its records",
		Long: `Delete a DNS zone and all its records.

Examples:
  vscale dns zone delete example.com --yes`,
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
			cmdutil.SetAuditMetadata(cmd, auditlog.Metadata{ResourceType: auditlog.ResourceZone, ResourceID: zone.ID, ResourceName: zone.Domain})

			err = cmdutil.Confirm(cmd, fmt.Sprintf("Delete zone %s?", zone.Domain), "All records in the zone are deleted too.")
			if errors.Is(err, cmdutil.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Zone deletion cancelled.")
				return nil
			}
			if err != nil {
				return err
			}

			deleted, err := svc.DeleteZone(cmd.Context(), *zone)
			if err != nil {
				return fmt.Errorf("failed to delete zone: %w", err)
			}
			if !deleted {
				return fmt.Errorf("provider did not confirm deletion of zone %s", zone.Domain)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Zone %s deleted.\n", zone.Domain)
			return nil
		},
	}
	cmdutil.AddYesFlag(cmd)
	return cmdutil.Audited(cmd)
}

func zoneTagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag <zone>",
		Short: "Replace the tags attached to a DNS zone",
		Long: `Replace the tags attached to a DNS zone. Pass --tag once per tag ID,
or --clear to remove every tag.

Examples:
  vscale dns zone tag example.com --tag 1 --tag 2
  vscale dns zone tag example.com --clear`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, _ := cmd.Flags().GetIntSlice("tag")
			clearTags, _ := cmd.Flags().GetBool("clear")
			if len(tags) == 0 && !clearTags {
				return errors.New("nothing to change: pass --tag or --clear")
			}
			if len(tags) > 0 && clearTags {
				return errors.New("--tag and --clear are mutually exclusive")
			}

			svc, err := newDNSService(cmd)
			if err != nil {
				return err
			}
			zone, err := svc.ResolveZone(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch zone: %w", err)
			}
			cmdutil.SetAuditMetadata(cmd, auditlog.Metadata{ResourceType: auditlog.ResourceZone, ResourceID: zone.ID, ResourceName: zone.Domain})

			updated, err := svc.TagZone(cmd.Context(), *zone, tags)
			if err != nil {
				return fmt.Errorf("failed to tag zone: %w", err)
			}
			return cmdutil.Print(cmd, updated, zoneDetail(updated))
		},
	}
	cmd.Flags().IntSlice("tag", nil, "Tag ID to attach (repeatable)")
	cmd.Flags().Bool("clear", false, "Remove all tags")
	cmdutil.AddOutputFlag(cmd)
	return cmdutil.Audited(cmd)
}
