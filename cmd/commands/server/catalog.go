package server

import (
	"fmt"

	"thebits/vscale/cmd/commands/cmdutil"
	"thebits/vscale/internal/config"
	"thebits/vscale/internal/output"
	"thebits/vscale/internal/server/domain"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Catalog is everything a server can be built from.
type Catalog struct {
	Locations []domain.Location `json:"locations" yaml:"locations"`
	Images    []domain.Image    `json:"images" yaml:"images"`
	Sizes     []domain.Size     `json:"sizes" yaml:"sizes"`
}

// CatalogCommand fetches locations, images, and sizes concurrently.
func CatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show locations, images, and plans",
		Long: `Show every location, image, and plan available for new servers.

Examples:
  vscale server catalog
  vscale server catalog --location spb0 -o yaml`,
		Args:         cobra.NoArgs,
		RunE:         runCatalog,
		SilenceUsage: true,
	}

	cmd.Flags().String("location", "", "Only show plans offered in this location")
	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func runCatalog(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	location, _ := cmd.Flags().GetString("location")

	var catalog Catalog
	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		var err error
		catalog.Locations, err = svc.ListLocations(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		catalog.Images, err = svc.ListImages(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		catalog.Sizes, err = svc.ListSizes(ctx, location)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}

	format, _ := cmd.Flags().GetString("output")
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	if f != output.FormatTable {
		return cmdutil.Print(cmd, catalog, output.Table{})
	}

	sections := []struct {
		title string
		table output.Table
	}{
		{"Locations", locationTable(catalog.Locations)},
		{"Images", imageTable(catalog.Images)},
		{"Sizes", sizeTable(catalog.Sizes)},
	}
	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", s.title)
		if err := cmdutil.Print(cmd, nil, s.table); err != nil {
			return err
		}
	}
	return nil
}

func LocationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "locations",
		Short:        "List available locations",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cmd)
			if err != nil {
				return err
			}
			locations, err := svc.ListLocations(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list locations: %w", err)
			}
			return cmdutil.Print(cmd, locations, locationTable(locations))
		},
	}
	cmdutil.AddOutputFlag(cmd)
	return cmd
}

func ImagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "images",
		Short:        "List available images",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cmd)
			if err != nil {
				return err
			}
			images, err := svc.ListImages(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list images: %w", err)
			}
			return cmdutil.Print(cmd, images, imageTable(images))
		},
	}
	cmdutil.AddOutputFlag(cmd)
	return cmd
}

func SizesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sizes",
		Short: "List available plans",
		Long: `List available plans, optionally only those offered in one location.
Pass --default-location to filter by the default-location config key.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cmd)
			if err != nil {
				return err
			}
			location, _ := cmd.Flags().GetString("location")
			if useDefault, _ := cmd.Flags().GetBool("default-location"); useDefault && location == "" {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				location = cfg.DefaultLocation
			}
			sizes, err := svc.ListSizes(cmd.Context(), location)
			if err != nil {
				return fmt.Errorf("failed to list sizes: %w", err)
			}
			return cmdutil.Print(cmd, sizes, sizeTable(sizes))
		},
	}
	cmd.Flags().String("location", "", "Only show plans offered in this location")
	cmd.Flags().Bool("default-location", false, "Filter by the default-location config key")
	cmdutil.AddOutputFlag(cmd)
	return cmd
}
