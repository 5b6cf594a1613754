package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/siamroads/service-trip/internal/catalog"
)

func newCatalogCmd(cat func() *catalog.Catalog) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the bundled place, route and trip tables",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check that every curated trip endpoint has a known coordinate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cat()
			if err := c.Validate(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog ok: %d places, %d routes, %d trips\n",
				c.Places.Len(), c.Routes.Len(), len(c.Trips))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "trips",
		Short: "List the curated trips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range cat().Trips {
				fmt.Fprintf(cmd.OutOrStdout(), "%-32s %-10s %d day(s)  %s → %s\n",
					t.Slug, t.Region, t.Days, t.Origin, t.Destination)
			}
			return nil
		},
	})
	return cmd
}
