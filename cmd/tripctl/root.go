package main

import (
	"github.com/spf13/cobra"

	"github.com/siamroads/service-trip/internal/catalog"
)

// newRootCmd builds the tripctl command tree. The embedded catalogue is loaded
// once before any subcommand runs.
func newRootCmd() *cobra.Command {
	var cat *catalog.Catalog

	root := &cobra.Command{
		Use:          "tripctl",
		Short:        "Estimate Thai road trips and inspect the bundled catalogue",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cat, err = catalog.Load()
			return err
		},
	}

	catalogFn := func() *catalog.Catalog { return cat }
	root.AddCommand(newEstimateCmd(catalogFn))
	root.AddCommand(newCatalogCmd(catalogFn))
	return root
}
