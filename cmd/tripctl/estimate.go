package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/siamroads/service-trip/internal/catalog"
	"github.com/siamroads/service-trip/internal/domain/estimator"
)

func newEstimateCmd(cat func() *catalog.Catalog) *cobra.Command {
	var (
		req       estimator.TripRequest
		stops     string
		keepOrder bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate distance, driving time and cost of a road trip",
		Example: `  tripctl estimate --from กรุงเทพ --to เชียงใหม่ --days 3 --people 2
  tripctl estimate --from Bangkok --to "Chiang Rai" --stops "Lampang,Phitsanulok" --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Stops = estimator.SplitStops(stops)
			optimize := !keepOrder
			req.AutoOptimizeStops = &optimize

			result := cat().Estimator(estimator.DefaultTariff()).Estimate(req)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printEstimate(cmd.OutOrStdout(), result)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Origin, "from", "", "origin place name (default กรุงเทพ)")
	flags.StringVar(&req.Destination, "to", "", "destination place name (default เชียงใหม่)")
	flags.StringVar(&stops, "stops", "", "comma separated stops")
	flags.BoolVar(&keepOrder, "keep-order", false, "visit stops in the given order instead of nearest first")
	flags.Float64Var(&req.Days, "days", 0, "trip length in days")
	flags.Float64Var(&req.People, "people", 0, "number of travellers")
	flags.Float64Var(&req.KmPerLiter, "km-per-liter", 0, "fuel economy")
	flags.Float64Var(&req.FuelPrice, "fuel-price", 0, "fuel price in THB per litre")
	flags.BoolVar(&asJSON, "json", false, "print the estimate as JSON")
	return cmd
}

func printEstimate(w io.Writer, e estimator.TripEstimate) {
	fmt.Fprintf(w, "Route: %s\n\n", strings.Join(e.RoutePlan, " → "))
	for _, s := range e.Segments {
		fmt.Fprintf(w, "  %-16s → %-16s %5d km %5.1f h  toll %4d\n",
			s.From, s.To, s.DistanceKm, s.DurationHours, s.TollCost)
	}
	fmt.Fprintf(w, "\nDistance:       %d km\n", e.DistanceKm)
	fmt.Fprintf(w, "Driving time:   %.1f h\n", e.DurationHours)
	fmt.Fprintf(w, "Fuel:           %d THB\n", e.FuelCost)
	fmt.Fprintf(w, "Tolls:          %d THB\n", e.TollCost)
	fmt.Fprintf(w, "Food:           %d THB\n", e.FoodCost)
	fmt.Fprintf(w, "Accommodation:  %d THB\n", e.AccommodationCost)
	fmt.Fprintf(w, "Total:          %d THB\n", e.TotalCost)
}
