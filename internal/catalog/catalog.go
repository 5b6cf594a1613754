package catalog

import (
	"bytes"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/jszwec/csvutil"

	"github.com/siamroads/service-trip/internal/domain/estimator"
)

//go:embed data/*.csv
var dataFS embed.FS

const (
	placesFile = "data/places.csv"
	routesFile = "data/known_routes.csv"
	tripsFile  = "data/trips.csv"
)

type placeRow struct {
	Name    string  `csv:"name"`
	Lat     float64 `csv:"lat"`
	Lng     float64 `csv:"lng"`
	Aliases string  `csv:"aliases"`
}

type routeRow struct {
	Origin        string  `csv:"origin"`
	Destination   string  `csv:"destination"`
	DistanceKm    float64 `csv:"distance_km"`
	DurationHours float64 `csv:"duration_hours"`
	TollCost      float64 `csv:"toll_cost"`
}

// TripSeed is a curated itinerary shipped with the service.
type TripSeed struct {
	Slug        string `csv:"slug"`
	Title       string `csv:"title"`
	Region      string `csv:"region"`
	Origin      string `csv:"origin"`
	Destination string `csv:"destination"`
	RawStops    string `csv:"stops"`
	Days        int    `csv:"days"`
	Summary     string `csv:"summary"`
}

// Stops returns the seed's intermediate stops in order.
func (s TripSeed) Stops() []string {
	return splitList(s.RawStops)
}

// Catalog holds the static tables built from the embedded data files.
type Catalog struct {
	Places *estimator.PlaceTable
	Routes *estimator.RouteTable
	Trips  []TripSeed
}

// Load decodes the embedded CSV files.
func Load() (*Catalog, error) {
	var places []placeRow
	if err := decodeFile(placesFile, &places); err != nil {
		return nil, err
	}
	var routes []routeRow
	if err := decodeFile(routesFile, &routes); err != nil {
		return nil, err
	}
	var trips []TripSeed
	if err := decodeFile(tripsFile, &trips); err != nil {
		return nil, err
	}

	return &Catalog{
		Places: estimator.NewPlaceTable(toPlaces(places)),
		Routes: estimator.NewRouteTable(toKnownRoutes(routes)),
		Trips:  trips,
	}, nil
}

// MustLoad is Load for callers that cannot continue without the catalog.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Estimator builds an estimator over the catalog tables.
func (c *Catalog) Estimator(tariff estimator.Tariff) *estimator.Estimator {
	return estimator.NewEstimator(c.Places, c.Routes, tariff)
}

// Validate checks that every curated trip is well formed and that both of its
// endpoints have a known coordinate.
func (c *Catalog) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(c.Trips))
	for _, t := range c.Trips {
		if t.Slug == "" {
			errs = append(errs, fmt.Errorf("trip %q has no slug", t.Title))
			continue
		}
		if seen[t.Slug] {
			errs = append(errs, fmt.Errorf("trip %s: duplicate slug", t.Slug))
		}
		seen[t.Slug] = true
		if t.Days < 1 {
			errs = append(errs, fmt.Errorf("trip %s: days must be at least 1", t.Slug))
		}
		for _, endpoint := range []string{t.Origin, t.Destination} {
			if _, ok := c.Places.Lookup(endpoint); !ok {
				errs = append(errs, fmt.Errorf("trip %s: no coordinate for %q", t.Slug, endpoint))
			}
		}
	}
	return errors.Join(errs...)
}

func decodeFile(name string, out interface{}) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := decodeCSV(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

func decodeCSV(raw []byte, out interface{}) error {
	dec, err := csvutil.NewDecoder(csv.NewReader(bytes.NewReader(raw)))
	if err != nil {
		return err
	}
	return dec.Decode(out)
}

func toPlaces(rows []placeRow) []estimator.Place {
	places := make([]estimator.Place, len(rows))
	for i, r := range rows {
		places[i] = estimator.Place{
			Name:       r.Name,
			Coordinate: estimator.Coordinate{Lat: r.Lat, Lng: r.Lng},
			Aliases:    splitList(r.Aliases),
		}
	}
	return places
}

func toKnownRoutes(rows []routeRow) []estimator.KnownRoute {
	routes := make([]estimator.KnownRoute, len(rows))
	for i, r := range rows {
		routes[i] = estimator.KnownRoute{
			Origin:        r.Origin,
			Destination:   r.Destination,
			DistanceKm:    r.DistanceKm,
			DurationHours: r.DurationHours,
			TollCost:      r.TollCost,
		}
	}
	return routes
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ";") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
