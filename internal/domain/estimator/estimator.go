// Package estimator prices a road trip from place names alone: distance, driving
// time, fuel, tolls, food and lodging, plus a per-leg breakdown.
package estimator

import (
	"math"
	"strings"
)

// TripRequest is the input to Estimate. Zero, negative or non-finite numbers fall
// back to the tariff defaults; empty origin or destination fall back to the
// default places.
type TripRequest struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Stops       []string `json:"stops"`
	// AutoOptimizeStops reorders stops by nearest neighbour. Nil means true.
	AutoOptimizeStops *bool   `json:"autoOptimizeStops,omitempty"`
	Days              float64 `json:"days"`
	People            float64 `json:"people"`
	KmPerLiter        float64 `json:"kmPerLiter"`
	FuelPrice         float64 `json:"fuelPrice"`
}

// RouteSegment is one leg of the route plan.
type RouteSegment struct {
	From          string  `json:"from"`
	To            string  `json:"to"`
	DistanceKm    int     `json:"distance_km"`
	DurationHours float64 `json:"duration_hours"`
	TollCost      int     `json:"toll_cost"`
}

// TripEstimate is the result of Estimate.
type TripEstimate struct {
	DistanceKm        int            `json:"distance_km"`
	DurationHours     float64        `json:"duration_hours"`
	FuelCost          int            `json:"fuel_cost"`
	TollCost          int            `json:"toll_cost"`
	FoodCost          int            `json:"food_cost"`
	AccommodationCost int            `json:"accommodation_cost"`
	TotalCost         int            `json:"total_cost"`
	OrderedStops      []string       `json:"ordered_stops"`
	RoutePlan         []string       `json:"route_plan"`
	Segments          []RouteSegment `json:"segments"`
}

// Estimator computes trip estimates over fixed place and route tables.
// It holds no mutable state and may be shared between goroutines.
type Estimator struct {
	places *PlaceTable
	routes *RouteTable
	tariff Tariff
}

// NewEstimator creates an Estimator. Nil tables are replaced by empty ones, and
// tariff fields that must be positive fall back to DefaultTariff.
func NewEstimator(places *PlaceTable, routes *RouteTable, tariff Tariff) *Estimator {
	if places == nil {
		places = NewPlaceTable(nil)
	}
	if routes == nil {
		routes = NewRouteTable(nil)
	}
	return &Estimator{places: places, routes: routes, tariff: tariff.withDefaults()}
}

// Estimate prices req. It never fails: invalid input is replaced by defaults.
func (e *Estimator) Estimate(req TripRequest) TripEstimate {
	t := e.tariff

	origin := e.sanitizePlace(req.Origin, t.DefaultOrigin)
	destination := e.sanitizePlace(req.Destination, t.DefaultDestination)

	days := wholeAtLeastOne(positiveOr(req.Days, t.DefaultDays))
	people := wholeAtLeastOne(positiveOr(req.People, t.DefaultPeople))
	kmPerLiter := positiveOr(req.KmPerLiter, t.DefaultKmPerLiter)
	fuelPrice := positiveOr(req.FuelPrice, t.DefaultFuelPrice)

	stops := e.normalizeStops(req.Stops, origin, destination)
	if req.AutoOptimizeStops == nil || *req.AutoOptimizeStops {
		stops = e.orderNearestNeighbour(origin, stops)
	}

	plan := make([]string, 0, len(stops)+2)
	plan = append(plan, origin)
	plan = append(plan, stops...)
	plan = append(plan, destination)

	segments := make([]RouteSegment, 0, len(plan)-1)
	var distanceSum, durationSum, tollSum float64
	for i := 0; i+1 < len(plan); i++ {
		seg := e.segment(plan[i], plan[i+1])
		segments = append(segments, seg)
		distanceSum += float64(seg.DistanceKm)
		durationSum += seg.DurationHours
		tollSum += float64(seg.TollCost)
	}

	distance := roundInt(distanceSum)
	fuel := roundInt(float64(distance) / kmPerLiter * fuelPrice)
	toll := roundInt(tollSum)
	food := roundInt(days * people * t.FoodPerPersonPerDay)
	accommodation := roundInt(math.Max(days-1, 0) * t.AccommodationPerNight)

	return TripEstimate{
		DistanceKm:        distance,
		DurationHours:     roundOneDecimal(durationSum),
		FuelCost:          fuel,
		TollCost:          toll,
		FoodCost:          food,
		AccommodationCost: accommodation,
		TotalCost:         sumCapped(fuel, toll, food, accommodation),
		OrderedStops:      stops,
		RoutePlan:         plan,
		Segments:          segments,
	}
}

// Segment estimates a single leg between two places.
func (e *Estimator) Segment(from, to string) RouteSegment {
	return e.segment(e.places.Canonical(from), e.places.Canonical(to))
}

func (e *Estimator) segment(from, to string) RouteSegment {
	if r, ok := e.routes.Lookup(from, to); ok {
		return RouteSegment{
			From:          from,
			To:            to,
			DistanceKm:    roundInt(r.DistanceKm),
			DurationHours: roundOneDecimal(r.DurationHours),
			TollCost:      roundInt(r.TollCost),
		}
	}

	road := e.estimatedRoadKm(from, to)
	return RouteSegment{
		From:          from,
		To:            to,
		DistanceKm:    roundInt(road),
		DurationHours: roundOneDecimal(road / e.tariff.AvgSpeedKmh),
		TollCost:      roundInt(e.tariff.TollFor(road)),
	}
}

// roadKm is the unrounded driving distance between two canonical names.
func (e *Estimator) roadKm(from, to string) float64 {
	if r, ok := e.routes.Lookup(from, to); ok {
		return r.DistanceKm
	}
	return e.estimatedRoadKm(from, to)
}

func (e *Estimator) estimatedRoadKm(from, to string) float64 {
	straight := HaversineKm(e.places.CoordinateOf(from), e.places.CoordinateOf(to))
	return math.Max(straight*e.tariff.RoadFactor, e.tariff.MinRoadKm)
}

func (e *Estimator) sanitizePlace(name, fallback string) string {
	if canonical := e.places.Canonical(name); canonical != "" {
		return canonical
	}
	return fallback
}

// normalizeStops drops empty names, case-insensitive duplicates and stops equal
// to the origin or destination, keeping first-occurrence order.
func (e *Estimator) normalizeStops(stops []string, origin, destination string) []string {
	seen := map[string]struct{}{
		NormalizeName(origin):      {},
		NormalizeName(destination): {},
	}
	out := make([]string, 0, len(stops))
	for _, s := range stops {
		name := e.places.Canonical(s)
		if name == "" {
			continue
		}
		key := NormalizeName(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

// orderNearestNeighbour visits stops greedily from origin, always moving to the
// closest unvisited stop. Ties go to the earliest stop in the input.
func (e *Estimator) orderNearestNeighbour(origin string, stops []string) []string {
	remaining := append([]string(nil), stops...)
	ordered := make([]string, 0, len(stops))
	current := origin

	for len(remaining) > 0 {
		best := 0
		bestDistance := e.roadKm(current, remaining[0])
		for i := 1; i < len(remaining); i++ {
			if d := e.roadKm(current, remaining[i]); d < bestDistance {
				best, bestDistance = i, d
			}
		}
		current = remaining[best]
		ordered = append(ordered, current)
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return ordered
}

func positiveOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fallback
	}
	return v
}

func wholeAtLeastOne(v float64) float64 {
	return math.Max(1, math.Floor(v))
}

// roundInt rounds v to a whole number clamped to [0, math.MaxInt], so huge or
// infinite amounts saturate instead of wrapping.
func roundInt(v float64) int {
	r := math.Round(v)
	switch {
	case math.IsNaN(r) || r <= 0:
		return 0
	case r >= float64(math.MaxInt):
		return math.MaxInt
	}
	return int(r)
}

func sumCapped(values ...int) int {
	total := 0
	for _, v := range values {
		if v > math.MaxInt-total {
			return math.MaxInt
		}
		total += v
	}
	return total
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

// SplitStops parses a comma or newline separated list of stop names.
func SplitStops(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '\n' })
	stops := make([]string, 0, len(fields))
	for _, f := range fields {
		if s := strings.TrimSpace(f); s != "" {
			stops = append(stops, s)
		}
	}
	return stops
}
