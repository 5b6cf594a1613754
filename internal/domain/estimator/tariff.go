package estimator

import (
	"math"
	"strings"
)

// Tariff holds the fixed rates and fallbacks the estimator prices a trip with.
// Money is in Thai baht, distance in kilometres.
type Tariff struct {
	// RoadFactor inflates straight-line distance to approximate driving distance.
	RoadFactor float64
	// MinRoadKm is the shortest distance an unknown segment can be estimated at.
	MinRoadKm   float64
	AvgSpeedKmh float64

	// Toll bands: nothing below TollFreeBelowKm, TollRateShort per km up to
	// TollLongFromKm, TollRateLong per km beyond it.
	TollFreeBelowKm float64
	TollLongFromKm  float64
	TollRateShort   float64
	TollRateLong    float64

	FoodPerPersonPerDay   float64
	AccommodationPerNight float64

	DefaultDays        float64
	DefaultPeople      float64
	DefaultKmPerLiter  float64
	DefaultFuelPrice   float64
	DefaultOrigin      string
	DefaultDestination string
}

// DefaultTariff returns the rates used in production.
func DefaultTariff() Tariff {
	return Tariff{
		RoadFactor:  1.28,
		MinRoadKm:   25,
		AvgSpeedKmh: 75,

		TollFreeBelowKm: 80,
		TollLongFromKm:  300,
		TollRateShort:   0.35,
		TollRateLong:    0.45,

		FoodPerPersonPerDay:   300,
		AccommodationPerNight: 1200,

		DefaultDays:        1,
		DefaultPeople:      1,
		DefaultKmPerLiter:  12,
		DefaultFuelPrice:   38,
		DefaultOrigin:      CapitalName,
		DefaultDestination: "เชียงใหม่",
	}
}

// withDefaults replaces non-positive rates and fallbacks that the estimator
// divides by or substitutes for missing input.
func (t Tariff) withDefaults() Tariff {
	d := DefaultTariff()
	fill := func(v *float64, fallback float64) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) || *v <= 0 {
			*v = fallback
		}
	}
	fill(&t.RoadFactor, d.RoadFactor)
	fill(&t.AvgSpeedKmh, d.AvgSpeedKmh)
	fill(&t.DefaultDays, d.DefaultDays)
	fill(&t.DefaultPeople, d.DefaultPeople)
	fill(&t.DefaultKmPerLiter, d.DefaultKmPerLiter)
	fill(&t.DefaultFuelPrice, d.DefaultFuelPrice)
	if strings.TrimSpace(t.DefaultOrigin) == "" {
		t.DefaultOrigin = d.DefaultOrigin
	}
	if strings.TrimSpace(t.DefaultDestination) == "" {
		t.DefaultDestination = d.DefaultDestination
	}
	return t
}

// TollFor returns the (unrounded) expressway toll for a road distance.
func (t Tariff) TollFor(roadKm float64) float64 {
	switch {
	case roadKm < t.TollFreeBelowKm:
		return 0
	case roadKm < t.TollLongFromKm:
		return roadKm * t.TollRateShort
	default:
		return roadKm * t.TollRateLong
	}
}
