package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siamroads/service-trip/internal/domain/estimator"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, c.Places.Len(), 20)
	assert.GreaterOrEqual(t, c.Routes.Len(), 10)
	assert.NotEmpty(t, c.Trips)
	require.NoError(t, c.Validate())
}

func TestEveryTripEndpointHasACoordinate(t *testing.T) {
	c := MustLoad()
	for _, trip := range c.Trips {
		for _, place := range append([]string{trip.Origin, trip.Destination}, trip.Stops()...) {
			_, ok := c.Places.Lookup(place)
			assert.True(t, ok, "%s: %s", trip.Slug, place)
		}
	}
	_, ok := c.Places.Lookup(estimator.CapitalName)
	assert.True(t, ok)
}

func TestBangkokChiangMaiKnownRoute(t *testing.T) {
	c := MustLoad()

	r, ok := c.Routes.Lookup("เชียงใหม่", "กรุงเทพ")
	require.True(t, ok)
	assert.Equal(t, 700.0, r.DistanceKm)
	assert.Equal(t, 9.5, r.DurationHours)
	assert.Equal(t, 320.0, r.TollCost)

	est := c.Estimator(estimator.DefaultTariff()).Estimate(estimator.TripRequest{
		Origin: "Bangkok", Destination: "Chiang Mai", Days: 3, People: 2, KmPerLiter: 14, FuelPrice: 38,
	})
	assert.Equal(t, 6420, est.TotalCost)
}

func TestTripSeedStops(t *testing.T) {
	c := MustLoad()
	var heritage TripSeed
	for _, trip := range c.Trips {
		if trip.Slug == "bangkok-chiang-mai-heritage" {
			heritage = trip
		}
	}
	require.NotEmpty(t, heritage.Slug)
	assert.Equal(t, []string{"อยุธยา", "พิษณุโลก", "สุโขทัย", "ลำปาง"}, heritage.Stops())
	assert.Equal(t, 4, heritage.Days)
	assert.Contains(t, heritage.Summary, "Ayutthaya, Sukhothai")
}

func TestValidate_ReportsProblems(t *testing.T) {
	c := MustLoad()
	c.Trips = []TripSeed{
		{Slug: "a", Origin: "กรุงเทพ", Destination: "Atlantis", Days: 1},
		{Slug: "a", Origin: "กรุงเทพ", Destination: "ปาย", Days: 0},
		{Title: "untitled"},
	}

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no coordinate for "Atlantis"`)
	assert.Contains(t, err.Error(), "duplicate slug")
	assert.Contains(t, err.Error(), "days must be at least 1")
	assert.Contains(t, err.Error(), "has no slug")
}

func TestDecodeCSV_RejectsBadNumbers(t *testing.T) {
	var rows []routeRow
	err := decodeCSV([]byte("origin,destination,distance_km,duration_hours,toll_cost\nA,B,far,1,0\n"), &rows)
	assert.Error(t, err)
}
