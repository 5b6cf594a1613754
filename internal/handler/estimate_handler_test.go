package handler

import (
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siamroads/service-trip/internal/domain/estimator"
)

func TestEstimate_Scenario(t *testing.T) {
	s := newTestServer(t, 10)

	w, env := s.do(t, http.MethodPost, "/api/v1/estimates",
		`{"origin":"กรุงเทพ","destination":"เชียงใหม่","days":3,"people":2,"kmPerLiter":14,"fuelPrice":38}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	est := decode[estimator.TripEstimate](t, env.Data)
	assert.Equal(t, 700, est.DistanceKm)
	assert.Equal(t, 9.5, est.DurationHours)
	assert.Equal(t, 320, est.TollCost)
	assert.Equal(t, 1900, est.FuelCost)
	assert.Equal(t, 1800, est.FoodCost)
	assert.Equal(t, 2400, est.AccommodationCost)
	assert.Equal(t, 6420, est.TotalCost)
}

func TestEstimate_HugeNumbersNeverGoNegative(t *testing.T) {
	s := newTestServer(t, 10)

	w, env := s.do(t, http.MethodPost, "/api/v1/estimates",
		`{"origin":"กรุงเทพ","destination":"เชียงใหม่","days":1e19,"fuelPrice":"1e300"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	est := decode[estimator.TripEstimate](t, env.Data)
	assert.Equal(t, math.MaxInt, est.FoodCost)
	assert.Equal(t, math.MaxInt, est.FuelCost)
	assert.Equal(t, math.MaxInt, est.TotalCost)
}

func TestEstimate_NumericStrings(t *testing.T) {
	s := newTestServer(t, 10)

	_, env := s.do(t, http.MethodPost, "/api/v1/estimates",
		`{"origin":"Bangkok","destination":"Chiang Mai","days":"3","people":" 2 ","kmPerLiter":"14","fuelPrice":"38"}`, "")

	est := decode[estimator.TripEstimate](t, env.Data)
	assert.Equal(t, 6420, est.TotalCost)
}

func TestEstimate_WrongTypesFallBackToDefaults(t *testing.T) {
	s := newTestServer(t, 10)

	w, env := s.do(t, http.MethodPost, "/api/v1/estimates",
		`{"origin":42,"destination":{"x":1},"stops":"ปาย","autoOptimizeStops":"yes","days":true,"people":null,"kmPerLiter":"abc","fuelPrice":[1]}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	est := decode[estimator.TripEstimate](t, env.Data)
	assert.Equal(t, []string{"กรุงเทพ", "เชียงใหม่"}, est.RoutePlan)
	assert.Empty(t, est.OrderedStops)
	assert.Equal(t, 2837, est.TotalCost)
}

func TestEstimate_StopsDropNonStrings(t *testing.T) {
	s := newTestServer(t, 10)

	_, env := s.do(t, http.MethodPost, "/api/v1/estimates",
		`{"origin":"กรุงเทพ","destination":"เชียงใหม่","stops":["ลำปาง",7,null,"อยุธยา"],"autoOptimizeStops":false}`, "")

	est := decode[estimator.TripEstimate](t, env.Data)
	assert.Equal(t, []string{"ลำปาง", "อยุธยา"}, est.OrderedStops)
}

func TestEstimate_EmptyBodyUsesDefaults(t *testing.T) {
	s := newTestServer(t, 10)

	w, env := s.do(t, http.MethodPost, "/api/v1/estimates", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	est := decode[estimator.TripEstimate](t, env.Data)
	assert.Equal(t, 700, est.DistanceKm)
}

func TestEstimate_MalformedJSON(t *testing.T) {
	s := newTestServer(t, 10)

	for _, body := range []string{`{"origin":`, `[1,2]`, `"x"`, `{} {}`} {
		w, env := s.do(t, http.MethodPost, "/api/v1/estimates", body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.False(t, env.Success)
		require.NotNil(t, env.Error)
	}
}

func TestCoerceNumber(t *testing.T) {
	assert.Equal(t, 0.0, coerceNumber(nil))
	assert.Equal(t, 0.0, coerceNumber(false))
	assert.Equal(t, 12.5, coerceNumber(" 12.5 "))
	assert.Equal(t, 0.0, coerceNumber("twelve"))
}
