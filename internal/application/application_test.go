package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/siamroads/service-trip/internal/application/apptest"
	"github.com/siamroads/service-trip/internal/catalog"
	"github.com/siamroads/service-trip/internal/domain/estimator"
)

type fixture struct {
	trips     *apptest.TripRepo
	reviews   *apptest.ReviewRepo
	leads     *apptest.LeadRepo
	publisher *apptest.Publisher

	estimates *EstimateService
	tripSvc   *TripService
	reviewSvc *ReviewService
	leadSvc   *LeadService
	catalog   *catalog.Catalog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cat, err := catalog.Load()
	require.NoError(t, err)

	logger := zap.NewNop()
	f := &fixture{
		trips:     apptest.NewTripRepo(),
		reviews:   &apptest.ReviewRepo{},
		leads:     apptest.NewLeadRepo(),
		publisher: &apptest.Publisher{},
		catalog:   cat,
	}
	f.estimates = NewEstimateService(cat.Estimator(estimator.DefaultTariff()), f.trips, logger)
	f.tripSvc = NewTripService(f.trips, f.reviews, cat.Places, logger)
	f.reviewSvc = NewReviewService(f.reviews, f.trips, logger)
	f.leadSvc = NewLeadService(f.leads, f.trips, f.publisher, logger)
	return f
}

// seeded returns a fixture with the embedded curated trips stored and published.
func seeded(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	n, err := f.tripSvc.SeedCatalog(context.Background(), f.catalog.Trips)
	require.NoError(t, err)
	require.Equal(t, len(f.catalog.Trips), n)
	return f
}
