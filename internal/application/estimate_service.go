package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/siamroads/service-trip/internal/domain/estimator"
	tripDomain "github.com/siamroads/service-trip/internal/domain/trip"
	"github.com/siamroads/service-trip/internal/platform/domain"
)

// TripEstimateParams are the traveller-specific inputs for estimating a curated trip.
type TripEstimateParams struct {
	People     float64 `json:"people"`
	KmPerLiter float64 `json:"kmPerLiter"`
	FuelPrice  float64 `json:"fuelPrice"`
}

// CuratedEstimateDTO pairs a curated trip with its estimate.
type CuratedEstimateDTO struct {
	Slug     string                 `json:"slug"`
	Title    string                 `json:"title"`
	Estimate estimator.TripEstimate `json:"estimate"`
}

// EstimateService exposes the trip estimator to transports.
type EstimateService struct {
	estimator *estimator.Estimator
	trips     tripDomain.TripRepository
	logger    *zap.Logger
}

// NewEstimateService creates a new EstimateService.
func NewEstimateService(est *estimator.Estimator, trips tripDomain.TripRepository, logger *zap.Logger) *EstimateService {
	return &EstimateService{
		estimator: est,
		trips:     trips,
		logger:    logger,
	}
}

// Estimate prices an ad-hoc trip. It never fails.
func (s *EstimateService) Estimate(ctx context.Context, req estimator.TripRequest) estimator.TripEstimate {
	result := s.estimator.Estimate(req)

	s.logger.Debug("trip estimated",
		zap.Strings("route", result.RoutePlan),
		zap.Int("distance_km", result.DistanceKm),
		zap.Int("total_cost", result.TotalCost),
	)
	return result
}

// EstimateTrip prices a published curated trip in its curated stop order.
func (s *EstimateService) EstimateTrip(ctx context.Context, slug string, params TripEstimateParams) (*CuratedEstimateDTO, error) {
	t, err := s.trips.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !t.IsPublished() {
		return nil, domain.NewNotFoundError("trip", slug)
	}

	keepOrder := false
	result := s.Estimate(ctx, estimator.TripRequest{
		Origin:            t.Origin(),
		Destination:       t.Destination(),
		Stops:             t.Stops(),
		AutoOptimizeStops: &keepOrder,
		Days:              float64(t.Days()),
		People:            params.People,
		KmPerLiter:        params.KmPerLiter,
		FuelPrice:         params.FuelPrice,
	})

	return &CuratedEstimateDTO{
		Slug:     t.Slug(),
		Title:    t.Title(),
		Estimate: result,
	}, nil
}
