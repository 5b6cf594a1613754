package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/siamroads/service-trip/internal/catalog"
	"github.com/siamroads/service-trip/internal/domain/estimator"
	reviewDomain "github.com/siamroads/service-trip/internal/domain/review"
	tripDomain "github.com/siamroads/service-trip/internal/domain/trip"
	"github.com/siamroads/service-trip/internal/platform/domain"
)

// TripRequest holds the editable fields of a curated trip.
type TripRequest struct {
	Title       string   `json:"title" binding:"required"`
	Region      string   `json:"region"`
	Summary     string   `json:"summary"`
	Origin      string   `json:"origin" binding:"required"`
	Destination string   `json:"destination" binding:"required"`
	Stops       []string `json:"stops"`
	Days        int      `json:"days" binding:"required,min=1"`
}

// CreateTripRequest adds the immutable slug to TripRequest.
type CreateTripRequest struct {
	Slug string `json:"slug" binding:"required"`
	TripRequest
}

// TripDTO is the response representation of a curated trip.
type TripDTO struct {
	ID          uuid.UUID             `json:"id"`
	Slug        string                `json:"slug"`
	Title       string                `json:"title"`
	Region      string                `json:"region"`
	Summary     string                `json:"summary"`
	Origin      string                `json:"origin"`
	Destination string                `json:"destination"`
	Stops       []string              `json:"stops"`
	Days        int                   `json:"days"`
	Status      string                `json:"status"`
	Rating      *reviewDomain.Summary `json:"rating,omitempty"`
	Version     int64                 `json:"version"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// TripStatsDTO holds aggregate trip counts for the admin dashboard.
type TripStatsDTO struct {
	TotalTrips int64            `json:"total_trips"`
	ByStatus   map[string]int64 `json:"by_status"`
}

// TripService is the application service for curated trips.
type TripService struct {
	repo    tripDomain.TripRepository
	reviews reviewDomain.ReviewRepository
	places  *estimator.PlaceTable
	logger  *zap.Logger
}

// NewTripService creates a new TripService.
func NewTripService(
	repo tripDomain.TripRepository,
	reviews reviewDomain.ReviewRepository,
	places *estimator.PlaceTable,
	logger *zap.Logger,
) *TripService {
	if places == nil {
		places = estimator.NewPlaceTable(nil)
	}
	return &TripService{
		repo:    repo,
		reviews: reviews,
		places:  places,
		logger:  logger,
	}
}

// ListPublished returns published trips, optionally filtered by region.
func (s *TripService) ListPublished(ctx context.Context, region string, page, limit int) (*domain.PaginatedResult[TripDTO], error) {
	region = strings.ToLower(strings.TrimSpace(region))
	trips, total, err := s.repo.ListPublished(ctx, region, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	result := domain.NewPaginatedResult(toTripDTOs(trips), total, page, limit)
	return &result, nil
}

// GetBySlug returns a published trip with its rating summary.
func (s *TripService) GetBySlug(ctx context.Context, slug string) (*TripDTO, error) {
	t, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !t.IsPublished() {
		return nil, domain.NewNotFoundError("trip", slug)
	}

	dto := toTripDTO(t)
	if s.reviews != nil {
		summary, err := s.reviews.SummaryForTrip(ctx, t.ID())
		if err != nil {
			return nil, fmt.Errorf("failed to summarize reviews: %w", err)
		}
		dto.Rating = &summary
	}
	return &dto, nil
}

// Get returns a trip in any status (admin).
func (s *TripService) Get(ctx context.Context, id uuid.UUID) (*TripDTO, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toTripDTO(t)
	return &dto, nil
}

// Create adds a draft trip (admin).
func (s *TripService) Create(ctx context.Context, req CreateTripRequest) (*TripDTO, error) {
	it, err := s.itinerary(req.TripRequest)
	if err != nil {
		return nil, err
	}

	t, err := tripDomain.NewTrip(req.Slug, it)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindBySlug(ctx, t.Slug()); err == nil && existing != nil {
		return nil, domain.NewConflictError(fmt.Sprintf("trip slug already exists: %s", t.Slug()))
	} else if err != nil && !domain.IsKind(err, domain.KindNotFound) {
		return nil, err
	}

	if err := s.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save trip: %w", err)
	}

	s.logger.Info("trip created",
		zap.String("trip_id", t.ID().String()),
		zap.String("slug", t.Slug()),
	)

	dto := toTripDTO(t)
	return &dto, nil
}

// Update revises a trip's itinerary (admin).
func (s *TripService) Update(ctx context.Context, id uuid.UUID, req TripRequest) (*TripDTO, error) {
	it, err := s.itinerary(req)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, "trip updated", func(t *tripDomain.Trip) error {
		return t.Revise(it)
	})
}

// Publish makes a trip public (admin).
func (s *TripService) Publish(ctx context.Context, id uuid.UUID) (*TripDTO, error) {
	return s.mutate(ctx, id, "trip published", (*tripDomain.Trip).Publish)
}

// Archive hides a trip (admin).
func (s *TripService) Archive(ctx context.Context, id uuid.UUID) (*TripDTO, error) {
	return s.mutate(ctx, id, "trip archived", (*tripDomain.Trip).Archive)
}

// Restore moves an archived trip back to draft (admin).
func (s *TripService) Restore(ctx context.Context, id uuid.UUID) (*TripDTO, error) {
	return s.mutate(ctx, id, "trip restored", (*tripDomain.Trip).Restore)
}

// ListAll returns trips in every status (admin).
func (s *TripService) ListAll(ctx context.Context, page, limit int) ([]TripDTO, int64, error) {
	trips, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list trips: %w", err)
	}
	return toTripDTOs(trips), total, nil
}

// Stats returns trip counts by status (admin).
func (s *TripService) Stats(ctx context.Context) (*TripStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &TripStatsDTO{TotalTrips: total, ByStatus: counts}, nil
}

// SeedCatalog inserts the curated trips whose slug is not stored yet, published.
// It returns the number of trips inserted and is safe to run on every start.
func (s *TripService) SeedCatalog(ctx context.Context, seeds []catalog.TripSeed) (int, error) {
	inserted := 0
	for _, seed := range seeds {
		_, err := s.repo.FindBySlug(ctx, seed.Slug)
		if err == nil {
			continue
		}
		if !domain.IsKind(err, domain.KindNotFound) {
			return inserted, fmt.Errorf("failed to look up trip %s: %w", seed.Slug, err)
		}

		t, err := tripDomain.NewTrip(seed.Slug, tripDomain.Itinerary{
			Title:       seed.Title,
			Region:      seed.Region,
			Summary:     seed.Summary,
			Origin:      s.places.Canonical(seed.Origin),
			Destination: s.places.Canonical(seed.Destination),
			Stops:       seed.Stops(),
			Days:        seed.Days,
		})
		if err != nil {
			return inserted, fmt.Errorf("invalid seed %s: %w", seed.Slug, err)
		}
		if err := t.Publish(); err != nil {
			return inserted, err
		}
		if err := s.repo.Save(ctx, t); err != nil {
			return inserted, fmt.Errorf("failed to save trip %s: %w", seed.Slug, err)
		}
		inserted++
	}

	if inserted > 0 {
		s.logger.Info("catalog seeded", zap.Int("trips_inserted", inserted))
	}
	return inserted, nil
}

// --- Helpers ---

// itinerary canonicalizes place names and requires both endpoints to be known places.
func (s *TripService) itinerary(req TripRequest) (tripDomain.Itinerary, error) {
	it := tripDomain.Itinerary{
		Title:       req.Title,
		Region:      req.Region,
		Summary:     req.Summary,
		Origin:      s.places.Canonical(req.Origin),
		Destination: s.places.Canonical(req.Destination),
		Days:        req.Days,
	}
	for _, stop := range req.Stops {
		it.Stops = append(it.Stops, s.places.Canonical(stop))
	}

	for _, name := range []string{it.Origin, it.Destination} {
		if name == "" {
			continue
		}
		if _, ok := s.places.Lookup(name); !ok {
			return it, domain.NewValidationError(fmt.Sprintf("unknown place: %s", name))
		}
	}
	return it, nil
}

func (s *TripService) mutate(ctx context.Context, id uuid.UUID, msg string, apply func(*tripDomain.Trip) error) (*TripDTO, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(t); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info(msg,
		zap.String("trip_id", t.ID().String()),
		zap.String("status", t.Status().String()),
	)

	dto := toTripDTO(t)
	return &dto, nil
}

func toTripDTO(t *tripDomain.Trip) TripDTO {
	return TripDTO{
		ID:          t.ID(),
		Slug:        t.Slug(),
		Title:       t.Title(),
		Region:      t.Region(),
		Summary:     t.Summary(),
		Origin:      t.Origin(),
		Destination: t.Destination(),
		Stops:       t.Stops(),
		Days:        t.Days(),
		Status:      t.Status().String(),
		Version:     t.Version(),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
	}
}

func toTripDTOs(trips []*tripDomain.Trip) []TripDTO {
	dtos := make([]TripDTO, len(trips))
	for i, t := range trips {
		dtos[i] = toTripDTO(t)
	}
	return dtos
}
