package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	reviewDomain "github.com/siamroads/service-trip/internal/domain/review"
	tripDomain "github.com/siamroads/service-trip/internal/domain/trip"
	"github.com/siamroads/service-trip/internal/platform/domain"
)

// AddReviewRequest holds the data needed to review a trip.
type AddReviewRequest struct {
	AuthorName string `json:"author_name" binding:"required"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	Comment    string `json:"comment"`
}

// ReviewDTO is the response representation of a review.
type ReviewDTO struct {
	ID         uuid.UUID `json:"id"`
	TripID     uuid.UUID `json:"trip_id"`
	AuthorName string    `json:"author_name"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReviewService handles traveller reviews of curated trips.
type ReviewService struct {
	repo   reviewDomain.ReviewRepository
	trips  tripDomain.TripRepository
	logger *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(repo reviewDomain.ReviewRepository, trips tripDomain.TripRepository, logger *zap.Logger) *ReviewService {
	return &ReviewService{repo: repo, trips: trips, logger: logger}
}

// AddReview records a review for a published trip.
func (s *ReviewService) AddReview(ctx context.Context, slug string, req AddReviewRequest) (*ReviewDTO, error) {
	t, err := s.publishedTrip(ctx, slug)
	if err != nil {
		return nil, err
	}

	r, err := reviewDomain.NewReview(t.ID(), req.AuthorName, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	s.logger.Info("review added",
		zap.String("review_id", r.ID().String()),
		zap.String("slug", t.Slug()),
		zap.Int("rating", r.Rating()),
	)

	dto := toReviewDTO(r)
	return &dto, nil
}

// ListReviews returns a page of a published trip's reviews, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, slug string, page, limit int) (*domain.PaginatedResult[ReviewDTO], error) {
	t, err := s.publishedTrip(ctx, slug)
	if err != nil {
		return nil, err
	}

	reviews, total, err := s.repo.FindByTripID(ctx, t.ID(), page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	dtos := make([]ReviewDTO, len(reviews))
	for i, r := range reviews {
		dtos[i] = toReviewDTO(r)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// Summary returns the rating summary of a published trip.
func (s *ReviewService) Summary(ctx context.Context, slug string) (*reviewDomain.Summary, error) {
	t, err := s.publishedTrip(ctx, slug)
	if err != nil {
		return nil, err
	}

	summary, err := s.repo.SummaryForTrip(ctx, t.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to summarize reviews: %w", err)
	}
	return &summary, nil
}

func (s *ReviewService) publishedTrip(ctx context.Context, slug string) (*tripDomain.Trip, error) {
	t, err := s.trips.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !t.IsPublished() {
		return nil, domain.NewNotFoundError("trip", slug)
	}
	return t, nil
}

func toReviewDTO(r *reviewDomain.Review) ReviewDTO {
	return ReviewDTO{
		ID:         r.ID(),
		TripID:     r.TripID(),
		AuthorName: r.AuthorName(),
		Rating:     r.Rating(),
		Comment:    r.Comment(),
		CreatedAt:  r.CreatedAt(),
	}
}
