package review

import (
	"context"

	"github.com/google/uuid"
)

// ReviewRepository defines persistence operations for trip reviews.
type ReviewRepository interface {
	Save(ctx context.Context, review *Review) error
	FindByTripID(ctx context.Context, tripID uuid.UUID, page, limit int) ([]*Review, int64, error)
	SummaryForTrip(ctx context.Context, tripID uuid.UUID) (Summary, error)
}
