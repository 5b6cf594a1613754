package trip

import (
	"context"

	"github.com/google/uuid"
)

// TripRepository defines the persistence contract for curated trips.
type TripRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Trip, error)
	FindBySlug(ctx context.Context, slug string) (*Trip, error)

	// ListPublished returns published trips, optionally filtered by region, newest first.
	ListPublished(ctx context.Context, region string, page, limit int) ([]*Trip, int64, error)

	// ListAll returns trips in every status (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Trip, int64, error)

	CountByStatus(ctx context.Context) (map[string]int64, error)
	Save(ctx context.Context, trip *Trip) error

	// Update persists changes with optimistic locking on the version.
	Update(ctx context.Context, trip *Trip) error
}
