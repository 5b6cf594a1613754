package lead

import (
	"context"

	"github.com/google/uuid"
)

// LeadRepository defines the persistence contract for leads.
type LeadRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Lead, error)
	FindByReference(ctx context.Context, reference string) (*Lead, error)

	// ListAll returns leads newest first, optionally filtered by status.
	ListAll(ctx context.Context, status string, page, limit int) ([]*Lead, int64, error)

	CountByStatus(ctx context.Context) (map[string]int64, error)
	Save(ctx context.Context, lead *Lead) error

	// Update persists changes with optimistic locking.
	Update(ctx context.Context, lead *Lead) error
}
