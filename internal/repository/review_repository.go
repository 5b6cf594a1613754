package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	reviewDomain "github.com/siamroads/service-trip/internal/domain/review"
)

// ReviewModel is the GORM model for the reviews table.
type ReviewModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	TripID     uuid.UUID `gorm:"type:uuid;index;not null"`
	AuthorName string    `gorm:"not null;size:80"`
	Rating     int       `gorm:"not null"`
	Comment    string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ReviewModel) TableName() string {
	return "reviews"
}

// GormReviewRepository is the GORM-based implementation of ReviewRepository.
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository.
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Save persists a new review.
func (r *GormReviewRepository) Save(ctx context.Context, rv *reviewDomain.Review) error {
	model := &ReviewModel{
		ID:         rv.ID(),
		TripID:     rv.TripID(),
		AuthorName: rv.AuthorName(),
		Rating:     rv.Rating(),
		Comment:    rv.Comment(),
		CreatedAt:  rv.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

// FindByTripID retrieves a trip's reviews newest first with pagination.
func (r *GormReviewRepository) FindByTripID(ctx context.Context, tripID uuid.UUID, page, limit int) ([]*reviewDomain.Review, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&ReviewModel{}).Where("trip_id = ?", tripID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var models []ReviewModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find reviews: %w", err)
	}

	reviews := make([]*reviewDomain.Review, len(models))
	for i, m := range models {
		reviews[i] = reviewDomain.Reconstruct(m.ID, m.TripID, m.AuthorName, m.Rating, m.Comment, m.CreatedAt)
	}
	return reviews, total, nil
}

// SummaryForTrip aggregates the rating count and average of a trip.
func (r *GormReviewRepository) SummaryForTrip(ctx context.Context, tripID uuid.UUID) (reviewDomain.Summary, error) {
	var agg struct {
		Count int64
		Sum   int64
	}
	if err := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Select("count(*) as count, coalesce(sum(rating), 0) as sum").
		Where("trip_id = ?", tripID).
		Scan(&agg).Error; err != nil {
		return reviewDomain.Summary{}, fmt.Errorf("failed to summarize reviews: %w", err)
	}
	return reviewDomain.NewSummary(agg.Count, agg.Sum), nil
}
