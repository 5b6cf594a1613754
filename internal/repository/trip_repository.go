package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	tripDomain "github.com/siamroads/service-trip/internal/domain/trip"
	"github.com/siamroads/service-trip/internal/platform/domain"
)

// TripModel is the GORM model for the trips table.
type TripModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Slug        string          `gorm:"uniqueIndex;not null;size:80"`
	Title       string          `gorm:"not null;size:200"`
	Region      string          `gorm:"size:40;index"`
	Summary     string          `gorm:"type:text"`
	Origin      string          `gorm:"not null;size:100"`
	Destination string          `gorm:"not null;size:100"`
	Stops       json.RawMessage `gorm:"type:jsonb;not null"`
	Days        int             `gorm:"not null"`
	Status      string          `gorm:"not null;size:20;index"`
	Version     int64           `gorm:"not null;default:1"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (TripModel) TableName() string {
	return "trips"
}

// GormTripRepository is the GORM-based implementation of TripRepository.
type GormTripRepository struct {
	db *gorm.DB
}

// NewGormTripRepository creates a new GormTripRepository.
func NewGormTripRepository(db *gorm.DB) *GormTripRepository {
	return &GormTripRepository{db: db}
}

// FindByID retrieves a trip by its unique identifier.
func (r *GormTripRepository) FindByID(ctx context.Context, id uuid.UUID) (*tripDomain.Trip, error) {
	var model TripModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("trip", id.String())
		}
		return nil, fmt.Errorf("failed to find trip by ID: %w", err)
	}
	return toDomainTrip(&model)
}

// FindBySlug retrieves a trip by its slug.
func (r *GormTripRepository) FindBySlug(ctx context.Context, slug string) (*tripDomain.Trip, error) {
	var model TripModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("trip", slug)
		}
		return nil, fmt.Errorf("failed to find trip by slug: %w", err)
	}
	return toDomainTrip(&model)
}

// ListPublished retrieves published trips, optionally in one region, with pagination.
func (r *GormTripRepository) ListPublished(ctx context.Context, region string, page, limit int) ([]*tripDomain.Trip, int64, error) {
	query := r.db.WithContext(ctx).Model(&TripModel{}).Where("status = ?", tripDomain.StatusPublished.String())
	if region != "" {
		query = query.Where("region = ?", region)
	}
	return r.list(query, page, limit)
}

// ListAll retrieves trips in every status with pagination (admin).
func (r *GormTripRepository) ListAll(ctx context.Context, page, limit int) ([]*tripDomain.Trip, int64, error) {
	return r.list(r.db.WithContext(ctx).Model(&TripModel{}), page, limit)
}

func (r *GormTripRepository) list(query *gorm.DB, page, limit int) ([]*tripDomain.Trip, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count trips: %w", err)
	}

	var models []TripModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list trips: %w", err)
	}

	trips := make([]*tripDomain.Trip, len(models))
	for i := range models {
		t, err := toDomainTrip(&models[i])
		if err != nil {
			return nil, 0, err
		}
		trips[i] = t
	}
	return trips, total, nil
}

// CountByStatus returns trip counts grouped by status (admin).
func (r *GormTripRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(ctx, r.db, &TripModel{})
}

// Save persists a new trip.
func (r *GormTripRepository) Save(ctx context.Context, t *tripDomain.Trip) error {
	model, err := toTripModel(t)
	if err != nil {
		return fmt.Errorf("failed to convert trip to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError(fmt.Sprintf("trip slug already exists: %s", t.Slug()))
		}
		return fmt.Errorf("failed to save trip: %w", err)
	}
	return nil
}

// Update persists changes to an existing trip with optimistic locking.
func (r *GormTripRepository) Update(ctx context.Context, t *tripDomain.Trip) error {
	model, err := toTripModel(t)
	if err != nil {
		return fmt.Errorf("failed to convert trip to model: %w", err)
	}

	// Every domain mutation bumps the version once, so the stored row holds the previous one.
	expectedVersion := t.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&TripModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"title":       model.Title,
			"region":      model.Region,
			"summary":     model.Summary,
			"origin":      model.Origin,
			"destination": model.Destination,
			"stops":       model.Stops,
			"days":        model.Days,
			"status":      model.Status,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update trip: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("trip was modified by another transaction")
	}
	return nil
}

// --- Conversion Helpers ---

func toTripModel(t *tripDomain.Trip) (*TripModel, error) {
	stops := t.Stops()
	if stops == nil {
		stops = []string{}
	}
	stopsJSON, err := json.Marshal(stops)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stops: %w", err)
	}

	return &TripModel{
		ID:          t.ID(),
		Slug:        t.Slug(),
		Title:       t.Title(),
		Region:      t.Region(),
		Summary:     t.Summary(),
		Origin:      t.Origin(),
		Destination: t.Destination(),
		Stops:       stopsJSON,
		Days:        t.Days(),
		Status:      t.Status().String(),
		Version:     t.Version(),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
	}, nil
}

func toDomainTrip(m *TripModel) (*tripDomain.Trip, error) {
	var stops []string
	if len(m.Stops) > 0 {
		if err := json.Unmarshal(m.Stops, &stops); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stops: %w", err)
		}
	}

	status, err := tripDomain.ParseTripStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return tripDomain.Reconstruct(
		m.ID,
		m.Slug,
		tripDomain.Itinerary{
			Title:       m.Title,
			Region:      m.Region,
			Summary:     m.Summary,
			Origin:      m.Origin,
			Destination: m.Destination,
			Stops:       stops,
			Days:        m.Days,
		},
		status,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
