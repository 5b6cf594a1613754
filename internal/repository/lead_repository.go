package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	leadDomain "github.com/siamroads/service-trip/internal/domain/lead"
	"github.com/siamroads/service-trip/internal/platform/domain"
)

// LeadModel is the GORM model for the leads table.
type LeadModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Reference   string     `gorm:"uniqueIndex;not null;size:12"`
	Name        string     `gorm:"not null;size:120"`
	Email       string     `gorm:"size:254"`
	Phone       string     `gorm:"size:30"`
	Message     string     `gorm:"type:text"`
	TripSlug    string     `gorm:"size:80;index"`
	Status      string     `gorm:"not null;size:20;index"`
	Note        string     `gorm:"size:500"`
	ContactedAt *time.Time `gorm:""`
	Version     int64      `gorm:"not null;default:1"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (LeadModel) TableName() string {
	return "leads"
}

// GormLeadRepository is the GORM-based implementation of LeadRepository.
type GormLeadRepository struct {
	db *gorm.DB
}

// NewGormLeadRepository creates a new GormLeadRepository.
func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

// FindByID retrieves a lead by its unique identifier.
func (r *GormLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*leadDomain.Lead, error) {
	var model LeadModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("lead", id.String())
		}
		return nil, fmt.Errorf("failed to find lead by ID: %w", err)
	}
	return toDomainLead(&model)
}

// FindByReference retrieves a lead by its reference.
func (r *GormLeadRepository) FindByReference(ctx context.Context, reference string) (*leadDomain.Lead, error) {
	var model LeadModel
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("lead", reference)
		}
		return nil, fmt.Errorf("failed to find lead by reference: %w", err)
	}
	return toDomainLead(&model)
}

// ListAll retrieves leads newest first, optionally filtered by status, with pagination.
func (r *GormLeadRepository) ListAll(ctx context.Context, status string, page, limit int) ([]*leadDomain.Lead, int64, error) {
	query := r.db.WithContext(ctx).Model(&LeadModel{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	var models []LeadModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}

	leads := make([]*leadDomain.Lead, len(models))
	for i := range models {
		l, err := toDomainLead(&models[i])
		if err != nil {
			return nil, 0, err
		}
		leads[i] = l
	}
	return leads, total, nil
}

// CountByStatus returns lead counts grouped by status (admin).
func (r *GormLeadRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(ctx, r.db, &LeadModel{})
}

// Save persists a new lead.
func (r *GormLeadRepository) Save(ctx context.Context, l *leadDomain.Lead) error {
	if err := r.db.WithContext(ctx).Create(toLeadModel(l)).Error; err != nil {
		return fmt.Errorf("failed to save lead: %w", err)
	}
	return nil
}

// Update persists changes to an existing lead with optimistic locking.
func (r *GormLeadRepository) Update(ctx context.Context, l *leadDomain.Lead) error {
	model := toLeadModel(l)

	// Optimistic locking: IncrementVersion was called before Update.
	expectedVersion := l.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&LeadModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":       model.Status,
			"note":         model.Note,
			"contacted_at": model.ContactedAt,
			"version":      model.Version,
			"updated_at":   model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update lead: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("lead was modified by another transaction")
	}
	return nil
}

// --- Conversion Helpers ---

func toLeadModel(l *leadDomain.Lead) *LeadModel {
	contact := l.Contact()
	return &LeadModel{
		ID:          l.ID(),
		Reference:   l.Reference(),
		Name:        contact.Name,
		Email:       contact.Email,
		Phone:       contact.Phone,
		Message:     l.Message(),
		TripSlug:    l.TripSlug(),
		Status:      l.Status().String(),
		Note:        l.Note(),
		ContactedAt: l.ContactedAt(),
		Version:     l.Version(),
		CreatedAt:   l.CreatedAt(),
		UpdatedAt:   l.UpdatedAt(),
	}
}

func toDomainLead(m *LeadModel) (*leadDomain.Lead, error) {
	status, err := leadDomain.ParseLeadStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return leadDomain.ReconstructLead(
		m.ID,
		m.Reference,
		leadDomain.Contact{Name: m.Name, Email: m.Email, Phone: m.Phone},
		m.Message,
		m.TripSlug,
		status,
		m.Note,
		m.ContactedAt,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
