package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/siamroads/service-trip/internal/contracts"
	leadDomain "github.com/siamroads/service-trip/internal/domain/lead"
	tripDomain "github.com/siamroads/service-trip/internal/domain/trip"
	"github.com/siamroads/service-trip/internal/platform/domain"
)

// SubmitLeadRequest is a traveller's request to be contacted about a trip.
type SubmitLeadRequest struct {
	Name     string `json:"name" binding:"required,max=120"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone" binding:"omitempty,max=30"`
	Message  string `json:"message" binding:"max=2000"`
	TripSlug string `json:"trip_slug"`
}

// UpdateLeadStatusRequest moves a lead to another status (admin).
type UpdateLeadStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"max=500"`
}

// LeadDTO is the response representation of a lead.
type LeadDTO struct {
	ID          uuid.UUID  `json:"id"`
	Reference   string     `json:"reference"`
	Name        string     `json:"name"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Message     string     `json:"message,omitempty"`
	TripSlug    string     `json:"trip_slug,omitempty"`
	Status      string     `json:"status"`
	Note        string     `json:"note,omitempty"`
	ContactedAt *time.Time `json:"contacted_at,omitempty"`
	Version     int64      `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// LeadStatsDTO holds lead counts for the admin dashboard.
type LeadStatsDTO struct {
	TotalLeads int64            `json:"total_leads"`
	ByStatus   map[string]int64 `json:"by_status"`
}

// LeadService orchestrates lead capture and follow-up.
type LeadService struct {
	repo      leadDomain.LeadRepository
	trips     tripDomain.TripRepository
	publisher EventPublisher
	logger    *zap.Logger
}

// NewLeadService creates a new LeadService. A nil publisher disables events.
func NewLeadService(
	repo leadDomain.LeadRepository,
	trips tripDomain.TripRepository,
	publisher EventPublisher,
	logger *zap.Logger,
) *LeadService {
	return &LeadService{
		repo:      repo,
		trips:     trips,
		publisher: publisher,
		logger:    logger,
	}
}

// Submit stores a new lead and announces it on the lead topic.
func (s *LeadService) Submit(ctx context.Context, req SubmitLeadRequest) (*LeadDTO, error) {
	if req.TripSlug != "" {
		t, err := s.trips.FindBySlug(ctx, req.TripSlug)
		if err != nil && !domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
		// Drafts and archived trips are reported exactly like missing ones.
		if err != nil || !t.IsPublished() {
			return nil, domain.NewValidationError(fmt.Sprintf("unknown trip: %s", req.TripSlug))
		}
	}

	l, err := leadDomain.NewLead(leadDomain.Contact{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}, req.Message, req.TripSlug)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to save lead: %w", err)
	}

	s.logger.Info("lead submitted",
		zap.String("lead_id", l.ID().String()),
		zap.String("reference", l.Reference()),
	)

	contact := l.Contact()
	publishEvent(ctx, s.publisher, s.logger, contracts.TopicLeadEvents, contracts.LeadSubmitted, contracts.LeadSubmittedEvent{
		LeadID:     l.ID(),
		Reference:  l.Reference(),
		Name:       contact.Name,
		Email:      contact.Email,
		Phone:      contact.Phone,
		TripSlug:   l.TripSlug(),
		Message:    l.Message(),
		OccurredAt: time.Now().UTC(),
	})

	dto := toLeadDTO(l)
	return &dto, nil
}

// Get returns a lead by id (admin).
func (s *LeadService) Get(ctx context.Context, id uuid.UUID) (*LeadDTO, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toLeadDTO(l)
	return &dto, nil
}

// ListAll returns leads, optionally filtered by status (admin).
func (s *LeadService) ListAll(ctx context.Context, status string, page, limit int) ([]LeadDTO, int64, error) {
	if status != "" {
		if _, err := leadDomain.ParseLeadStatus(status); err != nil {
			return nil, 0, domain.NewValidationError(err.Error())
		}
	}

	leads, total, err := s.repo.ListAll(ctx, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}

	dtos := make([]LeadDTO, len(leads))
	for i, l := range leads {
		dtos[i] = toLeadDTO(l)
	}
	return dtos, total, nil
}

// UpdateStatus moves a lead to a new status (admin).
func (s *LeadService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateLeadStatusRequest) (*LeadDTO, error) {
	target, err := leadDomain.ParseLeadStatus(req.Status)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, l, target, req.Note); err != nil {
		return nil, err
	}

	dto := toLeadDTO(l)
	return &dto, nil
}

// MarkContacted records that the CRM reached the lead with the given reference.
// Leads already past the new status are left untouched.
func (s *LeadService) MarkContacted(ctx context.Context, reference, note string) error {
	l, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		return err
	}
	if l.Status() != leadDomain.StatusNew {
		s.logger.Debug("lead already handled, ignoring contact",
			zap.String("reference", reference),
			zap.String("status", l.Status().String()),
		)
		return nil
	}
	return s.transition(ctx, l, leadDomain.StatusContacted, note)
}

// Stats returns lead counts by status (admin).
func (s *LeadService) Stats(ctx context.Context) (*LeadStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &LeadStatsDTO{TotalLeads: total, ByStatus: counts}, nil
}

func (s *LeadService) transition(ctx context.Context, l *leadDomain.Lead, target leadDomain.LeadStatus, note string) error {
	from := l.Status()
	if err := l.TransitionTo(target, note); err != nil {
		return err
	}

	l.IncrementVersion()
	if err := s.repo.Update(ctx, l); err != nil {
		return err
	}

	s.logger.Info("lead status changed",
		zap.String("reference", l.Reference()),
		zap.String("from", from.String()),
		zap.String("to", target.String()),
	)

	publishEvent(ctx, s.publisher, s.logger, contracts.TopicLeadEvents, contracts.LeadStatusChanged, contracts.LeadStatusChangedEvent{
		LeadID:     l.ID(),
		Reference:  l.Reference(),
		From:       from.String(),
		To:         target.String(),
		Note:       l.Note(),
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

func toLeadDTO(l *leadDomain.Lead) LeadDTO {
	contact := l.Contact()
	return LeadDTO{
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
