// Package apptest provides in-memory repositories and a recording event
// publisher for exercising the application services without infrastructure.
package apptest

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	leadDomain "github.com/siamroads/service-trip/internal/domain/lead"
	reviewDomain "github.com/siamroads/service-trip/internal/domain/review"
	tripDomain "github.com/siamroads/service-trip/internal/domain/trip"
	"github.com/siamroads/service-trip/internal/platform/domain"
	"github.com/siamroads/service-trip/internal/platform/kafka"
)

func paginate[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if start < 0 || start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// TripRepo is an in-memory trip.TripRepository.
type TripRepo struct {
	mu    sync.Mutex
	trips map[uuid.UUID]*tripDomain.Trip
	order []uuid.UUID
}

func NewTripRepo() *TripRepo {
	return &TripRepo{trips: map[uuid.UUID]*tripDomain.Trip{}}
}

func (r *TripRepo) FindByID(_ context.Context, id uuid.UUID) (*tripDomain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.trips[id]; ok {
		return t, nil
	}
	return nil, domain.NewNotFoundError("trip", id.String())
}

func (r *TripRepo) FindBySlug(_ context.Context, slug string) (*tripDomain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.trips {
		if t.Slug() == slug {
			return t, nil
		}
	}
	return nil, domain.NewNotFoundError("trip", slug)
}

func (r *TripRepo) ListPublished(_ context.Context, region string, page, limit int) ([]*tripDomain.Trip, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*tripDomain.Trip
	for _, id := range r.order {
		t := r.trips[id]
		if t.IsPublished() && (region == "" || t.Region() == region) {
			out = append(out, t)
		}
	}
	return paginate(out, page, limit), int64(len(out)), nil
}

func (r *TripRepo) ListAll(_ context.Context, page, limit int) ([]*tripDomain.Trip, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*tripDomain.Trip, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.trips[id])
	}
	return paginate(out, page, limit), int64(len(out)), nil
}

func (r *TripRepo) CountByStatus(context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, t := range r.trips {
		counts[t.Status().String()]++
	}
	return counts, nil
}

func (r *TripRepo) Save(_ context.Context, t *tripDomain.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trips[t.ID()] = t
	r.order = append(r.order, t.ID())
	return nil
}

func (r *TripRepo) Update(_ context.Context, t *tripDomain.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trips[t.ID()]; !ok {
		return domain.NewNotFoundError("trip", t.ID().String())
	}
	r.trips[t.ID()] = t
	return nil
}

// ReviewRepo is an in-memory review.ReviewRepository.
type ReviewRepo struct {
	mu      sync.Mutex
	reviews []*reviewDomain.Review
}

func (r *ReviewRepo) Save(_ context.Context, rv *reviewDomain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews = append(r.reviews, rv)
	return nil
}

func (r *ReviewRepo) FindByTripID(_ context.Context, tripID uuid.UUID, page, limit int) ([]*reviewDomain.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*reviewDomain.Review
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].TripID() == tripID {
			out = append(out, r.reviews[i])
		}
	}
	return paginate(out, page, limit), int64(len(out)), nil
}

func (r *ReviewRepo) SummaryForTrip(_ context.Context, tripID uuid.UUID) (reviewDomain.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count, sum int64
	for _, rv := range r.reviews {
		if rv.TripID() == tripID {
			count++
			sum += int64(rv.Rating())
		}
	}
	return reviewDomain.NewSummary(count, sum), nil
}

// LeadRepo is an in-memory lead.LeadRepository. Setting UpdateErr makes Update fail.
type LeadRepo struct {
	mu        sync.Mutex
	leads     map[uuid.UUID]*leadDomain.Lead
	UpdateErr error
}

func NewLeadRepo() *LeadRepo {
	return &LeadRepo{leads: map[uuid.UUID]*leadDomain.Lead{}}
}

func (r *LeadRepo) FindByID(_ context.Context, id uuid.UUID) (*leadDomain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.leads[id]; ok {
		return l, nil
	}
	return nil, domain.NewNotFoundError("lead", id.String())
}

func (r *LeadRepo) FindByReference(_ context.Context, reference string) (*leadDomain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.leads {
		if l.Reference() == reference {
			return l, nil
		}
	}
	return nil, domain.NewNotFoundError("lead", reference)
}

func (r *LeadRepo) ListAll(_ context.Context, status string, page, limit int) ([]*leadDomain.Lead, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*leadDomain.Lead
	for _, l := range r.leads {
		if status == "" || l.Status().String() == status {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return paginate(out, page, limit), int64(len(out)), nil
}

func (r *LeadRepo) CountByStatus(context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, l := range r.leads {
		counts[l.Status().String()]++
	}
	return counts, nil
}

func (r *LeadRepo) Save(_ context.Context, l *leadDomain.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads[l.ID()] = l
	return nil
}

func (r *LeadRepo) Update(_ context.Context, l *leadDomain.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.UpdateErr != nil {
		return r.UpdateErr
	}
	r.leads[l.ID()] = l
	return nil
}

// Publisher records published events. Setting Err makes publishing fail.
type Publisher struct {
	mu     sync.Mutex
	topics []string
	events []kafka.CloudEvent
	Err    error
}

func (p *Publisher) PublishEvent(_ context.Context, topic string, ce kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, ce)
	return nil
}

// Types returns the types of the recorded events in publish order.
func (p *Publisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// Topics returns the topics of the recorded events in publish order.
func (p *Publisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}

// Events returns the recorded events in publish order.
func (p *Publisher) Events() []kafka.CloudEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]kafka.CloudEvent(nil), p.events...)
}

// ErrBrokerDown is a canned publishing failure.
var ErrBrokerDown = errors.New("broker down")
