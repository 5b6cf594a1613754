package trip

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/siamroads/service-trip/internal/platform/domain"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Trip is the aggregate root for a curated road-trip itinerary.
type Trip struct {
	id          uuid.UUID
	slug        string
	title       string
	region      string
	summary     string
	origin      string
	destination string
	stops       []string
	days        int
	status      TripStatus
	version     int64
	createdAt   time.Time
	updatedAt   time.Time
}

// Itinerary is the editable content of a trip.
type Itinerary struct {
	Title       string
	Region      string
	Summary     string
	Origin      string
	Destination string
	Stops       []string
	Days        int
}

// NewTrip creates a draft trip after validating slug and itinerary.
func NewTrip(slug string, it Itinerary) (*Trip, error) {
	slug = strings.TrimSpace(slug)
	if !slugPattern.MatchString(slug) {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid slug: %q", slug))
	}
	it = it.trimmed()
	if err := it.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Trip{
		id:          uuid.New(),
		slug:        slug,
		title:       it.Title,
		region:      it.Region,
		summary:     it.Summary,
		origin:      it.Origin,
		destination: it.Destination,
		stops:       it.Stops,
		days:        it.Days,
		status:      StatusDraft,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds a Trip from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	slug string,
	it Itinerary,
	status TripStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Trip {
	return &Trip{
		id:          id,
		slug:        slug,
		title:       it.Title,
		region:      it.Region,
		summary:     it.Summary,
		origin:      it.Origin,
		destination: it.Destination,
		stops:       it.Stops,
		days:        it.Days,
		status:      status,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

func (t *Trip) ID() uuid.UUID        { return t.id }
func (t *Trip) Slug() string         { return t.slug }
func (t *Trip) Title() string        { return t.title }
func (t *Trip) Region() string       { return t.region }
func (t *Trip) Summary() string      { return t.summary }
func (t *Trip) Origin() string       { return t.origin }
func (t *Trip) Destination() string  { return t.destination }
func (t *Trip) Days() int            { return t.days }
func (t *Trip) Status() TripStatus   { return t.status }
func (t *Trip) Version() int64       { return t.version }
func (t *Trip) CreatedAt() time.Time { return t.createdAt }
func (t *Trip) UpdatedAt() time.Time { return t.updatedAt }

// Stops returns a copy of the intermediate stops.
func (t *Trip) Stops() []string {
	return append([]string(nil), t.stops...)
}

// Itinerary returns the trip's editable content.
func (t *Trip) Itinerary() Itinerary {
	return Itinerary{
		Title:       t.title,
		Region:      t.region,
		Summary:     t.summary,
		Origin:      t.origin,
		Destination: t.destination,
		Stops:       t.Stops(),
		Days:        t.days,
	}
}

// --- Behavior ---

// IsPublished reports whether the trip is visible to the public.
func (t *Trip) IsPublished() bool {
	return t.status == StatusPublished
}

// Revise replaces the itinerary after validating it.
func (t *Trip) Revise(it Itinerary) error {
	it = it.trimmed()
	if err := it.validate(); err != nil {
		return err
	}
	t.title = it.Title
	t.region = it.Region
	t.summary = it.Summary
	t.origin = it.Origin
	t.destination = it.Destination
	t.stops = it.Stops
	t.days = it.Days
	t.touch()
	return nil
}

// Publish makes a draft trip public.
func (t *Trip) Publish() error {
	return t.transitionTo(StatusPublished)
}

// Archive hides the trip.
func (t *Trip) Archive() error {
	return t.transitionTo(StatusArchived)
}

// Restore moves an archived trip back to draft.
func (t *Trip) Restore() error {
	return t.transitionTo(StatusDraft)
}

func (t *Trip) transitionTo(target TripStatus) error {
	if !t.status.CanTransitionTo(target) {
		return domain.NewConflictError(fmt.Sprintf("cannot move trip from %s to %s", t.status, target))
	}
	t.status = target
	t.touch()
	return nil
}

func (t *Trip) touch() {
	t.version++
	t.updatedAt = time.Now().UTC()
}

func (it Itinerary) trimmed() Itinerary {
	it.Title = strings.TrimSpace(it.Title)
	it.Region = strings.ToLower(strings.TrimSpace(it.Region))
	it.Summary = strings.TrimSpace(it.Summary)
	it.Origin = strings.TrimSpace(it.Origin)
	it.Destination = strings.TrimSpace(it.Destination)
	stops := make([]string, 0, len(it.Stops))
	for _, s := range it.Stops {
		if s = strings.TrimSpace(s); s != "" {
			stops = append(stops, s)
		}
	}
	it.Stops = stops
	return it
}

func (it Itinerary) validate() error {
	switch {
	case it.Title == "":
		return domain.NewValidationError("title is required")
	case it.Origin == "":
		return domain.NewValidationError("origin is required")
	case it.Destination == "":
		return domain.NewValidationError("destination is required")
	case it.Days < 1:
		return domain.NewValidationError("days must be at least 1")
	}
	return nil
}
