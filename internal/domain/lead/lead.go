package lead

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/siamroads/service-trip/internal/platform/domain"
)

const referenceChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Contact holds how a lead can be reached.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Lead is the aggregate root for a traveller's request to be contacted.
type Lead struct {
	id        uuid.UUID
	reference string
	contact   Contact
	message   string
	tripSlug  string
	status    LeadStatus
	note      string

	contactedAt *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateReference creates a reference in the format "LD-XXXXXX".
func generateReference() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate lead reference: %w", err)
		}
		result[i] = referenceChars[n.Int64()]
	}
	return "LD-" + string(result), nil
}

// NewLead creates a new Lead with status=new.
func NewLead(contact Contact, message, tripSlug string) (*Lead, error) {
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Email = strings.ToLower(strings.TrimSpace(contact.Email))
	contact.Phone = strings.TrimSpace(contact.Phone)

	if contact.Name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	if contact.Email == "" && contact.Phone == "" {
		return nil, domain.NewValidationError("email or phone is required")
	}

	reference, err := generateReference()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Lead{
		id:        uuid.New(),
		reference: reference,
		contact:   contact,
		message:   strings.TrimSpace(message),
		tripSlug:  strings.TrimSpace(tripSlug),
		status:    StatusNew,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructLead rebuilds a Lead from persistence data (no validation).
func ReconstructLead(
	id uuid.UUID,
	reference string,
	contact Contact,
	message string,
	tripSlug string,
	status LeadStatus,
	note string,
	contactedAt *time.Time,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Lead {
	return &Lead{
		id:          id,
		reference:   reference,
		contact:     contact,
		message:     message,
		tripSlug:    tripSlug,
		status:      status,
		note:        note,
		contactedAt: contactedAt,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

// ID returns the lead's unique identifier.
func (l *Lead) ID() uuid.UUID { return l.id }

// Reference returns the human-readable reference shared with the CRM.
func (l *Lead) Reference() string { return l.reference }

func (l *Lead) Contact() Contact        { return l.contact }
func (l *Lead) Message() string         { return l.message }
func (l *Lead) TripSlug() string        { return l.tripSlug }
func (l *Lead) Status() LeadStatus      { return l.status }
func (l *Lead) Note() string            { return l.note }
func (l *Lead) ContactedAt() *time.Time { return l.contactedAt }

// Version returns the entity version for optimistic locking.
func (l *Lead) Version() int64 { return l.version }

func (l *Lead) CreatedAt() time.Time { return l.createdAt }
func (l *Lead) UpdatedAt() time.Time { return l.updatedAt }

// --- Behavior ---

// TransitionTo moves the lead to target, recording an optional note.
func (l *Lead) TransitionTo(target LeadStatus, note string) error {
	if !target.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid lead status: %s", target))
	}
	if !l.status.CanTransitionTo(target) {
		return domain.NewConflictError(fmt.Sprintf("cannot move lead from %s to %s", l.status, target))
	}

	now := time.Now().UTC()
	if target == StatusContacted {
		l.contactedAt = &now
	}
	if note = strings.TrimSpace(note); note != "" {
		l.note = note
	}
	l.status = target
	l.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (l *Lead) IncrementVersion() {
	l.version++
}
