// Package contracts holds the Kafka topics, event types and payloads this
// service exchanges with other systems.
package contracts

import (
	"time"

	"github.com/google/uuid"
)

// EventSource is the CloudEvents source attribute for events this service emits.
const EventSource = "service-trip"

// Topics.
const (
	TopicLeadEvents = "lead.events"
	TopicCRMEvents  = "crm.events"
)

// Event types produced on TopicLeadEvents.
const (
	LeadSubmitted     = "lead.submitted"
	LeadStatusChanged = "lead.status_changed"
)

// Event types consumed from TopicCRMEvents.
const (
	CRMLeadContacted = "crm.lead_contacted"
)

// LeadSubmittedEvent is published when a traveller asks to be contacted.
type LeadSubmittedEvent struct {
	LeadID     uuid.UUID `json:"lead_id"`
	Reference  string    `json:"reference"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	TripSlug   string    `json:"trip_slug,omitempty"`
	Message    string    `json:"message,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// LeadStatusChangedEvent is published after every accepted status transition.
type LeadStatusChangedEvent struct {
	LeadID     uuid.UUID `json:"lead_id"`
	Reference  string    `json:"reference"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Note       string    `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// LeadContactedEvent is sent by the CRM once a sales agent reached the lead.
type LeadContactedEvent struct {
	Reference string `json:"reference"`
	Agent     string `json:"agent,omitempty"`
	Note      string `json:"note,omitempty"`
}
