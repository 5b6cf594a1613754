package trip

import "fmt"

// TripStatus is the publication state of a curated trip.
type TripStatus string

const (
	StatusDraft     TripStatus = "draft"
	StatusPublished TripStatus = "published"
	StatusArchived  TripStatus = "archived"
)

var validTransitions = map[TripStatus][]TripStatus{
	StatusDraft:     {StatusPublished, StatusArchived},
	StatusPublished: {StatusArchived},
	StatusArchived:  {StatusDraft},
}

// IsValid returns true if the status is a recognized trip status.
func (s TripStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s TripStatus) CanTransitionTo(target TripStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s TripStatus) String() string {
	return string(s)
}

// ParseTripStatus converts a string to a TripStatus.
func ParseTripStatus(s string) (TripStatus, error) {
	status := TripStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid trip status: %s", s)
	}
	return status, nil
}
