package review

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/siamroads/service-trip/internal/platform/domain"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 2000
	maxAuthorLength  = 80
)

// Review is a traveller's rating of a curated trip.
type Review struct {
	id         uuid.UUID
	tripID     uuid.UUID
	authorName string
	rating     int
	comment    string
	createdAt  time.Time
}

// NewReview creates a review after validating rating, author and comment.
func NewReview(tripID uuid.UUID, authorName string, rating int, comment string) (*Review, error) {
	authorName = strings.TrimSpace(authorName)
	comment = strings.TrimSpace(comment)

	if tripID == uuid.Nil {
		return nil, domain.NewValidationError("trip ID is required")
	}
	if authorName == "" {
		return nil, domain.NewValidationError("author name is required")
	}
	if utf8.RuneCountInString(authorName) > maxAuthorLength {
		return nil, domain.NewValidationError(fmt.Sprintf("author name must be at most %d characters", maxAuthorLength))
	}
	if rating < MinRating || rating > MaxRating {
		return nil, domain.NewValidationError(fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating))
	}
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return nil, domain.NewValidationError(fmt.Sprintf("comment must be at most %d characters", MaxCommentLength))
	}

	return &Review{
		id:         uuid.New(),
		tripID:     tripID,
		authorName: authorName,
		rating:     rating,
		comment:    comment,
		createdAt:  time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Review from persistence.
func Reconstruct(id, tripID uuid.UUID, authorName string, rating int, comment string, createdAt time.Time) *Review {
	return &Review{
		id:         id,
		tripID:     tripID,
		authorName: authorName,
		rating:     rating,
		comment:    comment,
		createdAt:  createdAt,
	}
}

// Getters.
func (r *Review) ID() uuid.UUID        { return r.id }
func (r *Review) TripID() uuid.UUID    { return r.tripID }
func (r *Review) AuthorName() string   { return r.authorName }
func (r *Review) Rating() int          { return r.rating }
func (r *Review) Comment() string      { return r.comment }
func (r *Review) CreatedAt() time.Time { return r.createdAt }

// Summary aggregates the ratings of one trip.
type Summary struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}

// NewSummary builds a Summary from a count and rating sum, rounding the average to one decimal.
func NewSummary(count, ratingSum int64) Summary {
	if count <= 0 {
		return Summary{}
	}
	avg := float64(ratingSum) / float64(count)
	return Summary{Count: count, Average: math.Round(avg*10) / 10}
}
