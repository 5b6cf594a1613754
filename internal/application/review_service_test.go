package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siamroads/service-trip/internal/platform/domain"
)

func TestReviewService_AddAndSummarize(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()
	slug := "chiang-rai-highlands"

	for _, rating := range []int{5, 4, 4} {
		_, err := f.reviewSvc.AddReview(ctx, slug, AddReviewRequest{AuthorName: "Ploy", Rating: rating, Comment: "สวยมาก"})
		require.NoError(t, err)
	}

	summary, err := f.reviewSvc.Summary(ctx, slug)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Count)
	assert.Equal(t, 4.3, summary.Average)

	page, err := f.reviewSvc.ListReviews(ctx, slug, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)

	detail, err := f.tripSvc.GetBySlug(ctx, slug)
	require.NoError(t, err)
	assert.Equal(t, int64(3), detail.Rating.Count)
}

func TestReviewService_Rejects(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	_, err := f.reviewSvc.AddReview(ctx, "chiang-rai-highlands", AddReviewRequest{AuthorName: "Ploy", Rating: 6})
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = f.reviewSvc.AddReview(ctx, "no-such-trip", AddReviewRequest{AuthorName: "Ploy", Rating: 5})
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	created, err := f.tripSvc.Create(ctx, newTripRequest())
	require.NoError(t, err)
	_, err = f.reviewSvc.AddReview(ctx, created.Slug, AddReviewRequest{AuthorName: "Ploy", Rating: 5})
	assert.True(t, domain.IsKind(err, domain.KindNotFound), "draft trips take no reviews")
}
