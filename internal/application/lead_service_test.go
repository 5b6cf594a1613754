package application

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siamroads/service-trip/internal/application/apptest"
	"github.com/siamroads/service-trip/internal/contracts"
	"github.com/siamroads/service-trip/internal/platform/domain"
)

func TestLeadService_Submit(t *testing.T) {
	f := seeded(t)

	dto, err := f.leadSvc.Submit(context.Background(), SubmitLeadRequest{
		Name:     "Somchai",
		Email:    "Somchai@Example.com",
		TripSlug: "mae-hong-son-loop",
	})
	require.NoError(t, err)
	assert.Equal(t, "new", dto.Status)
	assert.Equal(t, "somchai@example.com", dto.Email)

	require.Equal(t, []string{contracts.LeadSubmitted}, f.publisher.Types())
	assert.Equal(t, contracts.TopicLeadEvents, f.publisher.Topics()[0])

	var evt contracts.LeadSubmittedEvent
	require.NoError(t, json.Unmarshal(f.publisher.Events()[0].Data, &evt))
	assert.Equal(t, dto.Reference, evt.Reference)
	assert.Equal(t, "mae-hong-son-loop", evt.TripSlug)
}

func TestLeadService_Submit_Rejects(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	_, err := f.leadSvc.Submit(ctx, SubmitLeadRequest{Name: "Somchai"})
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = f.leadSvc.Submit(ctx, SubmitLeadRequest{Name: "Somchai", Phone: "0812345678", TripSlug: "atlantis"})
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	assert.Empty(t, f.publisher.Types())
}

func TestLeadService_Submit_RejectsUnpublishedTrip(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	draft, err := f.tripSvc.Create(ctx, newTripRequest())
	require.NoError(t, err)
	_, err = f.leadSvc.Submit(ctx, SubmitLeadRequest{Name: "Nok", Phone: "0812345678", TripSlug: draft.Slug})
	assert.True(t, domain.IsKind(err, domain.KindValidation), "draft trips are not offered")

	published, err := f.tripSvc.GetBySlug(ctx, "mae-hong-son-loop")
	require.NoError(t, err)
	_, err = f.tripSvc.Archive(ctx, published.ID)
	require.NoError(t, err)
	_, err = f.leadSvc.Submit(ctx, SubmitLeadRequest{Name: "Nok", Phone: "0812345678", TripSlug: "mae-hong-son-loop"})
	assert.True(t, domain.IsKind(err, domain.KindValidation), "archived trips are not offered")

	assert.Empty(t, f.publisher.Types())
}

func TestLeadService_PublishFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t)
	f.publisher.Err = apptest.ErrBrokerDown

	dto, err := f.leadSvc.Submit(context.Background(), SubmitLeadRequest{Name: "Nok", Phone: "0812345678"})
	require.NoError(t, err)
	assert.NotEmpty(t, dto.Reference)
}

func TestLeadService_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto, err := f.leadSvc.Submit(ctx, SubmitLeadRequest{Name: "Nok", Phone: "0812345678"})
	require.NoError(t, err)

	_, err = f.leadSvc.UpdateStatus(ctx, dto.ID, UpdateLeadStatusRequest{Status: "converted"})
	assert.True(t, domain.IsKind(err, domain.KindConflict))

	_, err = f.leadSvc.UpdateStatus(ctx, dto.ID, UpdateLeadStatusRequest{Status: "spam"})
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	updated, err := f.leadSvc.UpdateStatus(ctx, dto.ID, UpdateLeadStatusRequest{Status: "contacted", Note: "called"})
	require.NoError(t, err)
	assert.Equal(t, "contacted", updated.Status)
	assert.Equal(t, "called", updated.Note)
	assert.NotNil(t, updated.ContactedAt)
	assert.Equal(t, dto.Version+1, updated.Version)

	assert.Equal(t, []string{contracts.LeadSubmitted, contracts.LeadStatusChanged}, f.publisher.Types())

	stats, err := f.leadSvc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalLeads)
	assert.Equal(t, int64(1), stats.ByStatus["contacted"])
}

func TestLeadService_UpdateStatus_ConflictFromRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto, err := f.leadSvc.Submit(ctx, SubmitLeadRequest{Name: "Nok", Phone: "0812345678"})
	require.NoError(t, err)

	f.leads.UpdateErr = domain.NewConflictError("lead was modified by another transaction")
	_, err = f.leadSvc.UpdateStatus(ctx, dto.ID, UpdateLeadStatusRequest{Status: "closed"})
	assert.True(t, domain.IsKind(err, domain.KindConflict))
	assert.Equal(t, []string{contracts.LeadSubmitted}, f.publisher.Types())
}

func TestLeadService_MarkContacted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto, err := f.leadSvc.Submit(ctx, SubmitLeadRequest{Name: "Nok", Email: "nok@example.com"})
	require.NoError(t, err)

	require.NoError(t, f.leadSvc.MarkContacted(ctx, dto.Reference, "agent 7"))
	got, err := f.leadSvc.Get(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, "contacted", got.Status)

	// A redelivered CRM event is a no-op.
	require.NoError(t, f.leadSvc.MarkContacted(ctx, dto.Reference, "agent 7"))
	assert.Len(t, f.publisher.Types(), 2)

	err = f.leadSvc.MarkContacted(ctx, "LD-NOPE00", "")
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestLeadService_ListAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		_, err := f.leadSvc.Submit(ctx, SubmitLeadRequest{Name: name, Phone: "0800000000"})
		require.NoError(t, err)
	}

	leads, total, err := f.leadSvc.ListAll(ctx, "new", 1, 2)
	require.NoError(t, err)
	assert.Len(t, leads, 2)
	assert.Equal(t, int64(3), total)

	_, _, err = f.leadSvc.ListAll(ctx, "bogus", 1, 10)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}
