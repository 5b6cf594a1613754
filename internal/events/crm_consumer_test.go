package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/siamroads/service-trip/internal/contracts"
	"github.com/siamroads/service-trip/internal/platform/domain"
	"github.com/siamroads/service-trip/internal/platform/kafka"
)

type recorderCall struct {
	reference string
	note      string
}

type fakeRecorder struct {
	calls []recorderCall
	err   error
}

func (f *fakeRecorder) MarkContacted(_ context.Context, reference, note string) error {
	f.calls = append(f.calls, recorderCall{reference: reference, note: note})
	return f.err
}

func newTestConsumer(rec *fakeRecorder) *CRMEventConsumer {
	return &CRMEventConsumer{leads: rec, logger: zap.NewNop()}
}

func message(t *testing.T, eventType string, data interface{}) kafkago.Message {
	t.Helper()
	ce, err := kafka.NewCloudEvent("crm", eventType, data)
	require.NoError(t, err)
	value, err := json.Marshal(ce)
	require.NoError(t, err)
	return kafkago.Message{Topic: contracts.TopicCRMEvents, Value: value}
}

func TestHandleMessage_LeadContacted(t *testing.T) {
	rec := &fakeRecorder{}
	c := newTestConsumer(rec)

	err := c.handleMessage(context.Background(), message(t, contracts.CRMLeadContacted,
		contracts.LeadContactedEvent{Reference: " LD-ABC234 ", Agent: "Mali"}))
	require.NoError(t, err)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, "LD-ABC234", rec.calls[0].reference)
	assert.Equal(t, "contacted by Mali", rec.calls[0].note)
}

func TestHandleMessage_SkipsWithoutRetry(t *testing.T) {
	rec := &fakeRecorder{}
	c := newTestConsumer(rec)
	ctx := context.Background()

	assert.NoError(t, c.handleMessage(ctx, kafkago.Message{Value: []byte("not json")}))
	assert.NoError(t, c.handleMessage(ctx, message(t, "crm.deal_won", map[string]string{"reference": "LD-ABC234"})))
	assert.NoError(t, c.handleMessage(ctx, message(t, contracts.CRMLeadContacted, contracts.LeadContactedEvent{})))
	assert.Empty(t, rec.calls)

	rec.err = domain.NewNotFoundError("lead", "LD-ABC234")
	assert.NoError(t, c.handleMessage(ctx, message(t, contracts.CRMLeadContacted, contracts.LeadContactedEvent{Reference: "LD-ABC234"})))
}

func TestHandleMessage_RetriesOnStorageError(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("connection reset")}
	c := newTestConsumer(rec)

	err := c.handleMessage(context.Background(), message(t, contracts.CRMLeadContacted, contracts.LeadContactedEvent{Reference: "LD-ABC234"}))
	assert.Error(t, err)
}
