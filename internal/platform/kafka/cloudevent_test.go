package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudEventRoundTrip(t *testing.T) {
	type payload struct {
		Reference string `json:"reference"`
	}

	ce, err := NewCloudEvent("service-trip", "lead.submitted", payload{Reference: "LD-ABC234"})
	require.NoError(t, err)
	assert.Equal(t, "1.0", ce.SpecVersion)
	assert.NotEmpty(t, ce.ID)

	raw, err := json.Marshal(ce)
	require.NoError(t, err)

	parsed, err := ParseCloudEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, "lead.submitted", parsed.Type)

	var got payload
	require.NoError(t, parsed.ParseData(&got))
	assert.Equal(t, "LD-ABC234", got.Reference)
}

func TestParseCloudEvent_Rejects(t *testing.T) {
	_, err := ParseCloudEvent([]byte("not json"))
	assert.Error(t, err)

	_, err = ParseCloudEvent([]byte(`{"specversion":"1.0"}`))
	assert.Error(t, err)
}
