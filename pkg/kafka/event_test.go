package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]string{"item_id": "item-1", "name": "hoodie"}

	event, err := NewEvent("item.created", "item-1", "item", "influshop-backend", payload)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "item.created", event.EventType)
	assert.Equal(t, "item-1", event.AggregateID)
	assert.Equal(t, "item", event.AggregateType)
	assert.Equal(t, 1, event.Version)
	assert.Equal(t, "influshop-backend", event.Source)
	assert.False(t, event.Timestamp.IsZero())
}

func TestNewEvent_UnmarshalableData(t *testing.T) {
	_, err := NewEvent("item.created", "item-1", "item", "influshop-backend", make(chan int))
	assert.Error(t, err)
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	original, err := NewEvent("report.submitted", "report-1", "report", "influshop-backend", map[string]string{
		"target_kind": "comment",
	})
	require.NoError(t, err)
	original.WithCorrelationID("corr-123").WithMetadata("reporter_kind", "user")

	data, err := original.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(data)
	require.NoError(t, err)

	assert.Equal(t, original.EventID, decoded.EventID)
	assert.Equal(t, "corr-123", decoded.CorrelationID)
	assert.Equal(t, "user", decoded.Metadata["reporter_kind"])

	var payload map[string]string
	require.NoError(t, decoded.UnmarshalData(&payload))
	assert.Equal(t, "comment", payload["target_kind"])
}

func TestUnmarshalEvent_InvalidJSON(t *testing.T) {
	_, err := UnmarshalEvent([]byte("{not json"))
	assert.Error(t, err)
}
