package serializer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-concerthall/internal/models"
)

func TestSerializeFieldSet(t *testing.T) {
	event := models.Event{ID: 1, EventName: "Jazz Night", MusiciansCount: 5, EventDuration: 120, TicketPrice: 30}

	body, err := json.Marshal(Serialize(event))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"event_name":"Jazz Night","musicians_count":5,"event_duration":120,"ticket_price":30}`, string(body))

	var fields map[string]any
	require.NoError(t, json.Unmarshal(body, &fields))
	assert.Len(t, fields, 5)
}

func TestSerializeManyPreservesOrder(t *testing.T) {
	events := []models.Event{
		{ID: 3, EventName: "Rock Evening"},
		{ID: 1, EventName: "Jazz Night"},
		{ID: 2, EventName: "Opera Gala"},
	}

	out := SerializeMany(events)
	require.Len(t, out, 3)
	assert.Equal(t, int64(3), out[0].ID)
	assert.Equal(t, "Jazz Night", out[1].EventName)
	assert.Equal(t, int64(2), out[2].ID)
}

func TestSerializeManyEmpty(t *testing.T) {
	body, err := json.Marshal(SerializeMany(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))
}
