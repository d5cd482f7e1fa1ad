// Package serializer maps stored events to their wire representation.
package serializer

import "ms-concerthall/internal/models"

// EventResponse is the only shape an event takes on the wire.
type EventResponse struct {
	ID             int64  `json:"id"`
	EventName      string `json:"event_name"`
	MusiciansCount int    `json:"musicians_count"`
	EventDuration  int    `json:"event_duration"`
	TicketPrice    int    `json:"ticket_price"`
}

func Serialize(event models.Event) EventResponse {
	return EventResponse{
		ID:             event.ID,
		EventName:      event.EventName,
		MusiciansCount: event.MusiciansCount,
		EventDuration:  event.EventDuration,
		TicketPrice:    event.TicketPrice,
	}
}

// SerializeMany keeps input order and returns an empty slice for no events.
func SerializeMany(events []models.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, Serialize(event))
	}
	return out
}
