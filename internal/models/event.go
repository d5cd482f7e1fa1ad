package models

import (
	"github.com/uptrace/bun"
)

// Event is a single concert hall event. EventDuration is in minutes.
type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID             int64  `bun:"id,pk,autoincrement"`
	EventName      string `bun:"event_name,type:varchar(100),notnull,unique"`
	MusiciansCount int    `bun:"musicians_count,notnull"`
	EventDuration  int    `bun:"event_duration,notnull"`
	TicketPrice    int    `bun:"ticket_price,notnull"`
}
