package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"ms-concerthall/internal/events/serializer"
	"ms-concerthall/internal/kafka"
	"ms-concerthall/internal/logger"
	"ms-concerthall/internal/models"
)

// ErrBadRequest marks input that was rejected before reaching the store.
var ErrBadRequest = errors.New("bad request")

const maxEventNameLength = 100

type EventDBLayer interface {
	Create(ctx context.Context, event *models.Event) (*models.Event, error)
	GetAll(ctx context.Context) ([]models.Event, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) (*models.Event, error)
	Delete(ctx context.Context, id int64) (*models.Event, error)
}

type Publisher interface {
	Publish(ctx context.Context, n kafka.Notification) error
}

// EventInput is the body of create and update requests. Pointers distinguish
// an absent field from a zero value.
type EventInput struct {
	EventName      *string `json:"event_name"`
	MusiciansCount *int    `json:"musicians_count"`
	EventDuration  *int    `json:"event_duration"`
	TicketPrice    *int    `json:"ticket_price"`
}

func (in EventInput) Validate() error {
	switch {
	case in.EventName == nil:
		return missing("event_name")
	case in.MusiciansCount == nil:
		return missing("musicians_count")
	case in.EventDuration == nil:
		return missing("event_duration")
	case in.TicketPrice == nil:
		return missing("ticket_price")
	}

	if *in.EventName == "" {
		return fmt.Errorf("%w: event_name must not be empty", ErrBadRequest)
	}
	// The column is varchar(100); Postgres enforces it, SQLite does not.
	if utf8.RuneCountInString(*in.EventName) > maxEventNameLength {
		return fmt.Errorf("%w: event_name must be at most %d characters", ErrBadRequest, maxEventNameLength)
	}
	return nil
}

func (in EventInput) toModel(id int64) *models.Event {
	return &models.Event{
		ID:             id,
		EventName:      *in.EventName,
		MusiciansCount: *in.MusiciansCount,
		EventDuration:  *in.EventDuration,
		TicketPrice:    *in.TicketPrice,
	}
}

func missing(field string) error {
	return fmt.Errorf("%w: %s is required", ErrBadRequest, field)
}

type EventService struct {
	DB        EventDBLayer
	Publisher Publisher
	Logger    *logger.Logger
	now       func() time.Time
}

func NewEventService(db EventDBLayer, publisher Publisher, log *logger.Logger) *EventService {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	return &EventService{DB: db, Publisher: publisher, Logger: log, now: time.Now}
}

func (s *EventService) CreateEvent(ctx context.Context, in EventInput) (*models.Event, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	event, err := s.DB.Create(ctx, in.toModel(0))
	if err != nil {
		return nil, err
	}

	s.Logger.LogEvent("CREATE", event.ID, event.EventName)
	s.notify(ctx, kafka.EventCreated, *event)
	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.DB.GetAll(ctx)
}

func (s *EventService) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	return s.DB.GetByID(ctx, id)
}

// UpdateEvent replaces every mutable field, event_name included.
func (s *EventService) UpdateEvent(ctx context.Context, id int64, in EventInput) (*models.Event, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	event, err := s.DB.Update(ctx, in.toModel(id))
	if err != nil {
		return nil, err
	}

	s.Logger.LogEvent("UPDATE", event.ID, event.EventName)
	s.notify(ctx, kafka.EventUpdated, *event)
	return event, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.DB.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Logger.LogEvent("DELETE", event.ID, event.EventName)
	s.notify(ctx, kafka.EventDeleted, *event)
	return event, nil
}

// notify runs after the store has committed, so a publish failure is logged
// and does not undo or fail the request.
func (s *EventService) notify(ctx context.Context, kind string, event models.Event) {
	n := kafka.Notification{
		Type:       kind,
		EventID:    event.ID,
		Event:      serializer.Serialize(event),
		OccurredAt: s.now().UTC(),
	}
	if err := s.Publisher.Publish(ctx, n); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish %s for event %d: %v", kind, event.ID, err))
	}
}
