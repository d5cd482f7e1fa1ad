package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"ms-concerthall/internal/models"
)

var (
	ErrNotFound      = errors.New("event not found")
	ErrDuplicateName = errors.New("event name already exists")
)

// mutableColumns are overwritten together on every update.
var mutableColumns = []string{"event_name", "musicians_count", "event_duration", "ticket_price"}

type DB struct {
	Bun *bun.DB
}

func (d *DB) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	event.ID = 0
	if _, err := d.Bun.NewInsert().Model(event).Exec(ctx); err != nil {
		return nil, translate("create event", err)
	}
	return event, nil
}

// GetAll returns every event ordered by primary key. It never returns a nil slice.
func (d *DB) GetAll(ctx context.Context) ([]models.Event, error) {
	events := make([]models.Event, 0)
	err := d.Bun.NewSelect().
		Model(&events).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, translate("list events", err)
	}
	return events, nil
}

func (d *DB) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, translate("get event", err)
	}
	return &event, nil
}

// Update overwrites all mutable columns of the row identified by event.ID and
// returns the stored row.
func (d *DB) Update(ctx context.Context, event *models.Event) (*models.Event, error) {
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(event).
			Column(mutableColumns...).
			Where("id = ?", event.ID).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return tx.NewSelect().Model(event).Where("id = ?", event.ID).Scan(ctx)
	})
	if err != nil {
		return nil, translate("update event", err)
	}
	return event, nil
}

// Delete removes the row and returns the value it held.
func (d *DB) Delete(ctx context.Context, id int64) (*models.Event, error) {
	var event models.Event
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(&event).Where("id = ?", id).Scan(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().
			Model((*models.Event)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, translate("delete event", err)
	}
	return &event, nil
}

func (d *DB) Count(ctx context.Context) (int, error) {
	n, err := d.Bun.NewSelect().Model((*models.Event)(nil)).Count(ctx)
	if err != nil {
		return 0, translate("count events", err)
	}
	return n, nil
}

func translate(op string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case isUniqueViolation(err):
		return ErrDuplicateName
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// Both sqlite drivers behind sqliteshim report the constraint in the message.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
