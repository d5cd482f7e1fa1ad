package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"ms-concerthall/internal/models"
)

// Migrate creates the events table when it does not exist yet.
func Migrate(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().
		Model((*models.Event)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create events table: %w", err)
	}
	return nil
}
