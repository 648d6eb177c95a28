// Package persistence provides the GORM-backed query history store and the
// owned asset file store.
package persistence

import (
	"context"
	"fmt"

	"github.com/visearch/visearch/internal/database"
)

// AutoMigrate runs GORM auto migration for all history models.
func AutoMigrate(db database.Database) error {
	if err := db.Session(context.Background()).AutoMigrate(
		&QueryModel{},
		&ResultModel{},
	); err != nil {
		return fmt.Errorf("auto migrate history schema: %w", err)
	}
	return nil
}
