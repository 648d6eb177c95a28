package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// WithTransaction runs fn inside a single database transaction. An error
// from fn rolls everything back; otherwise the transaction commits.
func WithTransaction(ctx context.Context, db Database, fn func(tx *gorm.DB) error) error {
	if err := db.Session(ctx).Transaction(fn); err != nil {
		return fmt.Errorf("transaction: %w", err)
	}
	return nil
}

// WithTransactionResult is WithTransaction for callers that produce a value,
// typically the id of a freshly inserted row.
func WithTransactionResult[T any](ctx context.Context, db Database, fn func(tx *gorm.DB) (T, error)) (T, error) {
	var result T
	err := db.Session(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = fn(tx)
		return txErr
	})
	if err != nil {
		var zero T
		return zero, fmt.Errorf("transaction: %w", err)
	}
	return result, nil
}
