package service

import (
	"context"

	"gorm.io/gorm"
)

// runTx executes fn inside one GORM transaction: commit when fn returns nil,
// rollback on any error (fn's error is returned unchanged).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}
