package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Find(ctx context.Context, db *gorm.DB, name string) (*Counter, error)
	// InsertSeed creates the counter row. A duplicate-key error means a
	// concurrent caller seeded the same name first.
	InsertSeed(ctx context.Context, db *gorm.DB, counter *Counter) error
	// CompareAndSwap advances the counter from oldValue to newValue in a
	// single conditional UPDATE and reports whether the swap won.
	CompareAndSwap(ctx context.Context, db *gorm.DB, name, oldValue, newValue string) (bool, error)
}
