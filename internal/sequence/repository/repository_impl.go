package repository

import (
	"context"
	"errors"

	"github.com/clinicore/clinicore/internal/sequence/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, name string) (*domain.Counter, error) {
	var counter domain.Counter
	err := db.WithContext(ctx).
		Where("name = ?", name).
		First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &counter, nil
}

func (r *repo) InsertSeed(ctx context.Context, db *gorm.DB, counter *domain.Counter) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO sequence_counters (name, value, created_at, updated_at)
		 VALUES (?, ?, ?, ?)`,
		counter.Name,
		counter.Value,
		counter.CreatedAt,
		counter.UpdatedAt,
	).Error
}

// CompareAndSwap is the single atomic read-modify-write the whole
// numbering scheme rests on. The WHERE clause pins the prior value, so a
// lost race simply affects zero rows and the caller retries from a fresh
// read. No in-process lock is held across the round trip.
func (r *repo) CompareAndSwap(ctx context.Context, db *gorm.DB, name, oldValue, newValue string) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE sequence_counters
		 SET value = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE name = ? AND value = ?`,
		newValue,
		name,
		oldValue,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
