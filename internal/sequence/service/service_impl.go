package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/clinicore/clinicore/internal/sequence/domain"
	"github.com/clinicore/clinicore/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// casMaxAttempts bounds the optimistic retry loop. Every failed swap
// means another caller advanced the counter, so exhausting the budget
// under sane contention indicates a store that cannot guarantee
// row-level atomicity. We fail loudly rather than fall back to a
// read-then-write path.
const casMaxAttempts = 64

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("sequence.service"),
		repo: p.Repo,
	}
}

func (s *Service) IncrementAndGetNext(ctx context.Context, name, initialValue string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrInvalidCounterName
	}

	initialValue = strings.TrimSpace(initialValue)
	if _, err := strconv.ParseInt(initialValue, 10, 64); err != nil {
		return "", domain.ErrInvalidSeedValue
	}

	for attempt := 0; attempt < casMaxAttempts; attempt++ {
		counter, err := s.repo.Find(ctx, s.db, name)
		if err != nil {
			return "", fmt.Errorf("find counter %q: %w", name, err)
		}

		if counter == nil {
			now := time.Now().UTC()
			seed := domain.Counter{
				Name:      name,
				Value:     initialValue,
				CreatedAt: now,
				UpdatedAt: now,
			}
			err := s.repo.InsertSeed(ctx, s.db, &seed)
			if err == nil {
				// The seed is the first issued value, not seed+1.
				return initialValue, nil
			}
			if !db.IsDuplicateKeyErr(err) {
				return "", fmt.Errorf("seed counter %q: %w", name, err)
			}
			// Lost the seed race; retry as an increment.
			continue
		}

		next, err := bump(counter.Value)
		if err != nil {
			return "", fmt.Errorf("counter %q: %w", name, err)
		}

		swapped, err := s.repo.CompareAndSwap(ctx, s.db, name, counter.Value, next)
		if err != nil {
			return "", fmt.Errorf("advance counter %q: %w", name, err)
		}
		if swapped {
			return next, nil
		}
	}

	s.log.Error("counter CAS budget exhausted", zap.String("name", name))
	return "", domain.ErrConcurrencyViolation
}

// bump increments the numeric value while preserving its zero padding.
func bump(value string) (string, error) {
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil || parsed < 0 {
		return "", domain.ErrCorruptCounterValue
	}
	return fmt.Sprintf("%0*d", len(value), parsed+1), nil
}
