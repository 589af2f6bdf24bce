package domain

import (
	"context"
	"errors"
)

// Service allocates gapless, monotonically increasing values from named
// counters. Allocation is atomic at the store level: two concurrent
// callers can never observe the same prior value.
type Service interface {
	// IncrementAndGetNext returns the next value for name. The first
	// call for an unseen name seeds the counter with initialValue and
	// returns the seed itself, so the first document of a series is
	// numbered with the seed rather than seed+1.
	IncrementAndGetNext(ctx context.Context, name, initialValue string) (string, error)
}

var (
	ErrInvalidCounterName   = errors.New("invalid_counter_name")
	ErrInvalidSeedValue     = errors.New("invalid_seed_value")
	ErrCorruptCounterValue  = errors.New("corrupt_counter_value")
	ErrConcurrencyViolation = errors.New("sequence_concurrency_violation")
)
