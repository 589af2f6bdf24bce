package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/clinicore/clinicore/internal/sequence/domain"
	"github.com/clinicore/clinicore/internal/sequence/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Counter{}))

	// Single connection keeps sqlite from returning busy errors while
	// goroutines still interleave between the read and the swap.
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return New(Params{
		DB:   conn,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
}

func TestIncrementAndGetNext_SeedsOnFirstCall(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.IncrementAndGetNext(ctx, "invoices_2025", "2025000001")
	require.NoError(t, err)
	assert.Equal(t, "2025000001", first)

	second, err := svc.IncrementAndGetNext(ctx, "invoices_2025", "2025000001")
	require.NoError(t, err)
	assert.Equal(t, "2025000002", second)
}

func TestIncrementAndGetNext_PreservesZeroPadding(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.IncrementAndGetNext(ctx, "receipts", "000009")
	require.NoError(t, err)
	assert.Equal(t, "000009", first)

	second, err := svc.IncrementAndGetNext(ctx, "receipts", "000009")
	require.NoError(t, err)
	assert.Equal(t, "000010", second)
}

func TestIncrementAndGetNext_IndependentNames(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.IncrementAndGetNext(ctx, "invoices_2025", "2025000001")
	require.NoError(t, err)
	_, err = svc.IncrementAndGetNext(ctx, "invoices_2025", "2025000001")
	require.NoError(t, err)

	other, err := svc.IncrementAndGetNext(ctx, "invoices_2026", "2026000001")
	require.NoError(t, err)
	assert.Equal(t, "2026000001", other)
}

func TestIncrementAndGetNext_RejectsBadInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.IncrementAndGetNext(ctx, "", "2025000001")
	assert.ErrorIs(t, err, domain.ErrInvalidCounterName)

	_, err = svc.IncrementAndGetNext(ctx, "invoices_2025", "")
	assert.ErrorIs(t, err, domain.ErrInvalidSeedValue)

	_, err = svc.IncrementAndGetNext(ctx, "invoices_2025", "not-a-number")
	assert.ErrorIs(t, err, domain.ErrInvalidSeedValue)
}

func TestIncrementAndGetNext_ConcurrentCallersGetConsecutiveValues(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	const callers = 16

	var wg sync.WaitGroup
	results := make(chan string, callers)
	errs := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := svc.IncrementAndGetNext(ctx, "invoices_2025", "2025000001")
			if err != nil {
				errs <- err
				return
			}
			results <- value
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("unexpected error: %v", err)
	}

	issued := map[string]bool{}
	for value := range results {
		assert.False(t, issued[value], "duplicate value %s", value)
		issued[value] = true
	}

	// The issued set must be exactly {seed .. seed+N-1}: no skips, no dups.
	require.Len(t, issued, callers)
	for i := 0; i < callers; i++ {
		expected := fmt.Sprintf("%010d", 2025000001+i)
		assert.True(t, issued[expected], "missing value %s", expected)
	}
}
