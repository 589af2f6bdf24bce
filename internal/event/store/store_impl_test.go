package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clinicore/clinicore/internal/event/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) domain.Store {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.StoredEvent{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{DB: conn, Log: zap.NewNop(), GenID: node})
}

func TestAppend_PreservesOccurredOn(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	occurred := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	event := domain.Event{
		AggregateID: "invoice-42",
		Name:        "invoice.created",
		Payload:     map[string]any{"number": "2025000001"},
		OccurredOn:  occurred,
	}
	require.NoError(t, s.Append(ctx, event))

	stored, err := s.ListByAggregate(ctx, "invoice-42")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "invoice.created", stored[0].Name)
	assert.Equal(t, "2025000001", stored[0].Payload["number"])
	assert.True(t, stored[0].OccurredOn.Equal(occurred))
}

func TestListByAggregate_AppendOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(ctx, domain.New("patient-1", fmt.Sprintf("patient.event.%d", i), nil)))
	}
	require.NoError(t, s.Append(ctx, domain.New("patient-2", "patient.created", nil)))

	stored, err := s.ListByAggregate(ctx, "patient-1")
	require.NoError(t, err)
	require.Len(t, stored, 5)
	for i, row := range stored {
		assert.Equal(t, fmt.Sprintf("patient.event.%d", i), row.Name)
	}
}
