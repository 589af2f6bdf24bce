package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/clinicore/clinicore/internal/event/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublish_DeliversToAllSubscribersInOrder(t *testing.T) {
	b := New(zap.NewNop())

	var first, second []string
	b.Subscribe(func(_ context.Context, e domain.Event) error {
		first = append(first, e.Name)
		return nil
	})
	b.Subscribe(func(_ context.Context, e domain.Event) error {
		second = append(second, e.Name)
		return nil
	})

	err := b.Publish(context.Background(),
		domain.New("inv-1", "invoice.created", nil),
		domain.New("inv-1", "invoice.updated", nil),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"invoice.created", "invoice.updated"}, first)
	assert.Equal(t, []string{"invoice.created", "invoice.updated"}, second)
}

func TestPublish_SubscriberErrorAborts(t *testing.T) {
	b := New(zap.NewNop())

	boom := errors.New("append failed")
	var delivered int
	b.Subscribe(func(_ context.Context, _ domain.Event) error {
		return boom
	})
	b.Subscribe(func(_ context.Context, _ domain.Event) error {
		delivered++
		return nil
	})

	err := b.Publish(context.Background(), domain.New("inv-1", "invoice.created", nil))
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, delivered)
}

func TestPublish_NoSubscribers(t *testing.T) {
	b := New(zap.NewNop())
	assert.NoError(t, b.Publish(context.Background(), domain.New("x", "y", nil)))
}
