package bus

import (
	"context"
	"sync"

	"github.com/clinicore/clinicore/internal/event/domain"
	"go.uber.org/zap"
)

// Bus is an in-process publisher. Delivery is synchronous and
// sequential, which preserves per-aggregate event order without any
// coordination; the data contracts allow swapping in a deferred worker
// later as long as it keeps single-consumer in-order delivery per
// aggregate id.
type Bus struct {
	log *zap.Logger

	mu       sync.RWMutex
	handlers []domain.Handler
}

func New(log *zap.Logger) domain.Bus {
	return &Bus{log: log.Named("event.bus")}
}

func (b *Bus) Subscribe(handler domain.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

func (b *Bus) Publish(ctx context.Context, events ...domain.Event) error {
	b.mu.RLock()
	handlers := make([]domain.Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, event := range events {
		for _, handler := range handlers {
			if err := handler(ctx, event); err != nil {
				b.log.Error("event delivery failed",
					zap.String("aggregate_id", event.AggregateID),
					zap.String("event", event.Name),
					zap.Error(err),
				)
				return err
			}
		}
	}
	return nil
}
