package event

import (
	"context"

	"github.com/clinicore/clinicore/internal/event/bus"
	"github.com/clinicore/clinicore/internal/event/domain"
	"github.com/clinicore/clinicore/internal/event/store"
	"go.uber.org/fx"
)

var Module = fx.Module("event",
	fx.Provide(bus.New),
	fx.Provide(store.New),
	fx.Invoke(subscribeStore),
)

// subscribeStore wires the append-only log as a bus subscriber. Store
// failures propagate: losing an event is fatal to the publishing
// operation.
func subscribeStore(b domain.Bus, s domain.Store) {
	b.Subscribe(func(ctx context.Context, event domain.Event) error {
		return s.Append(ctx, event)
	})
}
