package store

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/clinicore/clinicore/internal/event/domain"
	"github.com/clinicore/clinicore/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Metrics *metrics.Metrics `optional:"true"`
}

type Store struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	metrics *metrics.Metrics
}

func New(p Params) domain.Store {
	return &Store{
		db:      p.DB,
		log:     p.Log.Named("event.store"),
		genID:   p.GenID,
		metrics: p.Metrics,
	}
}

// Append inserts one row per published event. Plain INSERT only: the
// log has no update or delete path.
func (s *Store) Append(ctx context.Context, event domain.Event) error {
	payload := datatypes.JSONMap{}
	for key, value := range event.Payload {
		payload[key] = value
	}

	err := s.db.WithContext(ctx).Exec(
		`INSERT INTO domain_events (id, aggregate_id, name, payload, occurred_on, created_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		s.genID.Generate(),
		event.AggregateID,
		event.Name,
		payload,
		event.OccurredOn,
	).Error
	if err != nil {
		return err
	}

	s.metrics.RecordEventAppended(ctx, event.Name)
	return nil
}

// ListByAggregate returns an aggregate's events in append order.
// Snowflake ids are time-ordered, so id ascending is insertion order.
func (s *Store) ListByAggregate(ctx context.Context, aggregateID string) ([]domain.StoredEvent, error) {
	var events []domain.StoredEvent
	err := s.db.WithContext(ctx).
		Where("aggregate_id = ?", aggregateID).
		Order("id asc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
