package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// StoredEvent is the durable, append-only row behind every published
// event. Rows are never updated or deleted.
type StoredEvent struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	AggregateID string            `gorm:"type:text;not null;index" json:"aggregate_id"`
	Name        string            `gorm:"type:text;not null" json:"name"`
	Payload     datatypes.JSONMap `gorm:"type:jsonb;not null" json:"payload"`
	OccurredOn  time.Time         `gorm:"not null" json:"occurred_on"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (StoredEvent) TableName() string { return "domain_events" }

// Store is the append-only event log. Append failures are fatal to the
// publishing operation: a lost event would break the durability
// contract for irreversible business facts.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByAggregate(ctx context.Context, aggregateID string) ([]StoredEvent, error)
}
