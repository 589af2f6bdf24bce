package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	eventdomain "github.com/clinicore/clinicore/internal/event/domain"
	"github.com/clinicore/clinicore/pkg/db/pagination"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditTrail is the immutable, human-reviewable record of what changed,
// by whom. Retained indefinitely; there is no update or delete path.
type AuditTrail struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	EntityType string            `gorm:"type:text;not null;index" json:"entity_type"`
	EntityID   string            `gorm:"type:text;not null;index" json:"entity_id"`
	Operation  string            `gorm:"type:text;not null" json:"operation"`
	Changes    datatypes.JSONMap `gorm:"type:jsonb;not null" json:"changes"`
	ChangedBy  *string           `gorm:"type:text" json:"changed_by,omitempty"`
	IPAddress  *string           `gorm:"type:text" json:"ip_address,omitempty"`
	UserAgent  *string           `gorm:"type:text" json:"user_agent,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (AuditTrail) TableName() string { return "audit_trails" }

// HasFieldChanged reports whether the entry records a change for field.
// For update entries Changes only holds fields whose value actually
// differs, so a plain key lookup answers the question.
func (a AuditTrail) HasFieldChanged(field string) bool {
	_, ok := a.Changes[field]
	return ok
}

type ListAuditTrailRequest struct {
	pagination.Pagination
	EntityType string
	EntityID   string
	Operation  string
	ChangedBy  string
	StartAt    *time.Time
	EndAt      *time.Time
}

type ListAuditTrailResponse struct {
	pagination.PageInfo
	AuditTrails []AuditTrail `json:"audit_trails"`
}

type ListFilter struct {
	EntityType string
	EntityID   string
	Operation  string
	ChangedBy  string
	StartAt    *time.Time
	EndAt      *time.Time
	Cursor     *Cursor
	Limit      int
}

type Cursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

// Service consumes published domain events and writes audit entries.
// Record never fails the caller: audit is best-effort relative to the
// primary write, unlike the event store.
type Service interface {
	Record(ctx context.Context, event eventdomain.Event) error
	List(ctx context.Context, req ListAuditTrailRequest) (ListAuditTrailResponse, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditTrail) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*AuditTrail, error)
}

var (
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrInvalidTimeRange = errors.New("invalid_time_range")
)
