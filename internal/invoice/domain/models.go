package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	eventdomain "github.com/clinicore/clinicore/internal/event/domain"
	"gorm.io/datatypes"
)

type InvoiceStatus string

const (
	StatusDraft  InvoiceStatus = "draft"
	StatusIssued InvoiceStatus = "issued"
	StatusPaid   InvoiceStatus = "paid"
	StatusVoid   InvoiceStatus = "void"
)

// Invoice carries a legally required yearly sequence number. The unique
// index on Number is the atomic backstop behind the validator: a race
// between validation and the final write surfaces as a duplicate-key
// error instead of a silent collision.
type Invoice struct {
	eventdomain.Recorder `gorm:"-" json:"-"`

	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	Number      string            `gorm:"uniqueIndex;not null" json:"number"`
	CustomerID  snowflake.ID      `gorm:"not null;index" json:"customer_id"`
	PatientID   *snowflake.ID     `gorm:"index" json:"patient_id,omitempty"`
	Status      InvoiceStatus     `gorm:"type:text;not null" json:"status"`
	AmountCents int64             `gorm:"not null" json:"amount_cents"`
	Currency    string            `gorm:"not null" json:"currency"`
	IssuedAt    time.Time         `gorm:"not null" json:"issued_at"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// Snapshot returns the audited field values of the invoice.
func (i *Invoice) Snapshot() map[string]any {
	return map[string]any{
		"number":       i.Number,
		"customer_id":  i.CustomerID.String(),
		"status":       string(i.Status),
		"amount_cents": i.AmountCents,
		"currency":     i.Currency,
	}
}
