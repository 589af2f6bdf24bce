package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	eventdomain "github.com/clinicore/clinicore/internal/event/domain"
	"gorm.io/datatypes"
)

// Customer is the billing party an invoice is addressed to. It may be
// the patient or a third party (insurer, guardian).
type Customer struct {
	eventdomain.Recorder `gorm:"-" json:"-"`

	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"not null" json:"name"`
	Email     string            `gorm:"not null" json:"email"`
	Phone     string            `json:"phone,omitempty"`
	Address   string            `json:"address,omitempty"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }

// Snapshot returns the audited field values of the customer.
func (c *Customer) Snapshot() map[string]any {
	return map[string]any{
		"name":    c.Name,
		"email":   c.Email,
		"phone":   c.Phone,
		"address": c.Address,
	}
}
