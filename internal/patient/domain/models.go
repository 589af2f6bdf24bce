package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	eventdomain "github.com/clinicore/clinicore/internal/event/domain"
	"gorm.io/datatypes"
)

// Patient composes the event Recorder capability: mutations record
// domain events that the use-case handler drains and publishes after
// the row is persisted.
type Patient struct {
	eventdomain.Recorder `gorm:"-" json:"-"`

	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	FirstName   string            `gorm:"not null" json:"first_name"`
	LastName    string            `gorm:"not null" json:"last_name"`
	DateOfBirth *time.Time        `json:"date_of_birth,omitempty"`
	Email       string            `json:"email,omitempty"`
	Phone       string            `json:"phone,omitempty"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Patient) TableName() string { return "patients" }

// Snapshot returns the audited field values of the patient.
func (p *Patient) Snapshot() map[string]any {
	snapshot := map[string]any{
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"email":      p.Email,
		"phone":      p.Phone,
	}
	if p.DateOfBirth != nil {
		snapshot["date_of_birth"] = p.DateOfBirth.Format("2006-01-02")
	}
	return snapshot
}
