package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	eventdomain "github.com/clinicore/clinicore/internal/event/domain"
	"gorm.io/datatypes"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	eventdomain.Recorder `gorm:"-" json:"-"`

	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	PatientID   snowflake.ID      `gorm:"not null;index" json:"patient_id"`
	ScheduledAt time.Time         `gorm:"not null" json:"scheduled_at"`
	Status      AppointmentStatus `gorm:"type:text;not null" json:"status"`
	Notes       string            `gorm:"type:text" json:"notes,omitempty"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Appointment) TableName() string { return "appointments" }

// Snapshot returns the audited field values of the appointment.
func (a *Appointment) Snapshot() map[string]any {
	return map[string]any{
		"patient_id":   a.PatientID.String(),
		"scheduled_at": a.ScheduledAt.Format(time.RFC3339),
		"status":       string(a.Status),
		"notes":        a.Notes,
	}
}
