package domain

import "time"

// Counter stores the last issued value for a named monotonic sequence.
// The value keeps its zero padding so callers get formatted numbers back.
type Counter struct {
	Name      string    `gorm:"primaryKey;size:64" json:"name"`
	Value     string    `gorm:"size:64;not null" json:"value"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Counter) TableName() string { return "sequence_counters" }
