package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/clinicore/clinicore/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	PatientID snowflake.ID
	Status    string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, appointment *Appointment) error
	Update(ctx context.Context, db *gorm.DB, appointment *Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Appointment, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Appointment, error)
}
