package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/clinicore/clinicore/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Name  string
	Email string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	Update(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Customer, error)
}
