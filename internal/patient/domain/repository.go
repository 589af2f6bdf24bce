package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/clinicore/clinicore/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, patient *Patient) error
	Update(ctx context.Context, db *gorm.DB, patient *Patient) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Patient, error)
	List(ctx context.Context, db *gorm.DB, name string, page pagination.Pagination) ([]*Patient, error)
}
