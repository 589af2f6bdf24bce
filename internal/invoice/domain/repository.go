package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clinicore/clinicore/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	CustomerID snowflake.ID
	Status     string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	UpdateNumber(ctx context.Context, db *gorm.DB, id snowflake.ID, number string, updatedAt time.Time) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	// ListNumbersByYear returns every issued number with the given
	// 4-digit year prefix, the input population for validation and gap
	// analysis.
	ListNumbersByYear(ctx context.Context, db *gorm.DB, year int) ([]string, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Invoice, error)
}
