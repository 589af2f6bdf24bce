package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clinicore/clinicore/internal/customer/domain"
	"github.com/clinicore/clinicore/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Create(customer).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	customer.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("id = ?", customer.ID).
		Updates(map[string]any{
			"name":       customer.Name,
			"email":      customer.Email,
			"phone":      customer.Phone,
			"address":    customer.Address,
			"updated_at": customer.UpdatedAt,
		}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	stmt := db.WithContext(ctx).Model(&domain.Customer{})

	if name := strings.TrimSpace(filter.Name); name != "" {
		stmt = stmt.Where("name LIKE ?", "%"+name+"%")
	}
	if email := strings.TrimSpace(filter.Email); email != "" {
		stmt = stmt.Where("email = ?", email)
	}

	if token := strings.TrimSpace(page.PageToken); token != "" {
		cursor, err := pagination.DecodeCursor(token)
		if err != nil {
			return nil, err
		}
		id, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where("id > ?", id)
	}

	limit := page.PageSize
	if limit <= 0 {
		limit = 50
	}

	err := stmt.Order("id asc").Limit(limit + 1).Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}
