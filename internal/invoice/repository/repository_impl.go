package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clinicore/clinicore/internal/invoice/domain"
	"github.com/clinicore/clinicore/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Create(invoice).Error
}

func (r *repo) UpdateNumber(ctx context.Context, db *gorm.DB, id snowflake.ID, number string, updatedAt time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"number":     number,
			"updated_at": updatedAt,
		}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) ListNumbersByYear(ctx context.Context, db *gorm.DB, year int) ([]string, error) {
	var numbers []string
	err := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("number LIKE ?", fmt.Sprintf("%04d%%", year)).
		Order("number asc").
		Pluck("number", &numbers).Error
	if err != nil {
		return nil, err
	}
	return numbers, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	stmt := db.WithContext(ctx).Model(&domain.Invoice{})

	if filter.CustomerID != 0 {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		stmt = stmt.Where("status = ?", status)
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

	err := stmt.Order("id asc").Limit(limit + 1).Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}
