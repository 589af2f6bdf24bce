package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clinicore/clinicore/internal/appointment/domain"
	"github.com/clinicore/clinicore/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, appointment *domain.Appointment) error {
	return db.WithContext(ctx).Create(appointment).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, appointment *domain.Appointment) error {
	appointment.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Where("id = ?", appointment.ID).
		Updates(map[string]any{
			"scheduled_at": appointment.ScheduledAt,
			"status":       appointment.Status,
			"notes":        appointment.Notes,
			"updated_at":   appointment.UpdatedAt,
		}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Appointment, error) {
	var appointment domain.Appointment
	err := db.WithContext(ctx).First(&appointment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Appointment, error) {
	var appointments []*domain.Appointment
	stmt := db.WithContext(ctx).Model(&domain.Appointment{})

	if filter.PatientID != 0 {
		stmt = stmt.Where("patient_id = ?", filter.PatientID)
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

	err := stmt.Order("id asc").Limit(limit + 1).Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}
