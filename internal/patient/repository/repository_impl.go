package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clinicore/clinicore/internal/patient/domain"
	"github.com/clinicore/clinicore/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, patient *domain.Patient) error {
	return db.WithContext(ctx).Create(patient).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, patient *domain.Patient) error {
	patient.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).
		Model(&domain.Patient{}).
		Where("id = ?", patient.ID).
		Updates(map[string]any{
			"first_name":    patient.FirstName,
			"last_name":     patient.LastName,
			"date_of_birth": patient.DateOfBirth,
			"email":         patient.Email,
			"phone":         patient.Phone,
			"updated_at":    patient.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Patient{}, "id = ?", id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Patient, error) {
	var patient domain.Patient
	err := db.WithContext(ctx).First(&patient, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, name string, page pagination.Pagination) ([]*domain.Patient, error) {
	var patients []*domain.Patient
	stmt := db.WithContext(ctx).Model(&domain.Patient{})

	if name = strings.TrimSpace(name); name != "" {
		pattern := "%" + name + "%"
		stmt = stmt.Where("first_name LIKE ? OR last_name LIKE ?", pattern, pattern)
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

	err := stmt.Order("id asc").Limit(limit + 1).Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}
