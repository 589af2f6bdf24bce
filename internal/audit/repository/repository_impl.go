package repository

import (
	"context"
	"strings"

	"github.com/clinicore/clinicore/internal/audit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.AuditTrail) error {
	if entry == nil {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO audit_trails (
			id, entity_type, entity_id, operation, changes,
			changed_by, ip_address, user_agent, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.EntityType,
		entry.EntityID,
		entry.Operation,
		entry.Changes,
		entry.ChangedBy,
		entry.IPAddress,
		entry.UserAgent,
		entry.CreatedAt,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.AuditTrail, error) {
	var trails []*domain.AuditTrail
	stmt := db.WithContext(ctx).Model(&domain.AuditTrail{})

	if entityType := strings.TrimSpace(filter.EntityType); entityType != "" {
		stmt = stmt.Where("entity_type = ?", entityType)
	}
	if entityID := strings.TrimSpace(filter.EntityID); entityID != "" {
		stmt = stmt.Where("entity_id = ?", entityID)
	}
	if operation := strings.TrimSpace(filter.Operation); operation != "" {
		stmt = stmt.Where("operation = ?", operation)
	}
	if changedBy := strings.TrimSpace(filter.ChangedBy); changedBy != "" {
		stmt = stmt.Where("changed_by = ?", changedBy)
	}
	if filter.StartAt != nil {
		stmt = stmt.Where("created_at >= ?", filter.StartAt.UTC())
	}
	if filter.EndAt != nil {
		stmt = stmt.Where("created_at <= ?", filter.EndAt.UTC())
	}
	if filter.Cursor != nil {
		stmt = stmt.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			filter.Cursor.CreatedAt,
			filter.Cursor.CreatedAt,
			filter.Cursor.ID,
		)
	}

	stmt = stmt.Order("created_at desc, id desc")
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit + 1)
	}

	if err := stmt.Find(&trails).Error; err != nil {
		return nil, err
	}
	return trails, nil
}
