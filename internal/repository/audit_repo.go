package repository

import (
	"context"

	"gorm.io/gorm"

	"smartlib.id/backend/internal/model"
)

type AuditRepository interface {
	Create(ctx context.Context, entry *model.ActivityLog) error
	FindRecent(ctx context.Context, limit int) ([]model.ActivityLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *model.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepository) FindRecent(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var entries []model.ActivityLog
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
