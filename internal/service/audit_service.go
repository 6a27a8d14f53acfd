package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"smartlib.id/backend/internal/model"
	"smartlib.id/backend/internal/repository"
)

// AuditService writes the append-only activity trail. Record never fails
// the caller: losing an audit row is logged at the repository layer but
// must not undo the action it describes.
type AuditService interface {
	Record(ctx context.Context, actorID uuid.UUID, activityType, description string, metadata any) error
	ListRecent(ctx context.Context, limit int) ([]model.ActivityLog, error)
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) Record(ctx context.Context, actorID uuid.UUID, activityType, description string, metadata any) error {
	raw := datatypes.JSON([]byte("{}"))
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			raw = datatypes.JSON(b)
		}
	}

	return s.repo.Create(ctx, &model.ActivityLog{
		ActorID:      actorID,
		ActivityType: activityType,
		Description:  description,
		Metadata:     raw,
	})
}

func (s *auditService) ListRecent(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	return s.repo.FindRecent(ctx, limit)
}
