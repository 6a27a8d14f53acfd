package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"smartlib.id/backend/internal/dto"
	"smartlib.id/backend/internal/metrics"
	"smartlib.id/backend/internal/model"
	"smartlib.id/backend/internal/repository"
	"smartlib.id/backend/pkg/apperror"
)

// CreateNotificationInput is the factory input. Type defaults to INFO and
// Metadata to an empty object when omitted.
type CreateNotificationInput struct {
	UserID    uuid.UUID
	Title     string
	Message   string
	Type      model.NotificationType
	ActionURL *string
	Metadata  any
}

// NotificationService is the only way notifications are created, and the
// owner-scoped query/mutation surface over the store.
type NotificationService interface {
	Create(ctx context.Context, input CreateNotificationInput) (*model.Notification, error)
	List(ctx context.Context, userID uuid.UUID, filter dto.NotificationFilter) ([]model.Notification, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*model.Notification, error)
	Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateNotificationRequest) (*model.Notification, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) (*model.Notification, error)
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo        repository.NotificationRepository
	redisClient *redis.Client
	logger      *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, redisClient *redis.Client, logger *zap.Logger) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
		logger:      logger,
	}
}

// UserChannel is the Redis pub/sub channel carrying a user's notifications.
func UserChannel(userID uuid.UUID) string {
	return fmt.Sprintf("user_notifications:%s", userID.String())
}

func (s *notificationService) Create(ctx context.Context, input CreateNotificationInput) (*model.Notification, error) {
	if input.UserID == uuid.Nil {
		return nil, fmt.Errorf("notification owner is required: %w", apperror.ErrInvalidInput)
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Message) == "" {
		return nil, fmt.Errorf("notification title and message are required: %w", apperror.ErrInvalidInput)
	}

	if !model.ValidNotificationType(input.Type) {
		input.Type = model.NotificationInfo
	}

	metadata := datatypes.JSON([]byte("{}"))
	if input.Metadata != nil {
		raw, err := json.Marshal(input.Metadata)
		if err != nil {
			return nil, fmt.Errorf("marshal notification metadata: %w", err)
		}
		metadata = datatypes.JSON(raw)
	}

	notification := &model.Notification{
		UserID:    input.UserID,
		Title:     input.Title,
		Message:   input.Message,
		Type:      input.Type,
		ActionURL: input.ActionURL,
		Metadata:  metadata,
	}

	// 1. Save to DB. A missing owner surfaces here as a foreign key error.
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, err
	}
	metrics.NotificationsCreated.WithLabelValues(string(notification.Type)).Inc()

	// 2. Publish to Redis if Redis is available. Delivery to the live
	// stream is best effort; the row is already durable.
	if s.redisClient != nil {
		payload, err := json.Marshal(notification)
		if err == nil {
			if err := s.redisClient.Publish(ctx, UserChannel(notification.UserID), payload).Err(); err != nil {
				s.logger.Warn("failed to publish notification",
					zap.String("notification_id", notification.ID.String()),
					zap.Error(err))
			}
		}
	}

	return notification, nil
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, filter dto.NotificationFilter) ([]model.Notification, error) {
	return s.repo.FindByOwner(ctx, userID, filter)
}

func (s *notificationService) GetByID(ctx context.Context, userID, id uuid.UUID) (*model.Notification, error) {
	notification, err := s.repo.FindOwnedByID(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return notification, nil
}

func (s *notificationService) Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateNotificationRequest) (*model.Notification, error) {
	notification, err := s.repo.FindOwnedByID(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if req.IsRead != nil {
		notification.IsRead = *req.IsRead
	}

	if err := s.repo.Save(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

func (s *notificationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return mapNotFound(err)
	}
	return nil
}

// MarkAsRead is idempotent: marking an already-read notification succeeds
// and returns it unchanged.
func (s *notificationService) MarkAsRead(ctx context.Context, userID, id uuid.UUID) (*model.Notification, error) {
	notification, err := s.repo.FindOwnedByID(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if notification.IsRead {
		return notification, nil
	}

	notification.IsRead = true
	if err := s.repo.Save(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// mapNotFound hides whether a record is missing or owned by someone else.
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	return err
}
