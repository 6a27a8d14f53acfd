package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smartlib.id/backend/internal/model"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	FindAll(ctx context.Context) ([]model.Event, error)
	CountRegistrations(ctx context.Context, eventID uuid.UUID) (int64, error)

	CreateRegistration(ctx context.Context, registration *model.EventRegistration) error
	FindRegistrationByID(ctx context.Context, id uuid.UUID) (*model.EventRegistration, error)
	FindOwnedRegistrationByID(ctx context.Context, userID, id uuid.UUID) (*model.EventRegistration, error)
	FindRegistrationsByOwner(ctx context.Context, userID uuid.UUID) ([]model.EventRegistration, error)
	SaveRegistration(ctx context.Context, registration *model.EventRegistration) error
	FindUnremindedRegistrations(ctx context.Context, startsBefore time.Time) ([]model.EventRegistration, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) FindAll(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).Order("starts_at asc").Find(&events).Error
	return events, err
}

func (r *eventRepository) CountRegistrations(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.EventRegistration{}).
		Where("event_id = ? AND status <> ?", eventID, model.RegistrationStatusCancelled).
		Count(&count).Error
	return count, err
}

func (r *eventRepository) CreateRegistration(ctx context.Context, registration *model.EventRegistration) error {
	return r.db.WithContext(ctx).Create(registration).Error
}

func (r *eventRepository) FindRegistrationByID(ctx context.Context, id uuid.UUID) (*model.EventRegistration, error) {
	var registration model.EventRegistration
	if err := r.db.WithContext(ctx).
		Preload("Event").
		Where("id = ?", id).
		First(&registration).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *eventRepository) FindOwnedRegistrationByID(ctx context.Context, userID, id uuid.UUID) (*model.EventRegistration, error) {
	var registration model.EventRegistration
	if err := r.db.WithContext(ctx).
		Preload("Event").
		Where("id = ? AND user_id = ?", id, userID).
		First(&registration).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *eventRepository) FindRegistrationsByOwner(ctx context.Context, userID uuid.UUID) ([]model.EventRegistration, error) {
	var registrations []model.EventRegistration
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&registrations).Error
	return registrations, err
}

func (r *eventRepository) SaveRegistration(ctx context.Context, registration *model.EventRegistration) error {
	return r.db.WithContext(ctx).Save(registration).Error
}

// FindUnremindedRegistrations returns active registrations for events
// starting before the given time that have not been sent a reminder.
// The reminder stamp keeps the job idempotent across overlapping runs.
func (r *eventRepository) FindUnremindedRegistrations(ctx context.Context, startsBefore time.Time) ([]model.EventRegistration, error) {
	var registrations []model.EventRegistration
	err := r.db.WithContext(ctx).
		Preload("Event").
		Joins("JOIN events ON events.id = event_registrations.event_id").
		Where("event_registrations.status = ? AND event_registrations.reminder_sent_at IS NULL", model.RegistrationStatusRegistered).
		Where("events.starts_at > NOW() AND events.starts_at < ?", startsBefore).
		Find(&registrations).Error
	return registrations, err
}
