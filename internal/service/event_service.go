package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"smartlib.id/backend/internal/dto"
	"smartlib.id/backend/internal/model"
	"smartlib.id/backend/internal/repository"
	"smartlib.id/backend/pkg/apperror"
	"smartlib.id/backend/pkg/storage"
)

type EventService interface {
	CreateEvent(ctx context.Context, req dto.CreateEventRequest) (*model.Event, error)
	ListEvents(ctx context.Context) ([]model.Event, error)
	Register(ctx context.Context, userID, eventID uuid.UUID) (*model.EventRegistration, error)
	ListMyRegistrations(ctx context.Context, userID uuid.UUID) ([]model.EventRegistration, error)
	MarkAttended(ctx context.Context, registrationID uuid.UUID) (*model.EventRegistration, error)
	CancelRegistration(ctx context.Context, userID, registrationID uuid.UUID) (*model.EventRegistration, error)
	IssueCertificate(ctx context.Context, registrationID uuid.UUID, file io.Reader, fileName string) (*model.EventRegistration, error)
	SendReminders(ctx context.Context, window time.Duration) (int, error)
}

type eventService struct {
	repo          repository.EventRepository
	storage       storage.FileStorage
	dispatcher    *NotificationDispatcher
	notifications NotificationService
	uploadFolder  string
}

func NewEventService(repo repository.EventRepository, fileStorage storage.FileStorage, dispatcher *NotificationDispatcher, notifications NotificationService, uploadFolder string) EventService {
	if uploadFolder == "" {
		uploadFolder = "certificates"
	}

	return &eventService{
		repo:          repo,
		storage:       fileStorage,
		dispatcher:    dispatcher,
		notifications: notifications,
		uploadFolder:  uploadFolder,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, req dto.CreateEventRequest) (*model.Event, error) {
	event := &model.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Capacity:    req.Capacity,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.repo.FindAll(ctx)
}

func (s *eventService) Register(ctx context.Context, userID, eventID uuid.UUID) (*model.EventRegistration, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if !event.StartsAt.After(time.Now()) {
		return nil, apperror.New(409, "event has already started", apperror.ErrConflict)
	}

	if event.Capacity > 0 {
		count, err := s.repo.CountRegistrations(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		if count >= int64(event.Capacity) {
			return nil, apperror.New(409, "event is full", apperror.ErrConflict)
		}
	}

	registration := &model.EventRegistration{
		EventID: event.ID,
		UserID:  userID,
		Status:  model.RegistrationStatusRegistered,
		Event:   event,
	}

	if err := s.repo.CreateRegistration(ctx, registration); err != nil {
		// The unique index on (event_id, user_id) rejects duplicates.
		return nil, apperror.New(409, "already registered for this event", apperror.ErrConflict)
	}

	s.dispatcher.RegistrationSaved(ctx, registration, true)
	return registration, nil
}

func (s *eventService) ListMyRegistrations(ctx context.Context, userID uuid.UUID) ([]model.EventRegistration, error) {
	return s.repo.FindRegistrationsByOwner(ctx, userID)
}

// MarkAttended is a librarian action at the event check-in desk.
func (s *eventService) MarkAttended(ctx context.Context, registrationID uuid.UUID) (*model.EventRegistration, error) {
	registration, err := s.repo.FindRegistrationByID(ctx, registrationID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if registration.Status != model.RegistrationStatusRegistered {
		return nil, apperror.New(409, "registration cannot be marked attended", apperror.ErrConflict)
	}

	registration.Status = model.RegistrationStatusAttended

	if err := s.repo.SaveRegistration(ctx, registration); err != nil {
		return nil, err
	}

	s.dispatcher.RegistrationSaved(ctx, registration, false)
	return registration, nil
}

func (s *eventService) CancelRegistration(ctx context.Context, userID, registrationID uuid.UUID) (*model.EventRegistration, error) {
	registration, err := s.repo.FindOwnedRegistrationByID(ctx, userID, registrationID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if registration.Status != model.RegistrationStatusRegistered {
		return nil, apperror.New(409, "registration can no longer be cancelled", apperror.ErrConflict)
	}

	registration.Status = model.RegistrationStatusCancelled

	if err := s.repo.SaveRegistration(ctx, registration); err != nil {
		return nil, err
	}

	s.dispatcher.RegistrationSaved(ctx, registration, false)
	return registration, nil
}

// IssueCertificate uploads the attendance certificate and stamps the
// registration. Only attended registrations qualify.
func (s *eventService) IssueCertificate(ctx context.Context, registrationID uuid.UUID, file io.Reader, fileName string) (*model.EventRegistration, error) {
	registration, err := s.repo.FindRegistrationByID(ctx, registrationID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if registration.Status != model.RegistrationStatusAttended {
		return nil, apperror.New(409, "certificate requires recorded attendance", apperror.ErrConflict)
	}
	if registration.CertificateIssued {
		return nil, apperror.New(409, "certificate already issued", apperror.ErrConflict)
	}

	url, err := s.storage.UploadFile(ctx, file, s.uploadFolder, fileName)
	if err != nil {
		return nil, fmt.Errorf("upload certificate: %w", err)
	}

	registration.CertificateIssued = true
	registration.CertificateURL = &url

	if err := s.repo.SaveRegistration(ctx, registration); err != nil {
		// Keep storage consistent with the row we failed to save.
		_ = s.storage.DeleteFile(ctx, url)
		return nil, err
	}

	s.dispatcher.RegistrationSaved(ctx, registration, false)
	return registration, nil
}

// SendReminders notifies registrants whose event starts within the window
// and stamps each registration so overlapping runs skip it.
func (s *eventService) SendReminders(ctx context.Context, window time.Duration) (int, error) {
	registrations, err := s.repo.FindUnremindedRegistrations(ctx, time.Now().Add(window))
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range registrations {
		registration := &registrations[i]
		if registration.Event == nil {
			continue
		}

		actionURL := fmt.Sprintf("/registrations/%s", registration.ID)
		_, err := s.notifications.Create(ctx, CreateNotificationInput{
			UserID:    registration.UserID,
			Title:     "Upcoming Event Reminder",
			Message:   fmt.Sprintf("%q starts at %s.", registration.Event.Title, registration.Event.StartsAt.Format("2006-01-02 15:04")),
			Type:      model.NotificationInfo,
			ActionURL: &actionURL,
			Metadata: RegistrationRef{
				RegistrationID: registration.ID,
				EventID:        registration.EventID,
				Status:         string(registration.Status),
			},
		})
		if err != nil {
			continue
		}

		now := time.Now()
		registration.ReminderSentAt = &now
		if err := s.repo.SaveRegistration(ctx, registration); err != nil {
			continue
		}
		sent++
	}
	return sent, nil
}
