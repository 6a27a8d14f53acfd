package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smartlib.id/backend/internal/dto"
	"smartlib.id/backend/internal/model"
	"smartlib.id/backend/internal/repository"
	"smartlib.id/backend/pkg/apperror"
)

type ReservationService interface {
	Reserve(ctx context.Context, userID uuid.UUID, req dto.CreateReservationRequest) (*model.BookReservation, error)
	ListMyReservations(ctx context.Context, userID uuid.UUID) ([]model.BookReservation, error)
	MarkReady(ctx context.Context, reservationID uuid.UUID) (*model.BookReservation, error)
	Borrow(ctx context.Context, reservationID uuid.UUID) (*model.BookReservation, error)
	Return(ctx context.Context, reservationID uuid.UUID) (*model.BookReservation, error)
	Cancel(ctx context.Context, userID, reservationID uuid.UUID) (*model.BookReservation, error)
	MarkOverdue(ctx context.Context, asOf time.Time) (int, error)
}

type reservationService struct {
	repo       repository.ReservationRepository
	bookRepo   repository.BookRepository
	dispatcher *NotificationDispatcher
	loanPeriod time.Duration
}

func NewReservationService(repo repository.ReservationRepository, bookRepo repository.BookRepository, dispatcher *NotificationDispatcher, loanPeriod time.Duration) ReservationService {
	if loanPeriod <= 0 {
		loanPeriod = 14 * 24 * time.Hour
	}

	return &reservationService{
		repo:       repo,
		bookRepo:   bookRepo,
		dispatcher: dispatcher,
		loanPeriod: loanPeriod,
	}
}

func (s *reservationService) Reserve(ctx context.Context, userID uuid.UUID, req dto.CreateReservationRequest) (*model.BookReservation, error) {
	book, err := s.bookRepo.FindByID(ctx, req.BookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(404, "book not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	if book.AvailableCopies < 1 {
		return nil, apperror.New(409, "no copies available", apperror.ErrConflict)
	}

	book.AvailableCopies--
	if err := s.bookRepo.Save(ctx, book); err != nil {
		return nil, err
	}

	reservation := &model.BookReservation{
		BookID: book.ID,
		UserID: userID,
		Status: model.ReservationStatusPending,
		Book:   book,
	}

	if err := s.repo.Create(ctx, reservation); err != nil {
		return nil, err
	}

	s.dispatcher.ReservationSaved(ctx, reservation, true)
	return reservation, nil
}

func (s *reservationService) ListMyReservations(ctx context.Context, userID uuid.UUID) ([]model.BookReservation, error) {
	return s.repo.FindByOwner(ctx, userID)
}

// MarkReady is a librarian action: the copy has been pulled from the shelf.
func (s *reservationService) MarkReady(ctx context.Context, reservationID uuid.UUID) (*model.BookReservation, error) {
	reservation, err := s.repo.FindByID(ctx, reservationID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if reservation.Status != model.ReservationStatusPending {
		return nil, apperror.New(409, "reservation is not pending", apperror.ErrConflict)
	}

	now := time.Now()
	reservation.Status = model.ReservationStatusReady
	reservation.ReadyAt = &now

	if err := s.repo.Save(ctx, reservation); err != nil {
		return nil, err
	}

	s.dispatcher.ReservationSaved(ctx, reservation, false)
	return reservation, nil
}

// Borrow records the member picking the book up. The BORROWED transition
// intentionally matches no dispatch branch, so it is silent.
func (s *reservationService) Borrow(ctx context.Context, reservationID uuid.UUID) (*model.BookReservation, error) {
	reservation, err := s.repo.FindByID(ctx, reservationID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if reservation.Status != model.ReservationStatusReady {
		return nil, apperror.New(409, "reservation is not ready for pickup", apperror.ErrConflict)
	}

	due := time.Now().Add(s.loanPeriod)
	reservation.Status = model.ReservationStatusBorrowed
	reservation.DueAt = &due

	if err := s.repo.Save(ctx, reservation); err != nil {
		return nil, err
	}

	s.dispatcher.ReservationSaved(ctx, reservation, false)
	return reservation, nil
}

func (s *reservationService) Return(ctx context.Context, reservationID uuid.UUID) (*model.BookReservation, error) {
	reservation, err := s.repo.FindByID(ctx, reservationID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if reservation.Status != model.ReservationStatusBorrowed && reservation.Status != model.ReservationStatusOverdue {
		return nil, apperror.New(409, "reservation is not out on loan", apperror.ErrConflict)
	}

	now := time.Now()
	reservation.Status = model.ReservationStatusReturned
	reservation.ReturnedAt = &now

	if err := s.repo.Save(ctx, reservation); err != nil {
		return nil, err
	}

	if book, err := s.bookRepo.FindByID(ctx, reservation.BookID); err == nil {
		book.AvailableCopies++
		_ = s.bookRepo.Save(ctx, book)
	}

	s.dispatcher.ReservationSaved(ctx, reservation, false)
	return reservation, nil
}

// Cancel is owner-scoped; the CANCELLED transition matches no dispatch
// branch and produces no notification.
func (s *reservationService) Cancel(ctx context.Context, userID, reservationID uuid.UUID) (*model.BookReservation, error) {
	reservation, err := s.repo.FindOwnedByID(ctx, userID, reservationID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if reservation.Status != model.ReservationStatusPending && reservation.Status != model.ReservationStatusReady {
		return nil, apperror.New(409, "reservation can no longer be cancelled", apperror.ErrConflict)
	}

	reservation.Status = model.ReservationStatusCancelled

	if err := s.repo.Save(ctx, reservation); err != nil {
		return nil, err
	}

	if book, err := s.bookRepo.FindByID(ctx, reservation.BookID); err == nil {
		book.AvailableCopies++
		_ = s.bookRepo.Save(ctx, book)
	}

	s.dispatcher.ReservationSaved(ctx, reservation, false)
	return reservation, nil
}

// MarkOverdue flags loans past their due date. Idempotent: flagged rows
// leave the BORROWED state and are not picked up again.
func (s *reservationService) MarkOverdue(ctx context.Context, asOf time.Time) (int, error) {
	overdue, err := s.repo.FindBorrowedDueBefore(ctx, asOf)
	if err != nil {
		return 0, err
	}

	flagged := 0
	for i := range overdue {
		reservation := &overdue[i]
		reservation.Status = model.ReservationStatusOverdue
		if err := s.repo.Save(ctx, reservation); err != nil {
			continue
		}
		flagged++
		s.dispatcher.ReservationSaved(ctx, reservation, false)
	}
	return flagged, nil
}
