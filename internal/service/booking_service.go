package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smartlib.id/backend/internal/dto"
	"smartlib.id/backend/internal/model"
	"smartlib.id/backend/internal/repository"
	"smartlib.id/backend/pkg/apperror"
)

// BookingService owns the seat booking write paths. Every save is followed
// by a synchronous dispatch call so the notification and the mutation form
// a single step from the caller's point of view.
type BookingService interface {
	CreateSeat(ctx context.Context, req dto.CreateSeatRequest) (*model.Seat, error)
	ListSeats(ctx context.Context) ([]model.Seat, error)
	CreateBooking(ctx context.Context, userID uuid.UUID, req dto.CreateBookingRequest) (*model.SeatBooking, error)
	ListMyBookings(ctx context.Context, userID uuid.UUID) ([]model.SeatBooking, error)
	CheckIn(ctx context.Context, userID, bookingID uuid.UUID) (*model.SeatBooking, error)
	CheckOut(ctx context.Context, userID, bookingID uuid.UUID) (*model.SeatBooking, error)
	Cancel(ctx context.Context, userID, bookingID uuid.UUID) (*model.SeatBooking, error)
	MarkNoShows(ctx context.Context, before time.Time) (int, error)
}

type bookingService struct {
	repo       repository.SeatBookingRepository
	seatRepo   repository.SeatRepository
	dispatcher *NotificationDispatcher
}

func NewBookingService(repo repository.SeatBookingRepository, seatRepo repository.SeatRepository, dispatcher *NotificationDispatcher) BookingService {
	return &bookingService{
		repo:       repo,
		seatRepo:   seatRepo,
		dispatcher: dispatcher,
	}
}

func (s *bookingService) CreateSeat(ctx context.Context, req dto.CreateSeatRequest) (*model.Seat, error) {
	seat := &model.Seat{
		Code:     req.Code,
		Floor:    req.Floor,
		Zone:     req.Zone,
		IsActive: true,
	}
	if err := s.seatRepo.Create(ctx, seat); err != nil {
		return nil, err
	}
	return seat, nil
}

func (s *bookingService) ListSeats(ctx context.Context) ([]model.Seat, error) {
	return s.seatRepo.FindAll(ctx)
}

func (s *bookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req dto.CreateBookingRequest) (*model.SeatBooking, error) {
	seat, err := s.seatRepo.FindByID(ctx, req.SeatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(404, "seat not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	if !seat.IsActive {
		return nil, apperror.New(400, "seat is not bookable", apperror.ErrBadRequest)
	}

	date, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("invalid booking date: %w", apperror.ErrInvalidInput)
	}

	taken, err := s.repo.ExistsActive(ctx, seat.ID, date, req.TimeSlot)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.New(409, "seat already booked for that slot", apperror.ErrConflict)
	}

	booking := &model.SeatBooking{
		SeatID:      seat.ID,
		UserID:      userID,
		BookingDate: date,
		TimeSlot:    req.TimeSlot,
		Status:      model.BookingStatusBooked,
		Seat:        seat,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.dispatcher.SeatBookingSaved(ctx, booking, true)
	return booking, nil
}

func (s *bookingService) ListMyBookings(ctx context.Context, userID uuid.UUID) ([]model.SeatBooking, error) {
	return s.repo.FindByOwner(ctx, userID)
}

func (s *bookingService) CheckIn(ctx context.Context, userID, bookingID uuid.UUID) (*model.SeatBooking, error) {
	booking, err := s.repo.FindOwnedByID(ctx, userID, bookingID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if booking.Status != model.BookingStatusBooked {
		return nil, apperror.New(409, "booking cannot be checked in", apperror.ErrConflict)
	}

	now := time.Now()
	booking.Status = model.BookingStatusCheckedIn
	booking.CheckInTime = &now

	if err := s.repo.Save(ctx, booking); err != nil {
		return nil, err
	}

	s.dispatcher.SeatBookingSaved(ctx, booking, false)
	return booking, nil
}

func (s *bookingService) CheckOut(ctx context.Context, userID, bookingID uuid.UUID) (*model.SeatBooking, error) {
	booking, err := s.repo.FindOwnedByID(ctx, userID, bookingID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if booking.Status != model.BookingStatusCheckedIn {
		return nil, apperror.New(409, "booking is not checked in", apperror.ErrConflict)
	}

	now := time.Now()
	booking.Status = model.BookingStatusCompleted
	booking.CheckOutTime = &now

	if err := s.repo.Save(ctx, booking); err != nil {
		return nil, err
	}

	s.dispatcher.SeatBookingSaved(ctx, booking, false)
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, userID, bookingID uuid.UUID) (*model.SeatBooking, error) {
	booking, err := s.repo.FindOwnedByID(ctx, userID, bookingID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if booking.Status != model.BookingStatusBooked {
		return nil, apperror.New(409, "only pending bookings can be cancelled", apperror.ErrConflict)
	}

	booking.Status = model.BookingStatusCancelled

	if err := s.repo.Save(ctx, booking); err != nil {
		return nil, err
	}

	s.dispatcher.SeatBookingSaved(ctx, booking, false)
	return booking, nil
}

// MarkNoShows flags bookings whose date passed without a check-in. Run by
// the scheduler; idempotent because flagged rows leave the BOOKED state.
func (s *bookingService) MarkNoShows(ctx context.Context, before time.Time) (int, error) {
	expired, err := s.repo.FindExpiredBooked(ctx, before)
	if err != nil {
		return 0, err
	}

	flagged := 0
	for i := range expired {
		booking := &expired[i]
		booking.Status = model.BookingStatusNoShow
		if err := s.repo.Save(ctx, booking); err != nil {
			// One bad row must not stall the sweep.
			continue
		}
		flagged++
		s.dispatcher.SeatBookingSaved(ctx, booking, false)
	}
	return flagged, nil
}
