package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"smartlib.id/backend/internal/dto"
	"smartlib.id/backend/internal/model"
	"smartlib.id/backend/pkg/apperror"
)

type memSeatRepo struct {
	items map[uuid.UUID]*model.Seat
}

func newMemSeatRepo() *memSeatRepo {
	return &memSeatRepo{items: make(map[uuid.UUID]*model.Seat)}
}

func (r *memSeatRepo) Create(_ context.Context, seat *model.Seat) error {
	if seat.ID == uuid.Nil {
		seat.ID = uuid.New()
	}
	clone := *seat
	r.items[seat.ID] = &clone
	return nil
}

func (r *memSeatRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Seat, error) {
	seat, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *seat
	return &clone, nil
}

func (r *memSeatRepo) FindAll(_ context.Context) ([]model.Seat, error) {
	var out []model.Seat
	for _, seat := range r.items {
		out = append(out, *seat)
	}
	return out, nil
}

type memBookingRepo struct {
	items map[uuid.UUID]*model.SeatBooking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{items: make(map[uuid.UUID]*model.SeatBooking)}
}

func (r *memBookingRepo) Create(_ context.Context, b *model.SeatBooking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	clone := *b
	r.items[b.ID] = &clone
	return nil
}

func (r *memBookingRepo) FindOwnedByID(_ context.Context, userID, id uuid.UUID) (*model.SeatBooking, error) {
	b, ok := r.items[id]
	if !ok || b.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SeatBooking, error) {
	b, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *memBookingRepo) FindByOwner(_ context.Context, userID uuid.UUID) ([]model.SeatBooking, error) {
	var out []model.SeatBooking
	for _, b := range r.items {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) Save(_ context.Context, b *model.SeatBooking) error {
	clone := *b
	r.items[b.ID] = &clone
	return nil
}

func (r *memBookingRepo) FindExpiredBooked(_ context.Context, before time.Time) ([]model.SeatBooking, error) {
	var out []model.SeatBooking
	for _, b := range r.items {
		if b.Status == model.BookingStatusBooked && b.BookingDate.Before(before) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ExistsActive(_ context.Context, seatID uuid.UUID, date time.Time, slot string) (bool, error) {
	for _, b := range r.items {
		if b.SeatID == seatID && b.BookingDate.Equal(date) && b.TimeSlot == slot &&
			(b.Status == model.BookingStatusBooked || b.Status == model.BookingStatusCheckedIn) {
			return true, nil
		}
	}
	return false, nil
}

func newBookingFixture(t *testing.T) (BookingService, *memBookingRepo, *memSeatRepo, *recordingNotificationService) {
	t.Helper()
	bookings := newMemBookingRepo()
	seats := newMemSeatRepo()
	rec := &recordingNotificationService{}
	dispatcher := NewNotificationDispatcher(rec, zap.NewNop())
	return NewBookingService(bookings, seats, dispatcher), bookings, seats, rec
}

func TestCreateBookingRejectsDoubleBooking(t *testing.T) {
	svc, _, seats, rec := newBookingFixture(t)
	ctx := context.Background()

	seat := &model.Seat{Code: "A-01", Floor: 1, IsActive: true}
	require.NoError(t, seats.Create(ctx, seat))

	req := dto.CreateBookingRequest{
		SeatID:      seat.ID,
		BookingDate: "2026-09-01",
		TimeSlot:    "09:00-12:00",
	}

	_, err := svc.CreateBooking(ctx, uuid.New(), req)
	require.NoError(t, err)
	require.Len(t, rec.created, 1)

	_, err = svc.CreateBooking(ctx, uuid.New(), req)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	// The failed attempt must not notify anyone.
	assert.Len(t, rec.created, 1)
}

func TestCheckInRequiresBookedState(t *testing.T) {
	svc, _, seats, _ := newBookingFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	seat := &model.Seat{Code: "A-02", Floor: 1, IsActive: true}
	require.NoError(t, seats.Create(ctx, seat))

	booking, err := svc.CreateBooking(ctx, userID, dto.CreateBookingRequest{
		SeatID:      seat.ID,
		BookingDate: "2026-09-01",
		TimeSlot:    "13:00-16:00",
	})
	require.NoError(t, err)

	checked, err := svc.CheckIn(ctx, userID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCheckedIn, checked.Status)
	assert.NotNil(t, checked.CheckInTime)

	// A second check-in is a state conflict, not an idempotent no-op.
	_, err = svc.CheckIn(ctx, userID, booking.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestCheckInForeignBookingNotFound(t *testing.T) {
	svc, _, seats, _ := newBookingFixture(t)
	ctx := context.Background()

	seat := &model.Seat{Code: "A-03", Floor: 2, IsActive: true}
	require.NoError(t, seats.Create(ctx, seat))

	booking, err := svc.CreateBooking(ctx, uuid.New(), dto.CreateBookingRequest{
		SeatID:      seat.ID,
		BookingDate: "2026-09-02",
		TimeSlot:    "09:00-12:00",
	})
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, uuid.New(), booking.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestMarkNoShowsSweep(t *testing.T) {
	svc, bookings, _, rec := newBookingFixture(t)
	ctx := context.Background()

	stale := &model.SeatBooking{
		SeatID:      uuid.New(),
		UserID:      uuid.New(),
		BookingDate: time.Now().AddDate(0, 0, -2),
		TimeSlot:    "09:00-12:00",
		Status:      model.BookingStatusBooked,
	}
	require.NoError(t, bookings.Create(ctx, stale))

	fresh := &model.SeatBooking{
		SeatID:      uuid.New(),
		UserID:      uuid.New(),
		BookingDate: time.Now().AddDate(0, 0, 1),
		TimeSlot:    "09:00-12:00",
		Status:      model.BookingStatusBooked,
	}
	require.NoError(t, bookings.Create(ctx, fresh))

	flagged, err := svc.MarkNoShows(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, flagged)

	saved, err := bookings.FindByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusNoShow, saved.Status)

	untouched, err := bookings.FindByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusBooked, untouched.Status)

	require.Len(t, rec.created, 1)
	assert.Equal(t, "Booking Marked as No-Show", rec.created[0].Title)

	// Second sweep finds nothing new.
	again, err := svc.MarkNoShows(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, again)
}
