package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smartlib.id/backend/internal/model"
)

type SeatRepository interface {
	Create(ctx context.Context, seat *model.Seat) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Seat, error)
	FindAll(ctx context.Context) ([]model.Seat, error)
}

type seatRepository struct {
	db *gorm.DB
}

func NewSeatRepository(db *gorm.DB) SeatRepository {
	return &seatRepository{db: db}
}

func (r *seatRepository) Create(ctx context.Context, seat *model.Seat) error {
	return r.db.WithContext(ctx).Create(seat).Error
}

func (r *seatRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Seat, error) {
	var seat model.Seat
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&seat).Error; err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *seatRepository) FindAll(ctx context.Context) ([]model.Seat, error) {
	var seats []model.Seat
	err := r.db.WithContext(ctx).Order("code asc").Find(&seats).Error
	return seats, err
}

type SeatBookingRepository interface {
	Create(ctx context.Context, booking *model.SeatBooking) error
	FindOwnedByID(ctx context.Context, userID, id uuid.UUID) (*model.SeatBooking, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.SeatBooking, error)
	FindByOwner(ctx context.Context, userID uuid.UUID) ([]model.SeatBooking, error)
	Save(ctx context.Context, booking *model.SeatBooking) error
	FindExpiredBooked(ctx context.Context, before time.Time) ([]model.SeatBooking, error)
	ExistsActive(ctx context.Context, seatID uuid.UUID, date time.Time, slot string) (bool, error)
}

type seatBookingRepository struct {
	db *gorm.DB
}

func NewSeatBookingRepository(db *gorm.DB) SeatBookingRepository {
	return &seatBookingRepository{db: db}
}

func (r *seatBookingRepository) Create(ctx context.Context, booking *model.SeatBooking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *seatBookingRepository) FindOwnedByID(ctx context.Context, userID, id uuid.UUID) (*model.SeatBooking, error) {
	var booking model.SeatBooking
	if err := r.db.WithContext(ctx).
		Preload("Seat").
		Where("id = ? AND user_id = ?", id, userID).
		First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *seatBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SeatBooking, error) {
	var booking model.SeatBooking
	if err := r.db.WithContext(ctx).
		Preload("Seat").
		Where("id = ?", id).
		First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *seatBookingRepository) FindByOwner(ctx context.Context, userID uuid.UUID) ([]model.SeatBooking, error) {
	var bookings []model.SeatBooking
	err := r.db.WithContext(ctx).
		Preload("Seat").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&bookings).Error
	return bookings, err
}

func (r *seatBookingRepository) Save(ctx context.Context, booking *model.SeatBooking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

// FindExpiredBooked returns bookings still in BOOKED state whose booking
// date has passed. The no-show sweep feeds on this.
func (r *seatBookingRepository) FindExpiredBooked(ctx context.Context, before time.Time) ([]model.SeatBooking, error) {
	var bookings []model.SeatBooking
	err := r.db.WithContext(ctx).
		Where("status = ? AND booking_date < ?", model.BookingStatusBooked, before).
		Find(&bookings).Error
	return bookings, err
}

func (r *seatBookingRepository) ExistsActive(ctx context.Context, seatID uuid.UUID, date time.Time, slot string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.SeatBooking{}).
		Where("seat_id = ? AND booking_date = ? AND time_slot = ? AND status IN ?",
			seatID, date, slot,
			[]model.BookingStatus{model.BookingStatusBooked, model.BookingStatusCheckedIn}).
		Count(&count).Error
	return count > 0, err
}
