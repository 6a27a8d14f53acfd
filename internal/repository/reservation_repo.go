package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smartlib.id/backend/internal/model"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.BookReservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BookReservation, error)
	FindOwnedByID(ctx context.Context, userID, id uuid.UUID) (*model.BookReservation, error)
	FindByOwner(ctx context.Context, userID uuid.UUID) ([]model.BookReservation, error)
	Save(ctx context.Context, reservation *model.BookReservation) error
	FindBorrowedDueBefore(ctx context.Context, cutoff time.Time) ([]model.BookReservation, error)
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *model.BookReservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BookReservation, error) {
	var reservation model.BookReservation
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("id = ?", id).
		First(&reservation).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) FindOwnedByID(ctx context.Context, userID, id uuid.UUID) (*model.BookReservation, error) {
	var reservation model.BookReservation
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("id = ? AND user_id = ?", id, userID).
		First(&reservation).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) FindByOwner(ctx context.Context, userID uuid.UUID) ([]model.BookReservation, error) {
	var reservations []model.BookReservation
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&reservations).Error
	return reservations, err
}

func (r *reservationRepository) Save(ctx context.Context, reservation *model.BookReservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

// FindBorrowedDueBefore returns loans past their due date that the overdue
// sweep has not flagged yet.
func (r *reservationRepository) FindBorrowedDueBefore(ctx context.Context, cutoff time.Time) ([]model.BookReservation, error) {
	var reservations []model.BookReservation
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("status = ? AND due_at < ?", model.ReservationStatusBorrowed, cutoff).
		Find(&reservations).Error
	return reservations, err
}
