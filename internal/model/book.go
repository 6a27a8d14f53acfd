package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusReady     ReservationStatus = "READY_FOR_PICKUP"
	ReservationStatusBorrowed  ReservationStatus = "BORROWED"
	ReservationStatusOverdue   ReservationStatus = "OVERDUE"
	ReservationStatusReturned  ReservationStatus = "RETURNED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

type Book struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Author          string    `gorm:"size:255;not null" json:"author"`
	ISBN            string    `gorm:"size:20;uniqueIndex;not null" json:"isbn"`
	Publisher       string    `gorm:"size:255" json:"publisher"`
	PublishedYear   int       `json:"published_year"`
	TotalCopies     int       `gorm:"not null;default:1" json:"total_copies"`
	AvailableCopies int       `gorm:"not null;default:1" json:"available_copies"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type BookReservation struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	BookID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"book_id"`
	UserID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	Status     ReservationStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	ReadyAt    *time.Time        `json:"ready_at,omitempty"`
	DueAt      *time.Time        `gorm:"index" json:"due_at,omitempty"`
	ReturnedAt *time.Time        `json:"returned_at,omitempty"`
	CreatedAt  time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	Book *Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (r *BookReservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
