package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "BOOKED"
	BookingStatusCheckedIn BookingStatus = "CHECKED_IN"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusNoShow    BookingStatus = "NO_SHOW"
)

type Seat struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code      string    `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Floor     int       `gorm:"not null" json:"floor"`
	Zone      string    `gorm:"size:50" json:"zone"` // 'quiet', 'group', 'computer'
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (s *Seat) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type SeatBooking struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	SeatID       uuid.UUID     `gorm:"type:uuid;not null;index" json:"seat_id"`
	UserID       uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	BookingDate  time.Time     `gorm:"not null;index" json:"booking_date"`
	TimeSlot     string        `gorm:"size:20;not null" json:"time_slot"` // e.g. "09:00-12:00"
	Status       BookingStatus `gorm:"type:varchar(20);not null;default:'BOOKED'" json:"status"`
	CheckInTime  *time.Time    `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time    `json:"check_out_time,omitempty"`
	CreatedAt    time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"autoUpdateTime" json:"updated_at"`

	Seat *Seat `gorm:"foreignKey:SeatID" json:"seat,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (b *SeatBooking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
