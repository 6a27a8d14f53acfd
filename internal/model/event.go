package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegistrationStatus string

const (
	RegistrationStatusRegistered RegistrationStatus = "REGISTERED"
	RegistrationStatusAttended   RegistrationStatus = "ATTENDED"
	RegistrationStatusCancelled  RegistrationStatus = "CANCELLED"
)

type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `gorm:"size:255" json:"location"`
	StartsAt    time.Time `gorm:"not null;index" json:"starts_at"`
	EndsAt      time.Time `gorm:"not null" json:"ends_at"`
	Capacity    int       `gorm:"not null;default:0" json:"capacity"` // 0 means unlimited
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type EventRegistration struct {
	ID                uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	EventID           uuid.UUID          `gorm:"type:uuid;not null;index:idx_registrations_event_user,unique" json:"event_id"`
	UserID            uuid.UUID          `gorm:"type:uuid;not null;index:idx_registrations_event_user,unique" json:"user_id"`
	Status            RegistrationStatus `gorm:"type:varchar(20);not null;default:'REGISTERED'" json:"status"`
	CertificateIssued bool               `gorm:"not null;default:false" json:"certificate_issued"`
	CertificateURL    *string            `gorm:"type:text" json:"certificate_url,omitempty"`
	ReminderSentAt    *time.Time         `json:"-"`
	CreatedAt         time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time          `gorm:"autoUpdateTime" json:"updated_at"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
	User  *User  `gorm:"foreignKey:UserID" json:"-"`
}

func (r *EventRegistration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
