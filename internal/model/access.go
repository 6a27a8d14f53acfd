package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Library is a branch of the library network members can request access to.
type Library struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (l *Library) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// AccessRequest is a member's request for access to a library branch.
// IsActive is the access grant flag flipped by the admin bulk review.
// Notes accumulates timestamped reviewer annotations; it is append-only.
type AccessRequest struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	LibraryID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"library_id"`
	IsActive   bool       `gorm:"not null;default:false" json:"is_active"`
	ReviewedBy *uuid.UUID `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	Notes      string     `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	User    *User    `gorm:"foreignKey:UserID" json:"-"`
	Library *Library `gorm:"foreignKey:LibraryID" json:"library,omitempty"`
}

func (a *AccessRequest) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
