package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationType is the closed set of notification flavours.
type NotificationType string

const (
	NotificationSuccess NotificationType = "SUCCESS"
	NotificationInfo    NotificationType = "INFO"
	NotificationWarning NotificationType = "WARNING"
	NotificationError   NotificationType = "ERROR"
)

// ValidNotificationType reports whether t belongs to the closed set.
func ValidNotificationType(t NotificationType) bool {
	switch t {
	case NotificationSuccess, NotificationInfo, NotificationWarning, NotificationError:
		return true
	}
	return false
}

type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index:idx_notifications_user_read" json:"-"` // User who receives the notification
	Title     string           `gorm:"size:255;not null" json:"title"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	Type      NotificationType `gorm:"type:varchar(20);not null;default:'INFO'" json:"type"`
	IsRead    bool             `gorm:"not null;default:false;index:idx_notifications_user_read" json:"is_read"`
	ActionURL *string          `gorm:"type:text" json:"action_url"`
	Metadata  datatypes.JSON   `gorm:"type:jsonb;not null" json:"metadata"`
	CreatedAt time.Time        `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime" json:"-"`

	// Pointer to avoid recursion when User ever carries notifications
	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	// Metadata must never be null, only empty.
	if len(n.Metadata) == 0 {
		n.Metadata = datatypes.JSON([]byte("{}"))
	}
	return nil
}
