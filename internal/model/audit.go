package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActivityLog is the generic audit-log sink. Rows are write-once.
type ActivityLog struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"actor_id"`
	ActivityType string         `gorm:"size:50;not null;index" json:"activity_type"` // 'access_approved', 'access_rejected', ...
	Description  string         `gorm:"type:text;not null" json:"description"`
	Metadata     datatypes.JSON `gorm:"type:jsonb;not null" json:"metadata"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;index" json:"created_at"`

	Actor *User `gorm:"foreignKey:ActorID" json:"-"`
}

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if len(a.Metadata) == 0 {
		a.Metadata = datatypes.JSON([]byte("{}"))
	}
	return nil
}
