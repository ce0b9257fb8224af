package notification

import (
	"time"

	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/models"
	"gorm.io/datatypes"
)

// Notification is one entry in a user's feed.
type Notification struct {
	models.UUIDModel
	RecipientID   string         `gorm:"type:varchar(36);index;not null" json:"recipient_id"`
	Type          string         `gorm:"index;not null" json:"type"`
	Title         string         `json:"title"`
	Message       string         `json:"message"`
	EventID       string         `gorm:"type:varchar(36);index" json:"event_id,omitempty"`
	ApplicationID string         `gorm:"type:varchar(36)" json:"application_id,omitempty"`
	ActorID       string         `gorm:"type:varchar(36)" json:"actor_id,omitempty"`
	Data          datatypes.JSON `gorm:"type:jsonb" json:"data,omitempty" swaggertype:"object"`
	ReadAt        *time.Time     `json:"read_at,omitempty"`
}

type ListQuery struct {
	UnreadOnly bool `form:"unread"`
	Page       int  `form:"page,default=1" binding:"min=1"`
	PageSize   int  `form:"page_size,default=20" binding:"min=1,max=100"`
}
