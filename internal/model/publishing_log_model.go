package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	PublishSuccess = "success"
	PublishFailed  = "failed"
)

type PublishingLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PostID         uuid.UUID `gorm:"type:uuid;index" json:"post_id"`
	Platform       string    `gorm:"type:varchar(50)" json:"platform"`
	PlatformPostID string    `gorm:"type:varchar(255)" json:"platform_post_id"`
	Status         string    `gorm:"type:varchar(20)" json:"status"`
	ErrorMessage   string    `gorm:"type:text" json:"error_message"`
	Attempts       int       `json:"attempts"`
	CreatedAt      time.Time `json:"created_at"`
}

func (l *PublishingLog) TableName() string {
	return "publishing_log"
}
