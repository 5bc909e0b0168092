package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	FeedbackEdit      = "edit"
	FeedbackRejection = "rejection"
	FeedbackApproval  = "approval"
)

type PostFeedback struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PostID          uuid.UUID `gorm:"type:uuid;index" json:"post_id"`
	FeedbackType    string    `gorm:"type:varchar(20)" json:"feedback_type"`
	EditDetails     string    `gorm:"type:jsonb" json:"edit_details"`
	RejectionReason string    `gorm:"type:text" json:"rejection_reason"`
	CreatedBy       string    `gorm:"type:varchar(100)" json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

func (f *PostFeedback) TableName() string {
	return "post_feedback"
}
