package model

import (
	"time"

	"github.com/google/uuid"
)

type QualityCheck struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;index" json:"post_id"`
	CheckType string    `gorm:"type:varchar(50)" json:"check_type"`
	Passed    bool      `json:"passed"`
	Score     float64   `gorm:"type:float" json:"score"`
	Fallback  bool      `json:"fallback"`
	Details   string    `gorm:"type:jsonb" json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

func (q *QualityCheck) TableName() string {
	return "quality_checks"
}
