package model

import (
	"time"

	"github.com/google/uuid"
)

type PerformanceMetric struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PostID         uuid.UUID `gorm:"type:uuid;index" json:"post_id"`
	Platform       string    `gorm:"type:varchar(50)" json:"platform"`
	Likes          int       `json:"likes"`
	Comments       int       `json:"comments"`
	Shares         int       `json:"shares"`
	Impressions    int       `json:"impressions"`
	Clicks         int       `json:"clicks"`
	EngagementRate float64   `gorm:"type:float;index" json:"engagement_rate"`
	CreatedAt      time.Time `json:"created_at"`
}

func (m *PerformanceMetric) TableName() string {
	return "performance_metrics"
}

// AnalyticsSummary is one row of the per-platform summary.
type AnalyticsSummary struct {
	Platform   string  `json:"platform"`
	TotalPosts int64   `json:"total_posts"`
	Published  int64   `json:"published"`
	Approved   int64   `json:"approved"`
	Rejected   int64   `json:"rejected"`
	EditRate   float64 `json:"edit_rate"`
}
