package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Post struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserPrompt       string           `gorm:"type:text" json:"user_prompt"`
	Platform         string           `gorm:"type:varchar(50);index" json:"platform"`
	GeneratedContent string           `gorm:"type:text" json:"generated_content"`
	FinalContent     string           `gorm:"type:text" json:"final_content"`
	Hashtags         string           `gorm:"type:text" json:"hashtags"` // space separated, without '#'
	ImagePath        string           `gorm:"type:text" json:"image_path"`
	ImageURL         string           `gorm:"type:text" json:"image_url"`
	ImagePrompt      string           `gorm:"type:text" json:"image_prompt"`
	BrandVoice       string           `gorm:"type:text" json:"brand_voice"`
	CharCount        int              `json:"char_count"`
	CharLimit        int              `json:"char_limit"`
	Status           PostStatus       `gorm:"type:varchar(50);index" json:"status"`
	HumanEdits       string           `gorm:"type:text" json:"human_edits"`
	ConfidenceScore  float64          `gorm:"type:float" json:"confidence_score"`
	HistoricalScore  float64          `gorm:"type:float" json:"historical_score"`
	FinalScore       float64          `gorm:"type:float" json:"final_score"`
	Decision         string           `gorm:"type:varchar(50)" json:"decision"`
	Rationale        string           `gorm:"type:text" json:"rationale"`
	PlatformPostID   string           `gorm:"type:varchar(255)" json:"platform_post_id"`
	Embedding        *pgvector.Vector `gorm:"type:vector(3072)" json:"-"`
	PublishedAt      *time.Time       `json:"published_at"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func (p *Post) TableName() string {
	return "generated_posts"
}

// HistoricalPost is a published post joined with its engagement, used only
// as read-only reference for similarity scoring.
type HistoricalPost struct {
	ID             uuid.UUID `json:"id"`
	Content        string    `json:"content"`
	EngagementRate float64   `json:"engagement_rate"`
}
