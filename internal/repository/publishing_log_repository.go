package repository

import (
	"context"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PublishingLogRepository struct {
	db *gorm.DB
}

func NewPublishingLogRepository(db *gorm.DB) *PublishingLogRepository {
	return &PublishingLogRepository{db}
}

func (r *PublishingLogRepository) Create(ctx context.Context, entry *model.PublishingLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CountAttempts is the number of publish attempts already logged for a post.
func (r *PublishingLogRepository) CountAttempts(ctx context.Context, postID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.PublishingLog{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}
