package repository

import (
	"context"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/model"
	"gorm.io/gorm"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db}
}

func (r *FeedbackRepository) Create(ctx context.Context, f *model.PostFeedback) error {
	return r.db.WithContext(ctx).Create(f).Error
}
