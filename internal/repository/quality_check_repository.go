package repository

import (
	"context"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QualityCheckRepository struct {
	db *gorm.DB
}

func NewQualityCheckRepository(db *gorm.DB) *QualityCheckRepository {
	return &QualityCheckRepository{db}
}

func (r *QualityCheckRepository) SaveAll(ctx context.Context, checks []model.QualityCheck) error {
	if len(checks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&checks).Error
}

func (r *QualityCheckRepository) FindByPost(ctx context.Context, postID uuid.UUID) ([]model.QualityCheck, error) {
	var checks []model.QualityCheck
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("id").Find(&checks).Error
	return checks, err
}
