package repository

import (
	"context"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MetricsRepository struct {
	db *gorm.DB
}

func NewMetricsRepository(db *gorm.DB) *MetricsRepository {
	return &MetricsRepository{db}
}

func (r *MetricsRepository) Create(ctx context.Context, m *model.PerformanceMetric) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MetricsRepository) FindByPost(ctx context.Context, postID uuid.UUID) ([]model.PerformanceMetric, error) {
	var metrics []model.PerformanceMetric
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at DESC").Find(&metrics).Error
	return metrics, err
}

// Summary aggregates post outcomes per platform. EditRate is the share of
// posts whose final content was edited by a reviewer.
func (r *MetricsRepository) Summary(ctx context.Context) ([]model.AnalyticsSummary, error) {
	var rows []model.AnalyticsSummary
	err := r.db.WithContext(ctx).Raw(`
        SELECT platform,
               COUNT(*) AS total_posts,
               COUNT(*) FILTER (WHERE status = ?) AS published,
               COUNT(*) FILTER (WHERE status = ?) AS approved,
               COUNT(*) FILTER (WHERE status = ?) AS rejected,
               COALESCE(AVG(CASE WHEN human_edits <> '' THEN 1.0 ELSE 0.0 END), 0) AS edit_rate
        FROM generated_posts
        GROUP BY platform
        ORDER BY platform
    `, model.StatusPublished, model.StatusApproved, model.StatusRejected).Scan(&rows).Error
	return rows, err
}
