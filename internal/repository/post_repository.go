package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/model"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound = errors.New("post not found")
	// ErrStatusConflict means the post left the expected status before the
	// write landed.
	ErrStatusConflict = errors.New("post status changed concurrently")
)

type PostFilter struct {
	Platform string
	Status   model.PostStatus
}

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db}
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(post).Error
}

// Update saves content fields. Status changes go through TransitionStatus.
func (r *PostRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).
		Model(post).
		Select("*").
		Omit("id", "status", "created_at").
		Updates(post).Error
}

func (r *PostRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) List(ctx context.Context, filter PostFilter, page, pageSize int) ([]model.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Post{})
	if filter.Platform != "" {
		q = q.Where("platform = ?", filter.Platform)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&posts).Error
	return posts, total, err
}

// TransitionStatus moves a post from one status to another and writes any
// extra columns in the same statement. The update only applies while the
// post is still in from.
func (r *PostRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.PostStatus, fields map[string]any) error {
	if err := model.ValidateTransition(from, to); err != nil {
		return err
	}

	updates := map[string]any{"status": to}
	for k, v := range fields {
		updates[k] = v
	}

	res := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update status %s -> %s: %w", from, to, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s is no longer %s", ErrStatusConflict, id, from)
	}
	return nil
}

func (r *PostRepository) CountPublished(ctx context.Context, platform string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("platform = ? AND status = ?", platform, model.StatusPublished).
		Count(&n).Error
	return n, err
}

// TopPerforming returns the published posts of a platform ordered by their
// best recorded engagement rate.
func (r *PostRepository) TopPerforming(ctx context.Context, platform string, limit int) ([]model.HistoricalPost, error) {
	var posts []model.HistoricalPost
	err := r.db.WithContext(ctx).Raw(`
        SELECT p.id,
               COALESCE(NULLIF(p.final_content, ''), p.generated_content) AS content,
               COALESCE(MAX(m.engagement_rate), 0) AS engagement_rate
        FROM generated_posts p
        LEFT JOIN performance_metrics m ON m.post_id = p.id
        WHERE p.platform = ? AND p.status = ?
        GROUP BY p.id
        ORDER BY engagement_rate DESC, p.id
        LIMIT ?
    `, platform, model.StatusPublished, limit).Scan(&posts).Error
	return posts, err
}

// SearchSimilarPublished finds the published posts of a platform closest to
// the given embedding.
func (r *PostRepository) SearchSimilarPublished(ctx context.Context, embedding pgvector.Vector, platform string, topK int) ([]model.Post, error) {
	var posts []model.Post

	// pgvector <-> is L2 distance
	err := r.db.WithContext(ctx).Raw(`
        SELECT *
        FROM generated_posts
        WHERE platform = ? AND status = ? AND embedding IS NOT NULL
        ORDER BY embedding <-> ?
        LIMIT ?
    `, platform, model.StatusPublished, embedding, topK).Scan(&posts).Error

	return posts, err
}
