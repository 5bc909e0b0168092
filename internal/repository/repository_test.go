package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestPostRepository_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)
	id := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "platform", "status", "final_content"}).
		AddRow(id.String(), "twitter", "draft", "Hello")
	mock.ExpectQuery(`SELECT \* FROM "generated_posts" WHERE id = \$1`).
		WillReturnRows(rows)

	post, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, post.ID)
	assert.Equal(t, model.StatusDraft, post.Status)
	assert.Equal(t, "Hello", post.FinalContent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_FindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "generated_posts" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, ErrPostNotFound))
}

func TestPostRepository_TransitionStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)
	id := uuid.New()

	mock.ExpectExec(`UPDATE "generated_posts" SET .* WHERE id = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.TransitionStatus(context.Background(), id, model.StatusDraft, model.StatusReviewNeeded, nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_TransitionStatusConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectExec(`UPDATE "generated_posts" SET .* WHERE id = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.TransitionStatus(context.Background(), uuid.New(), model.StatusDraft, model.StatusApproved, nil)
	assert.True(t, errors.Is(err, ErrStatusConflict))
}

func TestPostRepository_TransitionStatusRejectsInvalidMove(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	err := repo.TransitionStatus(context.Background(), uuid.New(), model.StatusDraft, model.StatusPublished, nil)
	assert.True(t, errors.Is(err, model.ErrInvalidTransition))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_CountPublished(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "generated_posts" WHERE platform = \$1 AND status = \$2`).
		WithArgs("linkedin", model.StatusPublished).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	n, err := repo.CountPublished(context.Background(), "linkedin")
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
}

func TestPostRepository_TopPerforming(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)
	first, second := uuid.New(), uuid.New()

	rows := sqlmock.NewRows([]string{"id", "content", "engagement_rate"}).
		AddRow(first.String(), "We are hiring", 0.12).
		AddRow(second.String(), "New feature shipped", 0.04)
	mock.ExpectQuery(`FROM generated_posts p\s+LEFT JOIN performance_metrics m`).
		WithArgs("linkedin", model.StatusPublished, 20).
		WillReturnRows(rows)

	posts, err := repo.TopPerforming(context.Background(), "linkedin", 20)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, first, posts[0].ID)
	assert.Equal(t, "We are hiring", posts[0].Content)
	assert.Equal(t, 0.12, posts[0].EngagementRate)
}

func TestPostRepository_TopPerformingError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`FROM generated_posts p`).WillReturnError(errors.New("connection reset"))

	_, err := repo.TopPerforming(context.Background(), "twitter", 20)
	assert.Error(t, err)
}

func TestMetricsRepository_Summary(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMetricsRepository(db)

	rows := sqlmock.NewRows([]string{"platform", "total_posts", "published", "approved", "rejected", "edit_rate"}).
		AddRow("linkedin", 10, 6, 2, 1, 0.3).
		AddRow("twitter", 4, 1, 0, 3, 0.0)
	mock.ExpectQuery(`FROM generated_posts\s+GROUP BY platform`).
		WithArgs(model.StatusPublished, model.StatusApproved, model.StatusRejected).
		WillReturnRows(rows)

	summary, err := repo.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, "linkedin", summary[0].Platform)
	assert.Equal(t, int64(6), summary[0].Published)
	assert.Equal(t, 0.3, summary[0].EditRate)
	assert.Equal(t, int64(3), summary[1].Rejected)
}
