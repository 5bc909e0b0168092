package storage

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage publishes generated image files and returns their public URL.
type Storage interface {
	UploadImage(ctx context.Context, postID, platform, localPath string) (string, error)
}

type MinIOClient struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinIOClient(ctx context.Context, cfg *config.StorageConfig) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &MinIOClient{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: PublicBaseURL(cfg),
	}, nil
}

// PublicBaseURL is the URL prefix objects are served from.
func PublicBaseURL(cfg *config.StorageConfig) string {
	if cfg.PublicURL != "" {
		return strings.TrimSuffix(cfg.PublicURL, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
}

// ObjectName places images under posts/<platform>/<yyyy>/<mm>/<post id><ext>.
func ObjectName(postID, platform, localPath string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(localPath))
	if ext == "" {
		ext = ".png"
	}
	return fmt.Sprintf("posts/%s/%d/%02d/%s%s", platform, now.Year(), now.Month(), postID, ext)
}

func (m *MinIOClient) UploadImage(ctx context.Context, postID, platform, localPath string) (string, error) {
	now := time.Now()
	objectName := ObjectName(postID, platform, localPath, now)

	contentType := mime.TypeByExtension(filepath.Ext(objectName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := m.client.FPutObject(ctx, m.bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"post-id":     postID,
			"platform":    platform,
			"uploaded-at": now.Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload %s to minio: %w", objectName, err)
	}

	return m.publicURL + "/" + objectName, nil
}
