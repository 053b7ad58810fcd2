package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/akarkode/authentication/internal/config"
)

// AvatarStore mirrors provider-hosted profile pictures into a MinIO bucket
// so they remain available after the provider URL rotates or expires.
type AvatarStore struct {
	client *minio.Client
	bucket string
	http   *http.Client
}

// NewAvatarStore creates the MinIO client and ensures the bucket exists.
func NewAvatarStore(cfg config.MinIOConfig) (*AvatarStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &AvatarStore{
		client: mc,
		bucket: cfg.Bucket,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
	// ensure bucket exists (idempotent)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

func avatarKey(provider, providerUserID string) string {
	return fmt.Sprintf("avatars/%s/%s", provider, providerUserID)
}

// Mirror downloads the picture at sourceURL and stores a copy under the
// identity's key. Overwrites any previous copy.
func (s *AvatarStore) Mirror(ctx context.Context, provider, providerUserID, sourceURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return fmt.Errorf("avatar fetch: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("avatar fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("avatar fetch: provider returned %d", resp.StatusCode)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err = s.client.PutObject(ctx, s.bucket, avatarKey(provider, providerUserID),
		resp.Body, resp.ContentLength, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("avatar store: %w", err)
	}
	return nil
}

// AvatarURL returns a presigned GET URL for the mirrored picture, valid for
// the given duration.
func (s *AvatarStore) AvatarURL(ctx context.Context, provider, providerUserID string, expires time.Duration) (string, error) {
	reqParams := make(url.Values)
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, avatarKey(provider, providerUserID), expires, reqParams)
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}
