package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const (
	keyCharset       = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	minMultipartSize = 12 << 20
)

var ErrStorageDisabled = errors.New("banner storage is disabled")

// BannerUploader puts event banners into a bucket and returns their public
// address
type BannerUploader struct {
	client    manager.UploadAPIClient
	bucket    string
	publicURL string
}

func NewBannerUploader(c manager.UploadAPIClient, bucket, publicURL string) *BannerUploader {
	return &BannerUploader{
		client:    c,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

// Upload stores the banner of an event under a fresh key. Large files are
// sent in parts
func (u *BannerUploader) Upload(ctx context.Context, eventID string, body io.Reader, size int64, contentType string) (string, error) {
	if u == nil || u.client == nil {
		return "", ErrStorageDisabled
	}

	id, err := gonanoid.Generate(keyCharset, 12)
	if err != nil {
		return "", fmt.Errorf("failed to generate banner key, %w", err)
	}

	key := fmt.Sprintf("banners/%s/%s%s", eventID, id, extensionFor(contentType))

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	uploader := manager.NewUploader(u.client, func(mu *manager.Uploader) {
		if size > minMultipartSize {
			mu.Concurrency = 5
			mu.PartSize = 6 << 20
		}
	})

	_, err = uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(u.bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload banner, %w", err)
	}

	zap.L().Debug("Banner uploaded", zap.String("event_id", eventID), zap.String("key", key))

	if u.publicURL == "" {
		return key, nil
	}

	return u.publicURL + "/" + key, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}

	return ""
}
