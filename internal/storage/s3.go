// Package storage uploads profile photos to S3 and hands back durable
// public URLs for the profile's photos list.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// PhotoStore writes uploaded images to a bucket. Object keys are random,
// so nothing about the member leaks through the URL.
type PhotoStore struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewPhotoStore builds a store from the default AWS credential chain.
// An empty bucket disables uploads; callers get ErrNotConfigured.
func NewPhotoStore(ctx context.Context, bucket, region, baseURL string) (*PhotoStore, error) {
	if bucket == "" {
		return &PhotoStore{}, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &PhotoStore{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// ErrNotConfigured is returned when no bucket is set.
var ErrNotConfigured = fmt.Errorf("photo storage not configured")

// Upload stores one image under a random key and returns its public URL.
func (ps *PhotoStore) Upload(ctx context.Context, body io.Reader, contentType string) (string, error) {
	if ps.client == nil {
		return "", ErrNotConfigured
	}
	key := "photos/" + uuid.NewString() + extForContentType(contentType)
	_, err := ps.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(ps.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return ps.baseURL + "/" + key, nil
}

func extForContentType(ct string) string {
	switch ct {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
