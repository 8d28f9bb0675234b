package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// ImageStore persists product photos and returns their public URL
type ImageStore interface {
	UploadProductImage(ctx context.Context, key string, data []byte) (string, error)
}

// Config holds configuration for the S3 image store
type Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	AccessKeySecret string
}

// s3ImageStore stores product photos in an S3 bucket
type s3ImageStore struct {
	uploader *s3manager.Uploader
	bucket   string
	region   string
}

// NewS3ImageStore creates an S3-backed image store
func NewS3ImageStore(config *Config) (ImageStore, error) {
	if config.Bucket == "" || config.Region == "" {
		return nil, fmt.Errorf("S3 configuration is incomplete")
	}

	awsConfig := &aws.Config{Region: aws.String(config.Region)}
	if config.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(config.AccessKeyID, config.AccessKeySecret, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &s3ImageStore{
		uploader: s3manager.NewUploader(sess),
		bucket:   config.Bucket,
		region:   config.Region,
	}, nil
}

// UploadProductImage uploads a PNG product photo under products/<key>.png
func (s *s3ImageStore) UploadProductImage(ctx context.Context, key string, data []byte) (string, error) {
	objectKey := fmt.Sprintf("products/%s.png", key)

	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, objectKey), nil
}
