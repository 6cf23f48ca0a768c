package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// S3Options describes the bucket images are written to.
type S3Options struct {
	Bucket    string
	KeyPrefix string
	Region    string
	// Endpoint, when set, addresses an S3-compatible API with path-style URLs.
	Endpoint string
}

// S3Service stores images in Amazon S3 (or compatible APIs).
type S3Service struct {
	client   *s3.Client
	uploader *manager.Uploader
	opts     S3Options
}

func NewS3Service(client *s3.Client, opts S3Options) *S3Service {
	return &S3Service{
		client:   client,
		uploader: manager.NewUploader(client),
		opts:     opts,
	}
}

var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

func (s *S3Service) UploadImage(ctx context.Context, data []byte, contentType string) (string, error) {
	if s.opts.Bucket == "" {
		return "", fmt.Errorf("storage bucket is required")
	}
	if len(data) == 0 {
		return "", fmt.Errorf("image data is empty")
	}

	ext, ok := extByContentType[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("unsupported image content type %q", contentType)
	}

	key := uuid.NewString() + ext
	if prefix := strings.Trim(s.opts.KeyPrefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.opts.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	return s.objectURL(key), nil
}

func (s *S3Service) DeleteImage(ctx context.Context, objectURL string) error {
	key, err := s.keyFromURL(objectURL)
	if err != nil {
		return err
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

func (s *S3Service) objectURL(key string) string {
	if s.opts.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.opts.Endpoint, "/"), s.opts.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.opts.Bucket, s.opts.Region, key)
}

func (s *S3Service) keyFromURL(objectURL string) (string, error) {
	base := s.objectURL("")
	if !strings.HasPrefix(objectURL, base) {
		return "", fmt.Errorf("object url does not belong to bucket %s", s.opts.Bucket)
	}
	key := strings.TrimPrefix(objectURL, base)
	if key == "" {
		return "", fmt.Errorf("object url has no key")
	}
	return key, nil
}

var _ Service = (*S3Service)(nil)
