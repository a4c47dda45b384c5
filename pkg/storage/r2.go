package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	internalConfig "github.com/Chawketodeh/eventy-events-platform/internal/config"
)

// ImageStore keeps event images and returns their public URL. Delete takes
// that URL back and ignores images hosted elsewhere.
type ImageStore interface {
	Upload(ctx context.Context, filename, contentType string, size int64, body io.Reader) (string, error)
	Delete(ctx context.Context, imageURL string) error
}

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type R2Storage struct {
	client    objectAPI
	bucket    string
	publicURL string
}

func NewR2Storage(ctx context.Context, cfg internalConfig.R2Config) (*R2Storage, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
	})

	return &R2Storage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: cfg.PublicURL,
	}, nil
}

// objectKey puts every upload under events/ with a random name, keeping the
// original extension.
func objectKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return "events/" + uuid.NewString() + ext
}

func (s *R2Storage) Upload(ctx context.Context, filename, contentType string, size int64, body io.Reader) (string, error) {
	key := objectKey(filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}
	return s.publicURL + "/" + key, nil
}

// keyFor returns the object key behind a URL returned by Upload.
func (s *R2Storage) keyFor(imageURL string) (string, bool) {
	prefix := s.publicURL + "/"
	if s.publicURL == "" || !strings.HasPrefix(imageURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(imageURL, prefix)
	return key, key != ""
}

func (s *R2Storage) Delete(ctx context.Context, imageURL string) error {
	key, ok := s.keyFor(imageURL)
	if !ok {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from R2: %w", key, err)
	}
	return nil
}
