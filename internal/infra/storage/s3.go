package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/consultapp/internal/config"
)

// ObjectPutter is the part of the S3 client the photo store needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3PhotoStore struct {
	client  ObjectPutter
	bucket  string
	baseURL string
}

func NewS3PhotoStore(cfg *config.Config) *S3PhotoStore {
	opts := s3.Options{
		Region:       cfg.S3Region,
		UsePathStyle: cfg.S3Endpoint != "",
	}
	if cfg.S3AccessKeyID != "" {
		opts.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		)
	}
	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
	}

	baseURL := cfg.S3PublicBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}

	return NewS3PhotoStoreWithClient(s3.New(opts), cfg.S3Bucket, baseURL)
}

func NewS3PhotoStoreWithClient(client ObjectPutter, bucket, baseURL string) *S3PhotoStore {
	return &S3PhotoStore{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SaveEncounterPhoto stores the photo under encounters/<id>/<uuid>.webp and
// returns its public URL.
func (s *S3PhotoStore) SaveEncounterPhoto(ctx context.Context, encounterID uint, r io.Reader) (string, error) {
	body, err := Transcode(r, MaxSide)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("encounters/%d/%s.webp", encounterID, uuid.NewString())

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String("image/webp"),
		CacheControl: aws.String("public, max-age=31536000"),
	}); err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}

	return s.baseURL + "/" + key, nil
}
