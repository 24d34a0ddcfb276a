// Package storage issues presigned uploads against any S3-compatible object store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/sngm3741/stagelink/api/internal/public/application"
)

var _ application.MediaStorage = (*S3MediaStorage)(nil)

// Config describes the bucket and credentials.
type Config struct {
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	PresignTTL   time.Duration
	// PublicBaseURL is where uploaded objects are served from. Defaults to the
	// endpoint plus bucket.
	PublicBaseURL string
}

// S3MediaStorage presigns PUT requests so clients upload media directly.
type S3MediaStorage struct {
	presigner  *s3.PresignClient
	bucket     string
	ttl        time.Duration
	publicBase string
	logger     *zap.Logger
	now        func() time.Time
}

// Option configures S3MediaStorage.
type Option func(*S3MediaStorage)

func WithLogger(logger *zap.Logger) Option {
	return func(s *S3MediaStorage) {
		s.logger = logger
	}
}

func WithPresignTTL(d time.Duration) Option {
	return func(s *S3MediaStorage) {
		if d > 0 {
			s.ttl = d
		}
	}
}

func NewS3MediaStorage(ctx context.Context, cfg Config, opts ...Option) (*S3MediaStorage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("storage access key and secret key are required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint != "" {
		if _, err := url.ParseRequestURI(endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	publicBase := strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	if publicBase == "" {
		if endpoint != "" {
			publicBase = endpoint + "/" + cfg.Bucket
		} else {
			publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
		}
	}

	storage := &S3MediaStorage{
		presigner:  s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		ttl:        15 * time.Minute,
		publicBase: publicBase,
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	if cfg.PresignTTL > 0 {
		storage.ttl = cfg.PresignTTL
	}
	for _, opt := range opts {
		opt(storage)
	}
	return storage, nil
}

// PresignPut signs a PUT for key bound to contentType.
func (s *S3MediaStorage) PresignPut(ctx context.Context, key, contentType string) (*application.PresignedUpload, error) {
	if key == "" {
		return nil, errors.New("object key is required")
	}
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		s.logger.Error("presign upload failed", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	method := req.Method
	if method == "" {
		method = http.MethodPut
	}
	return &application.PresignedUpload{
		UploadURL:   req.URL,
		Method:      method,
		ObjectKey:   key,
		PublicURL:   s.publicBase + "/" + key,
		ContentType: contentType,
		ExpiresAt:   s.now().Add(s.ttl).UTC(),
	}, nil
}
