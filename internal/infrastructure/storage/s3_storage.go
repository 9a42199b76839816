// Package storage provides the object stores catalog images are uploaded to.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	catalogapp "github.com/foodorder/backend/internal/application/catalog"
	"github.com/foodorder/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	defaultEndpoint          = "http://localhost:9000"
	defaultRegion            = "us-east-1"
	defaultPresignExpiration = 15 * time.Minute
)

var errEmptyKey = errors.New("storage key is required")

// S3 error codes that mean the bucket or object is absent. MinIO and other
// compatible servers answer HEAD with a bare "NotFound".
var notFoundCodes = map[string]bool{
	"NotFound":     true,
	"NoSuchKey":    true,
	"NoSuchBucket": true,
}

var _ catalogapp.ImageStorage = (*S3ImageStore)(nil)

// S3ImageStore keeps restaurant and menu item images in an S3 compatible
// bucket. Browsers upload through presigned PUT URLs and read objects from
// the public URL.
type S3ImageStore struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	publicURL string
	// anonymousRead grants public GetObject on the bucket; off when a CDN
	// or proxy serves the images
	anonymousRead bool
	presignTTL    time.Duration
	logger        *zap.Logger
}

// Option configures an S3ImageStore
type Option func(*S3ImageStore)

// WithLogger sets the store's logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *S3ImageStore) { s.logger = logger }
}

// WithPresignExpiration overrides how long upload URLs stay valid
func WithPresignExpiration(d time.Duration) Option {
	return func(s *S3ImageStore) { s.presignTTL = d }
}

// NewS3ImageStore builds a store from cfg. It does not contact the server;
// call EnsureBucket for that.
func NewS3ImageStore(ctx context.Context, cfg *config.StorageConfig, opts ...Option) (*S3ImageStore, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	endpoint, err := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = cfg.UsePathStyle
	})

	resolved := *cfg
	resolved.Endpoint = endpoint

	store := &S3ImageStore{
		client:        client,
		presigner:     s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		publicURL:     resolved.ObjectURL(""),
		anonymousRead: cfg.PublicURL == "",
		presignTTL:    cfg.PresignExpiration,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}
	if store.presignTTL <= 0 {
		store.presignTTL = defaultPresignExpiration
	}
	return store, nil
}

func validateConfig(cfg *config.StorageConfig) error {
	if cfg == nil {
		return errors.New("storage configuration is required")
	}
	var errs []error
	for name, value := range map[string]string{
		"bucket":     cfg.Bucket,
		"access key": cfg.AccessKey,
		"secret key": cfg.SecretKey,
	} {
		if value == "" {
			errs = append(errs, fmt.Errorf("storage %s is required", name))
		}
	}
	return errors.Join(errs...)
}

// normalizeEndpoint adds a scheme to bare host:port endpoints
func normalizeEndpoint(endpoint string, useSSL bool) (string, error) {
	switch {
	case endpoint == "":
		endpoint = defaultEndpoint
	case !strings.Contains(endpoint, "://"):
		scheme := "http://"
		if useSSL {
			scheme = "https://"
		}
		endpoint = scheme + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid storage endpoint %q", endpoint)
	}
	return strings.TrimRight(endpoint, "/"), nil
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && notFoundCodes[apiErr.ErrorCode()]
}

// EnsureBucket creates the bucket when it is missing and, unless a separate
// public URL fronts it, lets anonymous clients read its objects. Run it once
// at startup.
func (s *S3ImageStore) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	switch {
	case err == nil:
	case isNotFound(err):
		s.logger.Info("Creating image bucket", zap.String("bucket", s.bucket))
		if _, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
			var apiErr smithy.APIError
			if !errors.As(err, &apiErr) || apiErr.ErrorCode() != "BucketAlreadyOwnedByYou" {
				return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
			}
		}
	default:
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}

	if !s.anonymousRead {
		return nil
	}
	policy, err := publicReadPolicy(s.bucket)
	if err != nil {
		return err
	}
	if _, err := s.client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(s.bucket),
		Policy: aws.String(policy),
	}); err != nil {
		return fmt.Errorf("failed to set read policy on %s: %w", s.bucket, err)
	}
	return nil
}

type policyStatement struct {
	Effect    string            `json:"Effect"`
	Principal map[string]string `json:"Principal"`
	Action    []string          `json:"Action"`
	Resource  []string          `json:"Resource"`
}

type bucketPolicy struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

func publicReadPolicy(bucket string) (string, error) {
	b, err := json.Marshal(bucketPolicy{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Effect:    "Allow",
			Principal: map[string]string{"AWS": "*"},
			Action:    []string{"s3:GetObject"},
			Resource:  []string{"arn:aws:s3:::" + bucket + "/*"},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode bucket policy: %w", err)
	}
	return string(b), nil
}

// GenerateUploadURL presigns a PUT of key. Content type and, when size is
// positive, content length are signed, so the browser must send exactly
// those headers. A non-positive expiresIn uses the store default.
func (s *S3ImageStore) GenerateUploadURL(ctx context.Context, key, contentType string, size int64, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errEmptyKey
	}
	if expiresIn <= 0 {
		expiresIn = s.presignTTL
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	req, err := s.presigner.PresignPutObject(ctx, input, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to presign upload of %s: %w", key, err)
	}
	return req.URL, time.Now().Add(expiresIn), nil
}

// ObjectExists reports whether key has been uploaded
func (s *S3ImageStore) ObjectExists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errEmptyKey
	}
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	switch {
	case err == nil:
		return true, nil
	case isNotFound(err):
		return false, nil
	default:
		return false, fmt.Errorf("failed to stat %s: %w", key, err)
	}
}

// DeleteObject removes key; deleting a missing key succeeds
func (s *S3ImageStore) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return errEmptyKey
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Upload writes data under key from the server side
func (s *S3ImageStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errEmptyKey
	}
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	}); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the URL browsers load key from
func (s *S3ImageStore) PublicURL(key string) string {
	return strings.TrimRight(s.publicURL, "/") + "/" + strings.TrimLeft(key, "/")
}

// Bucket returns the bucket name
func (s *S3ImageStore) Bucket() string {
	return s.bucket
}
