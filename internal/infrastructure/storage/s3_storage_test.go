package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/foodorder/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
)

func testStorageConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Bucket:            "test-bucket",
		AccessKey:         "test-key",
		SecretKey:         "test-secret",
		Region:            "us-east-1",
		Endpoint:          "http://localhost:9000",
		UsePathStyle:      true,
		PresignExpiration: 15 * time.Minute,
	}
}

func TestNewS3ImageStore_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ImageStore(context.Background(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	tests := []struct {
		name    string
		mutate  func(*config.StorageConfig)
		wantErr string
	}{
		{"missing bucket", func(c *config.StorageConfig) { c.Bucket = "" }, "bucket is required"},
		{"missing access key", func(c *config.StorageConfig) { c.AccessKey = "" }, "access key is required"},
		{"missing secret key", func(c *config.StorageConfig) { c.SecretKey = "" }, "secret key is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testStorageConfig()
			tt.mutate(cfg)
			_, err := NewS3ImageStore(context.Background(), cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("valid config creates storage", func(t *testing.T) {
		storage, err := NewS3ImageStore(context.Background(), testStorageConfig())
		require.NoError(t, err)
		assert.Equal(t, "test-bucket", storage.Bucket())
		assert.Equal(t, 15*time.Minute, storage.presignTTL)
	})

	t.Run("adds scheme from UseSSL", func(t *testing.T) {
		cfg := testStorageConfig()
		cfg.Endpoint = "minio.internal:9000"
		cfg.UseSSL = true
		storage, err := NewS3ImageStore(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://minio.internal:9000/test-bucket/a.png", storage.PublicURL("a.png"))
	})

	t.Run("default presign expiration is 15 minutes", func(t *testing.T) {
		cfg := testStorageConfig()
		cfg.PresignExpiration = 0
		storage, err := NewS3ImageStore(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, storage.presignTTL)
	})
}

func TestS3ImageStoreOptions(t *testing.T) {
	logger := zaptest.NewLogger(t)
	storage, err := NewS3ImageStore(context.Background(), testStorageConfig(), WithLogger(logger), WithPresignExpiration(time.Hour))
	require.NoError(t, err)
	assert.Same(t, logger, storage.logger)
	assert.Equal(t, time.Hour, storage.presignTTL)
}

func TestS3ImageStore_GenerateUploadURL(t *testing.T) {
	storage, err := NewS3ImageStore(context.Background(), testStorageConfig())
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("empty storage key returns error", func(t *testing.T) {
		url, _, err := storage.GenerateUploadURL(ctx, "", "image/jpeg", 10, time.Minute)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage key is required")
		assert.Empty(t, url)
	})

	t.Run("presigns path style PUT", func(t *testing.T) {
		url, expiresAt, err := storage.GenerateUploadURL(ctx, "restaurants/r1/a.jpg", "image/jpeg", 2048, 10*time.Minute)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "http://localhost:9000/test-bucket/restaurants/r1/a.jpg?"))
		assert.Contains(t, url, "X-Amz-Signature=")
		assert.Contains(t, url, "X-Amz-Expires=600")
		assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 5*time.Second)
	})

	t.Run("uses default expiration when not provided", func(t *testing.T) {
		url, _, err := storage.GenerateUploadURL(ctx, "restaurants/r1/a.jpg", "image/jpeg", 0, 0)
		require.NoError(t, err)
		assert.Contains(t, url, "X-Amz-Expires=900")
	})
}

func TestS3ImageStore_ValidationOnly(t *testing.T) {
	storage, err := NewS3ImageStore(context.Background(), testStorageConfig())
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorContains(t, storage.DeleteObject(ctx, ""), "storage key is required")
	assert.ErrorContains(t, storage.Upload(ctx, "", []byte("x"), "text/plain"), "storage key is required")
	exists, err := storage.ObjectExists(ctx, "")
	assert.ErrorContains(t, err, "storage key is required")
	assert.False(t, exists)
}

func TestS3ImageStore_PublicURL(t *testing.T) {
	cfg := testStorageConfig()
	storage, err := NewS3ImageStore(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/test-bucket/menu-items/m1/b.webp", storage.PublicURL("menu-items/m1/b.webp"))

	cfg.PublicURL = "https://cdn.example.com"
	storage, err = NewS3ImageStore(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/menu-items/m1/b.webp", storage.PublicURL("menu-items/m1/b.webp"))
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		useSSL   bool
		want     string
	}{
		{"", false, "http://localhost:9000"},
		{"minio:9000", false, "http://minio:9000"},
		{"minio:9000", true, "https://minio:9000"},
		{"https://s3.ap-south-1.amazonaws.com/", false, "https://s3.ap-south-1.amazonaws.com"},
	}
	for _, tt := range tests {
		got, err := normalizeEndpoint(tt.endpoint, tt.useSSL)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := normalizeEndpoint("http://", false)
	assert.Error(t, err)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(&types.NotFound{}))
	assert.True(t, isNotFound(&types.NoSuchKey{}))
	assert.True(t, isNotFound(fmt.Errorf("head: %w", &smithy.GenericAPIError{Code: "NotFound"})))
	assert.False(t, isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isNotFound(errors.New("NotFound")))
}

func TestValidateConfig_ReportsEveryMissingField(t *testing.T) {
	err := validateConfig(&config.StorageConfig{})
	require.Error(t, err)
	for _, field := range []string{"bucket", "access key", "secret key"} {
		assert.ErrorContains(t, err, "storage "+field+" is required")
	}
}

func TestPublicReadPolicy(t *testing.T) {
	raw, err := publicReadPolicy("images")
	require.NoError(t, err)

	var policy bucketPolicy
	require.NoError(t, json.Unmarshal([]byte(raw), &policy))
	require.Len(t, policy.Statement, 1)
	assert.Equal(t, []string{"s3:GetObject"}, policy.Statement[0].Action)
	assert.Equal(t, []string{"arn:aws:s3:::images/*"}, policy.Statement[0].Resource)
}

// startMinIO runs a throwaway MinIO server and returns its endpoint
func startMinIO(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping MinIO integration test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     "minioadmin",
				"MINIO_ROOT_PASSWORD": "minioadmin123",
			},
			Cmd:        []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("MinIO container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.PortEndpoint(ctx, "9000/tcp", "http")
	require.NoError(t, err)
	return endpoint
}

func TestIntegration_PresignedUploadRoundTrip(t *testing.T) {
	endpoint := startMinIO(t)
	ctx := context.Background()

	storage, err := NewS3ImageStore(context.Background(), &config.StorageConfig{
		Endpoint:     endpoint,
		Bucket:       "foodorder-images",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin123",
		UsePathStyle: true,
	}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	require.NoError(t, storage.EnsureBucket(ctx))
	require.NoError(t, storage.EnsureBucket(ctx))

	key := "restaurants/r1/cover.png"
	body := []byte("\x89PNG fake image bytes")
	uploadURL, _, err := storage.GenerateUploadURL(ctx, key, "image/png", int64(len(body)), time.Minute)
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "image/png")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	exists, err := storage.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	// the bucket policy lets anonymous clients read images
	get, err := http.Get(storage.PublicURL(key))
	require.NoError(t, err)
	got, _ := io.ReadAll(get.Body)
	_ = get.Body.Close()
	assert.Equal(t, http.StatusOK, get.StatusCode)
	assert.Equal(t, body, got)

	require.NoError(t, storage.DeleteObject(ctx, key))
	exists, err = storage.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}
