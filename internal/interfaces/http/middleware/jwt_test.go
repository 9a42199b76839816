package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/infrastructure/auth"
	"github.com/foodorder/backend/internal/infrastructure/config"
	"github.com/foodorder/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	}
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(newTestJWTConfig())
}

func newTestTokenPair(t *testing.T, svc *auth.JWTService, role access.Role, country access.Country) (*auth.TokenPair, auth.GenerateTokenInput) {
	t.Helper()
	input := auth.GenerateTokenInput{
		UserID:  uuid.New(),
		Email:   "nick@example.com",
		Role:    role,
		Country: country,
	}
	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)
	return pair, input
}

func serveWithToken(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestAuthenticate_ValidToken(t *testing.T) {
	svc := newTestJWTService()
	pair, input := newTestTokenPair(t, svc, access.RoleManager, access.CountryIndia)

	router := gin.New()
	router.Use(Authenticate(svc))
	router.GET("/test", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, input.UserID.String(), claims.UserID)

		p, ok := GetPrincipal(c)
		require.True(t, ok)
		assert.Equal(t, access.NewPrincipal(input.UserID, access.RoleManager, access.CountryIndia), p)
		assert.Equal(t, input.UserID.String(), c.GetString(UserIDKey))
		c.Status(http.StatusOK)
	})

	rec := serveWithToken(router, "/test", pair.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticate_Rejections(t *testing.T) {
	svc := newTestJWTService()
	pair, _ := newTestTokenPair(t, svc, access.RoleMember, access.CountryAmerica)

	expiredCfg := newTestJWTConfig()
	expiredCfg.AccessTokenExpiration = -time.Minute
	expiredPair, _ := newTestTokenPair(t, auth.NewJWTService(expiredCfg), access.RoleMember, access.CountryAmerica)

	router := gin.New()
	router.Use(Authenticate(svc))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"wrong scheme", "Basic abc", dto.ErrCodeTokenInvalid},
		{"empty bearer", "Bearer ", dto.ErrCodeTokenInvalid},
		{"garbage token", "Bearer not.a.jwt", dto.ErrCodeTokenInvalid},
		{"expired token", "Bearer " + expiredPair.AccessToken, dto.ErrCodeTokenExpired},
		{"refresh token as access", "Bearer " + pair.RefreshToken, dto.ErrCodeTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestAuthenticate_InvalidPrincipalClaims(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:  uuid.New(),
		Email:   "x@example.com",
		Role:    access.Role("JANITOR"),
		Country: access.CountryIndia,
	})
	require.NoError(t, err)

	router := gin.New()
	router.Use(Authenticate(svc))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serveWithToken(router, "/test", pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeTokenInvalid, decodeError(t, rec).Code)
}

func TestAuthenticate_SkipPaths(t *testing.T) {
	router := gin.New()
	router.Use(Authenticate(newTestJWTService()))
	for _, path := range []string{"/health", "/api/v1/auth/login", "/api/v1/auth/register", "/api/v1/auth/refresh", "/swagger/index.html"} {
		router.GET(path, func(c *gin.Context) { c.Status(http.StatusOK) })
	}

	for _, path := range []string{"/health", "/api/v1/auth/login", "/api/v1/auth/register", "/api/v1/auth/refresh", "/swagger/index.html"} {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, http.StatusOK, serveWithToken(router, path, "").Code)
		})
	}
}

func TestAuthenticate_Blacklist(t *testing.T) {
	svc := newTestJWTService()

	t.Run("revoked jti", func(t *testing.T) {
		pair, _ := newTestTokenPair(t, svc, access.RoleAdmin, access.CountryIndia)
		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		bl := auth.NewInMemoryTokenBlacklist()
		require.NoError(t, bl.AddToBlacklist(context.Background(), claims.ID, time.Minute))

		router := gin.New()
		router.Use(AuthenticateWithConfig(AuthConfig{JWTService: svc, TokenBlacklist: bl}))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		rec := serveWithToken(router, "/test", pair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		info := decodeError(t, rec)
		assert.Equal(t, dto.ErrCodeTokenRevoked, info.Code)
		assert.Equal(t, "Token has been revoked", info.Message)
	})

	t.Run("user sessions invalidated", func(t *testing.T) {
		pair, input := newTestTokenPair(t, svc, access.RoleMember, access.CountryIndia)

		bl := auth.NewInMemoryTokenBlacklist()
		require.NoError(t, bl.AddUserTokensToBlacklist(context.Background(), input.UserID.String(), time.Hour))

		router := gin.New()
		router.Use(AuthenticateWithConfig(AuthConfig{JWTService: svc, TokenBlacklist: bl}))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		rec := serveWithToken(router, "/test", pair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "User session has been invalidated", decodeError(t, rec).Message)
	})

	t.Run("blacklist outage fails open", func(t *testing.T) {
		pair, _ := newTestTokenPair(t, svc, access.RoleMember, access.CountryIndia)

		router := gin.New()
		router.Use(AuthenticateWithConfig(AuthConfig{JWTService: svc, TokenBlacklist: brokenBlacklist{}}))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		assert.Equal(t, http.StatusOK, serveWithToken(router, "/test", pair.AccessToken).Code)
	})
}

type brokenBlacklist struct{}

var errBlacklistDown = errors.New("redis: connection refused")

func (brokenBlacklist) AddToBlacklist(context.Context, string, time.Duration) error {
	return errBlacklistDown
}

func (brokenBlacklist) IsBlacklisted(context.Context, string) (bool, error) {
	return false, errBlacklistDown
}

func (brokenBlacklist) AddUserTokensToBlacklist(context.Context, string, time.Duration) error {
	return errBlacklistDown
}

func (brokenBlacklist) IsUserTokenInvalidated(context.Context, string, time.Time) (bool, error) {
	return false, errBlacklistDown
}

func (brokenBlacklist) Close() error { return nil }

func TestGetPrincipal_NotSet(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := GetPrincipal(c)
	assert.False(t, ok)
	assert.Nil(t, GetJWTClaims(c))

	c.Set(PrincipalKey, "not a principal")
	_, ok = GetPrincipal(c)
	assert.False(t, ok)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"bearer abc.def.ghi", "abc.def.ghi", nil},
		{"BEARER  abc.def.ghi ", "abc.def.ghi", nil},
		{"", "", errMissingAuthHeader},
		{"Bearer", "", auth.ErrInvalidToken},
		{"Token abc", "", auth.ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := bearerToken(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthenticate_PublicPrefixes(t *testing.T) {
	cfg := DefaultAuthConfig(newTestJWTService())
	cfg.PublicPaths = nil
	cfg.PublicPrefixes = []string{"/docs/"}

	router := gin.New()
	router.Use(AuthenticateWithConfig(cfg))
	router.GET("/docs/openapi.json", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serveWithToken(router, "/docs/openapi.json", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serveWithToken(router, "/health", "").Code)
}
