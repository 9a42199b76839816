package auth

import (
	"testing"
	"time"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        2,
	})
}

func newTestInput() GenerateTokenInput {
	return GenerateTokenInput{
		UserID:  uuid.New(),
		Email:   "thor@example.com",
		Role:    access.RoleMember,
		Country: access.CountryIndia,
	}
}

func TestNewJWTService_UsesSecretForRefreshIfNotProvided(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test-secret"})
	assert.Equal(t, []byte("test-secret"), svc.keys[TokenTypeRefresh])
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestValidateAccessToken(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, "thor@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.RemainingTTL() > 14*time.Minute)

	p, err := claims.Principal()
	require.NoError(t, err)
	assert.Equal(t, access.NewPrincipal(input.UserID, access.RoleMember, access.CountryIndia), p)
}

func TestValidateAccessToken_Failures(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	t.Run("refresh token is not an access token", func(t *testing.T) {
		_, err := NewJWTService(config.JWTConfig{Secret: "same", Issuer: "test-issuer", AccessTokenExpiration: time.Minute, RefreshTokenExpiration: time.Hour}).
			ValidateAccessToken(mustRefresh(t, "same"))
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "another-secret", Issuer: "test-issuer"})
		_, err := other.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "test-secret-key-at-least-32-chars", Issuer: "someone-else"})
		_, err := other.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-at-least-32-chars",
			Issuer:                 "test-issuer",
			AccessTokenExpiration:  -time.Minute,
			RefreshTokenExpiration: time.Hour,
		})
		p, err := expired.GenerateTokenPair(newTestInput())
		require.NoError(t, err)
		_, err = expired.ValidateAccessToken(p.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestValidate_Leeway(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		Issuer:                 "test-issuer",
		AccessTokenExpiration:  -10 * time.Second,
		RefreshTokenExpiration: time.Hour,
		Leeway:                 time.Minute,
	}
	pair, err := NewJWTService(cfg).GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	claims, err := NewJWTService(cfg).ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Zero(t, claims.RemainingTTL())
	assert.WithinDuration(t, time.Now(), claims.IssuedTime(), 2*time.Second)

	cfg.Leeway = 0
	_, err = NewJWTService(cfg).ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidate_RejectsOtherAlgorithms(t *testing.T) {
	svc := newTestJWTService()
	claims := &Claims{UserID: uuid.NewString(), TokenType: TokenTypeAccess}
	claims.Issuer = "test-issuer"
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret-key-at-least-32-chars"))
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func mustRefresh(t *testing.T, secret string) string {
	t.Helper()
	svc := NewJWTService(config.JWTConfig{Secret: secret, Issuer: "test-issuer", AccessTokenExpiration: time.Minute, RefreshTokenExpiration: time.Hour})
	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)
	return pair.RefreshToken
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	t.Run("carries updated role", func(t *testing.T) {
		promoted := input
		promoted.Role = access.RoleManager

		next, err := svc.RefreshTokenPair(pair.RefreshToken, promoted)
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(next.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "MANAGER", claims.Role)

		refreshClaims, err := svc.ValidateRefreshToken(next.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, 1, refreshClaims.RefreshCount)
	})

	t.Run("rejects another user", func(t *testing.T) {
		other := newTestInput()
		_, err := svc.RefreshTokenPair(pair.RefreshToken, other)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("enforces max refresh count", func(t *testing.T) {
		token := pair.RefreshToken
		for i := 0; i < 2; i++ {
			next, err := svc.RefreshTokenPair(token, input)
			require.NoError(t, err)
			token = next.RefreshToken
		}
		_, err := svc.RefreshTokenPair(token, input)
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})

	t.Run("access token cannot refresh", func(t *testing.T) {
		_, err := svc.RefreshTokenPair(pair.AccessToken, input)
		assert.Error(t, err)
	})
}

func TestClaims_Principal_Invalid(t *testing.T) {
	claims := &Claims{UserID: uuid.NewString(), Role: "OWNER", Country: "INDIA"}
	_, err := claims.Principal()
	assert.ErrorIs(t, err, ErrInvalidClaims)

	claims = &Claims{UserID: "nope", Role: "ADMIN", Country: "INDIA"}
	_, err = claims.Principal()
	assert.ErrorIs(t, err, ErrInvalidClaims)
}
