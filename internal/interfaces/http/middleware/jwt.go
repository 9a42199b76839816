package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/infrastructure/auth"
	"github.com/foodorder/backend/internal/infrastructure/logger"
	"github.com/foodorder/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gin context keys set by Authenticate
const (
	JWTClaimsKey = "jwt_claims"
	PrincipalKey = "principal"
	UserIDKey    = "user_id"
)

const (
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

var (
	errMissingAuthHeader = errors.New("missing authorization header")
	errSessionRevoked    = errors.New("user sessions revoked")
)

// AuthConfig configures Authenticate
type AuthConfig struct {
	JWTService *auth.JWTService
	// TokenBlacklist is consulted after the signature check when set
	TokenBlacklist auth.TokenBlacklist
	// PublicPaths are served without a token
	PublicPaths []string
	// PublicPrefixes are path prefixes served without a token
	PublicPrefixes []string
	Logger         *zap.Logger
}

// DefaultAuthConfig leaves health checks, register, login, refresh and the
// swagger UI public
func DefaultAuthConfig(jwtService *auth.JWTService) AuthConfig {
	return AuthConfig{
		JWTService: jwtService,
		PublicPaths: []string{
			"/health",
			"/api/v1/health",
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		PublicPrefixes: []string{"/swagger"},
		Logger:         zap.NewNop(),
	}
}

// Authenticate requires a valid access token using DefaultAuthConfig
func Authenticate(jwtService *auth.JWTService) gin.HandlerFunc {
	return AuthenticateWithConfig(DefaultAuthConfig(jwtService))
}

// AuthenticateWithConfig validates the bearer token and stores the claims
// and the caller's principal on the gin context. Role and country are read
// from the token, so a role change reaches requests only after the user's
// earlier tokens are revoked.
func AuthenticateWithConfig(cfg AuthConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	public := make(map[string]struct{}, len(cfg.PublicPaths))
	for _, p := range cfg.PublicPaths {
		public[p] = struct{}{}
	}
	isPublic := func(path string) bool {
		if _, ok := public[path]; ok {
			return true
		}
		for _, prefix := range cfg.PublicPrefixes {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
		return false
	}

	return func(c *gin.Context) {
		if isPublic(c.Request.URL.Path) {
			c.Next()
			return
		}

		token, err := bearerToken(c.GetHeader(AuthHeaderKey))
		if err != nil {
			rejectAuth(c, cfg.Logger, err)
			return
		}
		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			rejectAuth(c, cfg.Logger, err)
			return
		}
		if err := checkRevocation(c.Request.Context(), cfg, claims); err != nil {
			rejectAuth(c, cfg.Logger, err)
			return
		}
		principal, err := claims.Principal()
		if err != nil {
			rejectAuth(c, cfg.Logger, err)
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(PrincipalKey, principal)
		c.Set(UserIDKey, claims.UserID)

		ctx := c.Request.Context()
		ctx, _ = logger.WithPrincipal(ctx, logger.FromContext(ctx), claims.UserID, string(principal.Role), string(principal.Country))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// bearerToken extracts the credentials of a Bearer authorization header.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingAuthHeader
	}
	scheme, token, _ := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, strings.TrimSpace(BearerPrefix)) {
		return "", auth.ErrInvalidToken
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", auth.ErrInvalidToken
	}
	return token, nil
}

// checkRevocation consults the blacklist. Blacklist errors are logged and
// the request proceeds, so a Redis outage does not lock every user out.
func checkRevocation(ctx context.Context, cfg AuthConfig, claims *auth.Claims) error {
	if cfg.TokenBlacklist == nil {
		return nil
	}

	if claims.ID != "" {
		revoked, err := cfg.TokenBlacklist.IsBlacklisted(ctx, claims.ID)
		switch {
		case err != nil:
			cfg.Logger.Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
		case revoked:
			return auth.ErrTokenBlacklisted
		}
	}

	invalidated, err := cfg.TokenBlacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedTime())
	switch {
	case err != nil:
		cfg.Logger.Error("Failed to check user token invalidation", zap.String("user_id", claims.UserID), zap.Error(err))
	case invalidated:
		return errors.Join(auth.ErrTokenBlacklisted, errSessionRevoked)
	}
	return nil
}

// authRejection is the 401 body for one class of failure
type authRejection struct {
	cause   error
	code    string
	message string
}

// authRejections is matched in order; the first cause found in the error wins
var authRejections = []authRejection{
	{errSessionRevoked, dto.ErrCodeTokenRevoked, "User session has been invalidated"},
	{auth.ErrTokenBlacklisted, dto.ErrCodeTokenRevoked, "Token has been revoked"},
	{auth.ErrExpiredToken, dto.ErrCodeTokenExpired, "Token has expired"},
	{auth.ErrInvalidToken, dto.ErrCodeTokenInvalid, "Invalid token"},
	{auth.ErrInvalidTokenType, dto.ErrCodeTokenInvalid, "Invalid token"},
	{auth.ErrInvalidClaims, dto.ErrCodeTokenInvalid, "Invalid token"},
	{auth.ErrMissingUserID, dto.ErrCodeTokenInvalid, "Invalid token"},
	{auth.ErrTokenNotYetValid, dto.ErrCodeTokenInvalid, "Invalid token"},
}

func rejectAuth(c *gin.Context, log *zap.Logger, err error) {
	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	for _, r := range authRejections {
		if errors.Is(err, r.cause) {
			code, message = r.code, r.message
			break
		}
	}

	log.Warn("Authentication failed",
		zap.Error(err),
		zap.String("code", code),
		zap.String("path", c.Request.URL.Path),
	)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, c.GetString(RequestIDContextKey)))
}

// GetJWTClaims returns the validated claims, or nil on public routes
func GetJWTClaims(c *gin.Context) *auth.Claims {
	v, _ := c.Get(JWTClaimsKey)
	claims, _ := v.(*auth.Claims)
	return claims
}

// GetPrincipal returns the authenticated caller
func GetPrincipal(c *gin.Context) (access.Principal, bool) {
	v, _ := c.Get(PrincipalKey)
	p, ok := v.(access.Principal)
	return p, ok
}
