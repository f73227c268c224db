package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/identity"
	"github.com/mead/backend/internal/domain/shared"
	"github.com/mead/backend/internal/infrastructure/auth"
	"github.com/mead/backend/internal/infrastructure/logger"
	"github.com/mead/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Auth context keys
const (
	JWTClaimsKey    = "jwt_claims"
	JWTAccountIDKey = "jwt_account_id"
	JWTRoleKey      = "jwt_role"
	AuthHeaderKey   = "Authorization"
	BearerPrefix    = "Bearer "
)

// AuthConfig holds configuration for the authentication middleware
type AuthConfig struct {
	JWTService *auth.JWTService
	// SkipPaths are exact paths served without a token
	SkipPaths []string
	Logger    *zap.Logger
}

// DefaultAuthConfig returns the authentication configuration used by the server
func DefaultAuthConfig(jwtService *auth.JWTService, log *zap.Logger) AuthConfig {
	return AuthConfig{
		JWTService: jwtService,
		SkipPaths:  []string{"/health", "/api/v1/health"},
		Logger:     log,
	}
}

// Auth validates the bearer token and stores the caller's account ID and
// role on the request
func Auth(cfg AuthConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		if slices.Contains(cfg.SkipPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		token, ok := strings.CutPrefix(header, BearerPrefix)
		if !ok || token == "" {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			abortUnauthorized(c, cfg, err, "Token validation failed")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTAccountIDKey, claims.AccountID)
		c.Set(JWTRoleKey, claims.Role)

		ctx, _ := logger.WithAccountID(c.Request.Context(), logger.FromContext(c.Request.Context()), claims.AccountID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, cfg AuthConfig, err error, reason string) {
	cfg.Logger.Debug("authentication failed",
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)

	code, message := shared.CodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType), errors.Is(err, auth.ErrInvalidClaims):
		code, message = dto.ErrCodeTokenInvalid, "Invalid token"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// RequireRole rejects callers whose role does not satisfy allowed
func RequireRole(allowed func(identity.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allowed(GetRole(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				shared.CodeForbidden, "Your role does not allow this action", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

// RequireSeller admits sellers and administrators
func RequireSeller() gin.HandlerFunc {
	return RequireRole(identity.Role.CanSell)
}

// RequireAdmin admits administrators only
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(identity.Role.IsAdmin)
}

// GetClaims retrieves the validated token claims
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetAccountID returns the authenticated account ID, or uuid.Nil
func GetAccountID(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.GetString(JWTAccountIDKey))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// GetRole returns the authenticated role, or the empty role
func GetRole(c *gin.Context) identity.Role {
	if v, ok := c.Get(JWTRoleKey); ok {
		if role, ok := v.(identity.Role); ok {
			return role
		}
	}
	return ""
}
