package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/travel/backend/internal/domain/identity"
	"github.com/travel/backend/internal/domain/shared"
	"github.com/travel/backend/internal/infrastructure/auth"
	"github.com/travel/backend/internal/infrastructure/logger"
	"github.com/travel/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	PrincipalKey  = "principal"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// Revocations is optional; when set revoked tokens are rejected
	Revocations auth.RevocationList
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultJWTConfig returns default JWT middleware configuration
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths:  []string{"/health", "/api/v1/health"},
		Logger:     zap.NewNop(),
	}
}

// JWTAuthMiddleware verifies the bearer token and stores the caller's
// Principal in the gin context.
func JWTAuthMiddleware(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		for _, skipPath := range cfg.SkipPaths {
			if c.Request.URL.Path == skipPath {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthenticated(c, cfg, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		tokenString, ok := strings.CutPrefix(authHeader, BearerPrefix)
		if !ok || tokenString == "" {
			abortUnauthenticated(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			abortUnauthenticated(c, cfg, err, "Token validation failed")
			return
		}

		if cfg.Revocations != nil && revoked(c, cfg, claims) {
			abortUnauthenticated(c, cfg, auth.ErrTokenRevoked, "Token has been revoked")
			return
		}

		principal, err := claims.Principal()
		if err != nil {
			abortUnauthenticated(c, cfg, err, "Token claims do not describe a caller")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(PrincipalKey, principal)
		c.Request = c.Request.WithContext(
			logger.WithPrincipal(c.Request.Context(), principal.ID, principal.Office()),
		)
		c.Next()
	}
}

// revoked checks the token id and the user-wide revocation. Lookup failures
// are logged and let the request through so a Redis outage does not lock
// every caller out.
func revoked(c *gin.Context, cfg JWTMiddlewareConfig, claims *auth.Claims) bool {
	ctx := c.Request.Context()
	if claims.ID != "" {
		isRevoked, err := cfg.Revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			logger.For(ctx, cfg.Logger).Error("Failed to check token revocation",
				zap.String("jti", claims.ID), zap.Error(err))
		} else if isRevoked {
			return true
		}
	}
	isRevoked, err := cfg.Revocations.IsUserRevoked(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		logger.For(ctx, cfg.Logger).Error("Failed to check user revocation",
			zap.Int64("user_id", claims.UserID), zap.Error(err))
		return false
	}
	return isRevoked
}

func abortUnauthenticated(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	logger.For(c.Request.Context(), cfg.Logger).Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("reason", message),
		zap.String("path", c.Request.URL.Path),
	)

	code := dto.ErrCodeTokenInvalid
	errorMessage := "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code = dto.ErrCodeTokenExpired
		errorMessage = "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		code = dto.ErrCodeTokenRevoked
		errorMessage = "Token has been revoked"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorInfo{
		Kind:      string(shared.KindUnauthenticated),
		Code:      code,
		Message:   errorMessage,
		RequestID: GetRequestID(c),
	}))
}

// GetPrincipal returns the authenticated caller, nil when absent
func GetPrincipal(c *gin.Context) *identity.Principal {
	if v, exists := c.Get(PrincipalKey); exists {
		if p, ok := v.(*identity.Principal); ok {
			return p
		}
	}
	return nil
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(JWTClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
