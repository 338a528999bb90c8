package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appauth "github.com/cchuang/regent/internal/app/auth"
	"github.com/cchuang/regent/internal/app/models/dto"
	pkgauth "github.com/cchuang/regent/internal/pkg/auth"
)

// identityKey is the gin context key the resolved identity lives under.
const identityKey = "identity"

// AuthMiddleware resolves the caller's identity from the session token
type AuthMiddleware struct {
	jwtService *pkgauth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *pkgauth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// Authenticate resolves the request's identity once and stores it in the
// context. A missing Authorization header yields the anonymous identity and
// the request proceeds; the services answer with an auth-required error for
// anything anonymous may not do. A header that is present but unusable is
// rejected here, so an expired session never silently degrades to anonymous.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(identityKey, appauth.Anonymous)
			c.Next()
			return
		}

		tokenString, err := pkgauth.ExtractBearerToken(authHeader)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid authorization header")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, pkgauth.ErrExpiredToken) {
				abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Session expired")
				return
			}
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid session token")
			return
		}

		c.Set(identityKey, appauth.FromClaims(claims))
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}

// IdentityFromContext returns the identity Authenticate stored, anonymous
// when the middleware did not run.
func IdentityFromContext(c *gin.Context) appauth.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(appauth.Identity); ok {
			return id
		}
	}
	return appauth.Anonymous
}
