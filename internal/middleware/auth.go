// Package middleware holds the fiber handlers that run around every route:
// authentication, role checks, request logging, metrics and timeouts.
package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/badsession/badsession/internal/apperr"
	"github.com/badsession/badsession/internal/auth"
	"github.com/badsession/badsession/internal/models"
)

// claimsKey is the fiber locals key holding the verified *auth.Claims.
const claimsKey = "auth_claims"

// Claims returns the verified token claims of the request, or nil before
// RequireAuth has run.
func Claims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(claimsKey).(*auth.Claims)
	return claims
}

// UserID returns the authenticated user ID, or 0 if unauthenticated.
func UserID(c *fiber.Ctx) int64 {
	if claims := Claims(c); claims != nil {
		return claims.UserID
	}
	return 0
}

// RequireAuth returns a handler that validates the bearer token and stores
// its claims on the request.
func RequireAuth(jwtManager *auth.JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperr.Authentication(auth.ErrMissingToken.Error())
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return apperr.Authentication(auth.ErrInvalidToken.Error())
		}

		claims, err := jwtManager.Validate(strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				return apperr.Authentication("invalid or expired token")
			}
			return apperr.Internal("failed to verify token", err)
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// RequireRole returns a handler that only lets the given roles through.
// It must run after RequireAuth.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return apperr.Authentication(auth.ErrMissingToken.Error())
		}
		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}
		return apperr.Authorization("insufficient permissions")
	}
}
