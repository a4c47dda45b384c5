package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Chawketodeh/eventy-events-platform/internal/models"
	"github.com/Chawketodeh/eventy-events-platform/internal/policy"
	jwtPkg "github.com/Chawketodeh/eventy-events-platform/pkg/jwt"
)

const (
	actorKey   = "actor"
	profileKey = "profile"
)

// TokenVerifier checks a Clerk session token.
type TokenVerifier interface {
	Verify(token string) (*jwtPkg.Claims, error)
}

// AuthMiddleware reads the bearer token when one is sent and stores the
// resulting actor. Requests without a token pass through anonymously; a bad
// token is rejected.
func AuthMiddleware(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Next()
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid authorization header format"))
		}
		if verifier == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Authentication is not configured"))
		}

		claims, err := verifier.Verify(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid token"))
		}

		c.Locals(actorKey, policy.Actor{
			ClerkID: claims.Subject,
			IsAdmin: claims.IsAdmin(),
		})
		c.Locals(profileKey, models.IdentityUser{
			ClerkID:   claims.Subject,
			Email:     claims.Email,
			Username:  claims.Username,
			FirstName: claims.FirstName,
			LastName:  claims.LastName,
			Photo:     claims.ImageURL,
		})
		return c.Next()
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !Actor(c).Authenticated() {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Authorization header is required"))
		}
		return c.Next()
	}
}

// Actor returns the request actor, the zero Actor for anonymous requests.
func Actor(c *fiber.Ctx) policy.Actor {
	actor, _ := c.Locals(actorKey).(policy.Actor)
	return actor
}

// Profile returns the identity claims of the caller.
func Profile(c *fiber.Ctx) models.IdentityUser {
	profile, _ := c.Locals(profileKey).(models.IdentityUser)
	return profile
}
