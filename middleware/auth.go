package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"Workspace/Config"
)

const (
	RoleLead   = "private"
	RoleMember = "public"

	cookieName = "jwt"
)

// IssueSession creates a signed session cookie carrying the role the
// passcode mapped to. The role is client-held from then on; only the two
// passcode literals are ever re-checked server-side (on /api/sync), so this
// is a coarse admission check rather than a security boundary.
func IssueSession(c *fiber.Ctx, role string) error {
	claims := jwt.RegisteredClaims{
		Subject:   role,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(Config.JWTSecret()))
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    signed,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
	})
	return nil
}

// ClearSession expires the session cookie.
func ClearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
}

// Verify gates a route on a logged-in session. With requiredRole RoleLead
// only lead sessions pass; with RoleMember any valid session passes.
func Verify(requiredRole string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies(cookieName)
		if cookie == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Not logged in",
			})
		}

		token, err := jwt.ParseWithClaims(cookie, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			return []byte(Config.JWTSecret()), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired session",
			})
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid session claims",
			})
		}

		role := claims.Subject
		if role != RoleLead && role != RoleMember {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unknown role",
			})
		}

		if requiredRole == RoleLead && role != RoleLead {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "This action requires lead access",
			})
		}

		c.Locals("role", role)
		return c.Next()
	}
}
