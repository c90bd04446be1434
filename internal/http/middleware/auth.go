package middleware

import (
	"context"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"hearth/internal/auth"
)

// SessionLocalKey is where Authenticate stores the verified auth.Session.
const SessionLocalKey = "session"

// Verifier checks a session token. service.SessionService satisfies it.
type Verifier interface {
	Verify(ctx context.Context, token string) (auth.Session, error)
}

// Authenticate reads the session token from the cookie named cookieName, or
// from an "Authorization: Bearer" header, and rejects the request with 401
// when it is missing, invalid or revoked.
func Authenticate(v Verifier, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			if h := c.Get(fiber.HeaderAuthorization); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
				token = strings.TrimSpace(h[7:])
			}
		}
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		sess, err := v.Verify(c.UserContext(), token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired session")
		}
		c.Locals(SessionLocalKey, sess)
		return c.Next()
	}
}

// RequireRole lets the request through only when the session has one of roles.
// It must run after Authenticate.
func RequireRole(roles ...auth.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := SessionFrom(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		if !slices.Contains(roles, sess.Role) {
			return fiber.NewError(fiber.StatusForbidden, "not allowed for this account")
		}
		return c.Next()
	}
}

// SessionFrom returns the session stored by Authenticate.
func SessionFrom(c *fiber.Ctx) (auth.Session, bool) {
	s, ok := c.Locals(SessionLocalKey).(auth.Session)
	return s, ok
}
