package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"hearth/internal/auth"
	"hearth/internal/service"
)

// SessionCookie configures the HttpOnly cookie that carries the session token.
type SessionCookie struct {
	Name   string
	Secure bool
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type childLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      auth.Role `json:"role"`
	Account   any       `json:"account"`
}

// startSession issues a token for subjectID, sets the cookie and writes the
// token with the account in the body.
func startSession(c *fiber.Ctx, sessions service.SessionService, cookie SessionCookie, status int, subjectID string, role auth.Role, account any) error {
	token, sess, err := sessions.Start(subjectID, role)
	if err != nil {
		return fail(c, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HTTPOnly: true,
		Secure:   cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return respond(c, status, sessionResponse{Token: token, ExpiresAt: sess.ExpiresAt, Role: role, Account: account})
}

// endSession revokes the current token and clears the cookie.
func endSession(c *fiber.Ctx, sessions service.SessionService, cookie SessionCookie) error {
	if err := sessions.End(c.UserContext(), session(c)); err != nil {
		return fail(c, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.SendStatus(fiber.StatusNoContent)
}
