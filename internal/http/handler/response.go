package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"hearth/internal/http/middleware"
	"hearth/internal/service"
	"hearth/internal/validation"
)

// envelope is the body of every JSON response of both applications.
type envelope struct {
	Success   bool           `json:"success"`
	RequestID string         `json:"request_id,omitempty"`
	Data      any            `json:"data,omitempty"`
	Error     *errorEnvelope `json:"error,omitempty"`
}

type errorEnvelope struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(envelope{Success: true, Data: data})
}

// writeError writes the standardized error envelope.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(envelope{
		RequestID: middleware.GetRequestID(c),
		Error:     &errorEnvelope{Code: code, Message: message},
	})
}

type mapped struct {
	target  error
	status  int
	code    string
	message string
}

// errorTable maps service sentinels to HTTP. Order matters only for errors
// that wrap more than one sentinel.
var errorTable = []mapped{
	{service.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT", ""},
	{service.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials"},
	{service.ErrNotFriends, fiber.StatusForbidden, "NOT_FRIENDS", "you can only message accepted friends"},
	{service.ErrTimedOut, fiber.StatusForbidden, "TIMED_OUT", "messaging is paused by a timeout"},
	{service.ErrQuietHours, fiber.StatusForbidden, "QUIET_HOURS", "messaging is paused during quiet hours"},
	{service.ErrProfileLimit, fiber.StatusForbidden, "PROFILE_LIMIT", ""},
	{service.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "forbidden"},
	{service.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", ""},
	{service.ErrLastProfile, fiber.StatusConflict, "LAST_PROFILE", "cannot delete the last profile"},
	{service.ErrConflict, fiber.StatusConflict, "CONFLICT", ""},
	{service.ErrTooLarge, fiber.StatusRequestEntityTooLarge, "TOO_LARGE", "upload too large"},
	{service.ErrUnsupportedMedia, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA", ""},
}

// fail translates err into the error envelope. Only messages of known
// client errors reach the response; anything else becomes a 500.
func fail(c *fiber.Ctx, err error) error {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(envelope{
			RequestID: middleware.GetRequestID(c),
			Error:     &errorEnvelope{Code: "INVALID_INPUT", Message: "validation failed", Fields: verrs},
		})
	}
	if errors.Is(err, validation.ErrMalformedBody) {
		return writeError(c, fiber.StatusBadRequest, "MALFORMED_BODY", "request body is not valid")
	}
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			msg := m.message
			if msg == "" {
				msg = err.Error()
			}
			return writeError(c, m.status, m.code, msg)
		}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return writeFiberError(c, fe)
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

func writeFiberError(c *fiber.Ctx, fe *fiber.Error) error {
	switch fe.Code {
	case fiber.StatusBadRequest:
		return writeError(c, fe.Code, "BAD_REQUEST", "bad request")
	case fiber.StatusUnauthorized:
		return writeError(c, fe.Code, "UNAUTHORIZED", fe.Message)
	case fiber.StatusForbidden:
		return writeError(c, fe.Code, "FORBIDDEN", fe.Message)
	case fiber.StatusNotFound:
		return writeError(c, fe.Code, "NOT_FOUND", "resource not found")
	case fiber.StatusMethodNotAllowed:
		return writeError(c, fe.Code, "METHOD_NOT_ALLOWED", "method not allowed")
	case fiber.StatusRequestEntityTooLarge:
		return writeError(c, fe.Code, "TOO_LARGE", "request body too large")
	}
	if fe.Code < fiber.StatusInternalServerError {
		return writeError(c, fe.Code, "BAD_REQUEST", fe.Message)
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler is the fiber global error handler. Errors that escape a
// handler (routing misses, middleware rejections, panics) get the same
// envelope as errors handled inline.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return fail(c, err)
	}
}
