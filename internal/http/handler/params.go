package handler

import (
	"io"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hearth/internal/auth"
	"hearth/internal/http/middleware"
	"hearth/internal/service"
)

// pagination reads the limit and offset query params. Out of range values are
// clamped by the services; non-numbers get a 400 and ok is false.
func pagination(c *fiber.Ctx) (limit, offset int, ok bool) {
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil {
		_ = writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		return 0, 0, false
	}
	offset, err = strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		_ = writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		return 0, 0, false
	}
	return limit, offset, true
}

// idParam returns the named path param when it is a UUID. Otherwise the 400
// response is already written and ok is false.
func idParam(c *fiber.Ctx, name string) (string, bool) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		_ = writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		return "", false
	}
	return id, true
}

func session(c *fiber.Ctx) auth.Session {
	s, _ := middleware.SessionFrom(c)
	return s
}

// formMedia opens the multipart file under field. The content type is sniffed
// from the bytes, never taken from the client. A nil Media means the field was
// absent. The caller closes the returned Closer.
func formMedia(c *fiber.Ctx, field string) (*service.Media, io.Closer, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	mt, err := mimetype.DetectReader(f)
	if err == nil {
		_, err = f.Seek(0, io.SeekStart)
	}
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return &service.Media{ContentType: mt.String(), Size: fh.Size, Body: f}, f, nil
}
