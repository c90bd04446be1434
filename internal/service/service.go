// Package service implements the use cases of the chat and web applications
// on top of the repositories. Handlers only translate HTTP to these calls.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"hearth/internal/moderation"
	"hearth/internal/repository"
	"hearth/internal/storage"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("conflict")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrProfileLimit     = errors.New("profile limit reached")
	ErrLastProfile      = errors.New("cannot delete the last profile")
	ErrNotFriends       = errors.New("not friends")
	ErrTooLarge         = errors.New("upload too large")
	ErrUnsupportedMedia = storage.ErrUnsupportedMedia
	ErrTimedOut         = moderation.ErrTimedOut
	ErrQuietHours       = moderation.ErrQuietHours
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var tracer = otel.Tracer("hearth/service")

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// notFound maps a missing row to ErrNotFound and passes anything else through.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}

// conflict maps repository write races onto ErrConflict.
func conflict(err error, what string) error {
	if errors.Is(err, repository.ErrDuplicate) || errors.Is(err, repository.ErrStale) {
		return fmt.Errorf("%w: %s", ErrConflict, what)
	}
	return err
}

// Page is a page of results with its total count.
type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func pageQuery(limit, offset int) repository.PageQuery {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return repository.PageQuery{Limit: limit, Offset: offset}
}

func toPage[T any](res *repository.PageResult[T], pq repository.PageQuery) *Page[T] {
	items := res.Items
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Total: res.Total, Limit: pq.Limit, Offset: pq.Offset}
}
