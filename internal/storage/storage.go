package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Package storage keeps uploaded media (avatars, post attachments, album
// photos) in an S3-compatible bucket. Objects are streamed, never spooled to disk.

// ErrUnsupportedMedia is returned for content types the web app does not accept.
var ErrUnsupportedMedia = errors.New("unsupported media type")

// Kind groups objects by what they belong to; it becomes the key prefix.
type Kind string

const (
	KindAvatar Kind = "avatars"
	KindPost   Kind = "posts"
	KindAlbum  Kind = "albums"
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"video/mp4":  ".mp4",
}

// Upload describes a media object to store.
type Upload struct {
	Kind        Kind
	OwnerID     string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Object is what the store reports back about a stored object.
type Object struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// Store is the object storage used by the web application.
type Store interface {
	Put(ctx context.Context, u Upload) (Object, error)
	Get(ctx context.Context, key string) (io.ReadCloser, Object, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL for key.
	PresignGet(ctx context.Context, key string) (string, error)
}

// NewKey builds an object key such as "avatars/<owner>/<uuid>.png".
// The content type must be one of the accepted media types.
func NewKey(kind Kind, ownerID, contentType string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := extensions[ct]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMedia, contentType)
	}
	if kind == KindAvatar && !strings.HasPrefix(ct, "image/") {
		return "", fmt.Errorf("%w: avatars must be images", ErrUnsupportedMedia)
	}
	return path.Join(string(kind), ownerID, uuid.NewString()+ext), nil
}
