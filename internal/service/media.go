package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"hearth/internal/storage"
)

// Media is an uploaded file on its way to object storage.
type Media struct {
	ContentType string
	Size        int64
	Body        io.Reader
}

// mediaStore wraps the object store with the upload size limit and URL signing.
type mediaStore struct {
	store    storage.Store
	maxBytes int64
	log      zerolog.Logger
}

func (m mediaStore) put(ctx context.Context, kind storage.Kind, ownerID string, media *Media) (string, error) {
	if media == nil || media.Body == nil {
		return "", invalidf("file is required")
	}
	if m.maxBytes > 0 && media.Size > m.maxBytes {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, m.maxBytes)
	}
	obj, err := m.store.Put(ctx, storage.Upload{
		Kind:        kind,
		OwnerID:     ownerID,
		ContentType: media.ContentType,
		Size:        media.Size,
		Body:        media.Body,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedMedia) {
			return "", err
		}
		return "", fmt.Errorf("upload to storage: %w", err)
	}
	return obj.Key, nil
}

// remove deletes an object that is no longer referenced; failures only leave garbage behind.
func (m mediaStore) remove(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := m.store.Delete(ctx, key); err != nil {
		m.log.Warn().Err(err).Str("event", "media_delete_failed").Str("key", key).Msg("orphaned media object")
	}
}

// url presigns key; an empty key or a signing failure yields "".
func (m mediaStore) url(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}
	u, err := m.store.PresignGet(ctx, key)
	if err != nil {
		m.log.Warn().Err(err).Str("event", "presign_failed").Str("key", key).Msg("media url unavailable")
		return ""
	}
	return u
}
