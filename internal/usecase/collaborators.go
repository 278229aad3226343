package usecase

import (
	"context"
	"io"
)

// Notifier publishes realtime events to the live connections of the given
// users. Implementations must be fire-and-forget: a publish never blocks or
// fails the originating request.
type Notifier interface {
	Notify(userIds []string, event string, payload any)
}

// BlobStore is the external binary store holding group icons.
type BlobStore interface {
	Upload(ctx context.Context, file io.Reader, folder string) (url string, publicId string, err error)
	Delete(ctx context.Context, publicId string) error
}

// Presence reports which users currently have a live connection.
type Presence interface {
	GetOnline(ctx context.Context, userIds []string) (map[string]bool, error)
}
