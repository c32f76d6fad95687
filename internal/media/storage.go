// Package media turns a local image file into a durable, owner-scoped
// storage reference: read, optionally strip the background, upload.
package media

import "context"

// ObjectStorage uploads raw bytes under a key and returns a durable URL
// from which the object can be fetched later.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
}

// BackgroundStripper removes the background from an image, returning the
// processed bytes.
type BackgroundStripper interface {
	Strip(ctx context.Context, image []byte) ([]byte, error)
}
