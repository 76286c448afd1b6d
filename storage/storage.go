package storage

import "context"

// Client abstracts object storage operations for dependency injection and
// testing. Keys are bucket-relative paths like
// "wardrobe/42/item_1700000000_original.jpg".
type Client interface {
	// UploadBase64 stores a raw base64 payload under objectKey with the
	// given content type and returns the public URL.
	UploadBase64(ctx context.Context, payload, objectKey, contentType string) (string, error)
	// FetchBase64 downloads a previously stored object by its public URL
	// and returns the raw base64 payload.
	FetchBase64(ctx context.Context, url string) (string, error)
	// Delete removes an object by its bucket-relative key.
	Delete(ctx context.Context, objectKey string) error
}
