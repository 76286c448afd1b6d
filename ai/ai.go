package ai

import (
	"context"

	"tryrack-backend/dtos"
)

// Client abstracts the AI image service for dependency injection and
// testing. All image parameters and return values are raw base64 payloads
// without a data URI prefix.
type Client interface {
	// RemoveBackground returns the item image re-rendered on a clean
	// white background.
	RemoveBackground(ctx context.Context, imageB64 string) (string, error)
	// SuggestAttributes classifies the clothing item into title, category,
	// colors and tags.
	SuggestAttributes(ctx context.Context, imageB64 string) (*dtos.AISuggestions, error)
	// GenerateTryOn renders the clothing item onto the user's photo.
	GenerateTryOn(ctx context.Context, userB64, itemB64, category string, colors []string, cleanBackground bool) (string, error)
}
