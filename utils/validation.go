package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AllowedImageMIMETypes is the set of accepted MIME types for submitted
// wardrobe images.
var AllowedImageMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var mimeExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// ParseDataURI splits a base64 data URI ("data:image/png;base64,....")
// into its MIME type, file extension and raw base64 payload. Unknown MIME
// types fall back to image/jpeg, matching how uploads were historically
// stored.
func ParseDataURI(dataURI string) (mime, ext, payload string, err error) {
	if !strings.HasPrefix(dataURI, "data:") {
		return "", "", "", fmt.Errorf("not a data URI")
	}

	parts := strings.SplitN(dataURI, ",", 2)
	if len(parts) != 2 {
		return "", "", "", fmt.Errorf("invalid data URI format")
	}

	header := parts[0]
	mime = "image/jpeg"
	if i := strings.Index(header, ":"); i >= 0 {
		meta := header[i+1:]
		if j := strings.Index(meta, ";"); j >= 0 {
			meta = meta[:j]
		}
		if meta != "" {
			mime = meta
		}
	}

	ext, ok := mimeExtensions[mime]
	if !ok {
		ext = "jpg"
	}

	return mime, ext, parts[1], nil
}

// SanitizeValidationError takes a validator error and returns a user-friendly message
// without leaking internal Go struct names.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Invalid request body"
	}

	var messages []string
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must have at least %s entries or characters", field, fe.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must have at most %s entries or characters", field, fe.Param()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}

	if len(messages) == 0 {
		return "Invalid request body"
	}

	return strings.Join(messages, "; ")
}
