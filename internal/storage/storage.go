package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
)

// FileStore persists uploaded package images under a sanitized filename.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader, contentType string) error
}

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
}

// AllowedImage reports whether filename has an allowed image extension.
// The comparison is case-insensitive.
func AllowedImage(filename string) bool {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	return allowedExtensions[strings.ToLower(ext)]
}

// SanitizeFilename reduces an uploaded filename to a safe basename: directory
// components are dropped and the stem is slugified.
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	stem := slug.Make(strings.TrimSuffix(base, ext))
	if stem == "" {
		stem = "image"
	}
	return stem + strings.ToLower(ext)
}

// ContentType guesses the MIME type from an allowed image extension.
func ContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	default:
		return "image/jpeg"
	}
}
