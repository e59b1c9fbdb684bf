package storage

import (
	"context"
	"io"
	"net/url"
	"strings"
)

// Storage is the minimal interface avatar uploads need from a blob backend.
type Storage interface {
	// Put stores a file under the given key.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes a file by key. Returns nil if the file doesn't exist.
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for a stored key.
	GetURL(key string) string
}

// KeyFromURL recovers the storage key from a public URL produced by GetURL.
// Returns "" when the URL cannot be parsed.
func KeyFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
