package domain

import (
	"context"
	"io"
)

// ObjectStorage stores invoice attachments in a Supabase storage bucket.
type ObjectStorage interface {
	// Upload writes the object at path, overwriting any existing object.
	Upload(ctx context.Context, path string, file io.Reader, contentType string, token string) error
	// SignedURL returns a read URL for path valid for the configured TTL.
	SignedURL(ctx context.Context, path string, token string) (string, error)
	// List returns the object names directly under prefix.
	List(ctx context.Context, prefix string, token string) ([]string, error)
}
