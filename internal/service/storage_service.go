package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"notafiscal-server/internal/domain"

	storage_go "github.com/supabase-community/storage-go"
)

const attachmentListLimit = 100

// SupabaseStorage implements domain.ObjectStorage on a Supabase storage bucket.
// Every call goes through a client carrying the user's token so bucket policies apply.
type SupabaseStorage struct {
	supabaseClient domain.SupabaseClient
	bucket         string
	signedURLTTL   int
	logger         domain.Logger
}

func NewStorageService(
	supabaseClient domain.SupabaseClient,
	bucket string,
	signedURLTTL int,
	logger domain.Logger,
) *SupabaseStorage {
	return &SupabaseStorage{
		supabaseClient: supabaseClient,
		bucket:         bucket,
		signedURLTTL:   signedURLTTL,
		logger:         logger,
	}
}

func (s *SupabaseStorage) storageFor(ctx context.Context, token string) (*storage_go.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client, err := s.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated client: %w", err)
	}
	return client.Storage, nil
}

// Upload stores file at path, replacing any object already there.
func (s *SupabaseStorage) Upload(
	ctx context.Context,
	path string,
	file io.Reader,
	contentType string,
	token string,
) error {
	storage, err := s.storageFor(ctx, token)
	if err != nil {
		return err
	}

	upsert := true
	opts := storage_go.FileOptions{Upsert: &upsert}
	if contentType != "" {
		opts.ContentType = &contentType
	}

	start := time.Now()
	if _, err := storage.UploadFile(s.bucket, path, file, opts); err != nil {
		s.logger.Error("Storage upload failed", err, "bucket", s.bucket, "path", path, "elapsed_ms", time.Since(start).Milliseconds())
		return fmt.Errorf("storage upload failed: %w", err)
	}

	s.logger.Info("Storage upload completed", "bucket", s.bucket, "path", path, "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}

// SignedURL returns a time-limited read URL for path.
func (s *SupabaseStorage) SignedURL(ctx context.Context, path string, token string) (string, error) {
	storage, err := s.storageFor(ctx, token)
	if err != nil {
		return "", err
	}

	resp, err := storage.CreateSignedUrl(s.bucket, path, s.signedURLTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign url: %w", err)
	}
	return resp.SignedURL, nil
}

// List returns the names of the objects under prefix, newest name first.
func (s *SupabaseStorage) List(ctx context.Context, prefix string, token string) ([]string, error) {
	storage, err := s.storageFor(ctx, token)
	if err != nil {
		return nil, err
	}

	objects, err := storage.ListFiles(s.bucket, prefix, storage_go.FileSearchOptions{
		Limit:         attachmentListLimit,
		SortByOptions: storage_go.SortBy{Column: "name", Order: "desc"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	names := make([]string, 0, len(objects))
	for _, obj := range objects {
		names = append(names, obj.Name)
	}
	return names, nil
}
