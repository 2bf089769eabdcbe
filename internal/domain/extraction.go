package domain

import (
	"context"
	"time"
)

// ExtractionRequest is what the extraction webhook receives as multipart fields.
type ExtractionRequest struct {
	File        []byte
	Filename    string
	ContentType string
	Timestamp   time.Time
	Prompt      string
}

// ExtractionResponse is the raw webhook reply.
type ExtractionResponse struct {
	StatusCode int
	Body       []byte
}

// ExtractionClient posts a document to the extraction webhook.
type ExtractionClient interface {
	Post(ctx context.Context, req ExtractionRequest) (*ExtractionResponse, error)
}

// Extractor turns a selected file into a draft.
//
// The returned draft may be non-nil together with an *ExtractionError when the
// webhook answered with a non-2xx status but a decodable body; callers still show
// that draft so the user can correct it.
type Extractor interface {
	Extract(ctx context.Context, selection *UploadSelection) (*InvoiceDraft, error)
}
