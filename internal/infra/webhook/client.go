package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"notafiscal-server/internal/domain"

	"github.com/google/uuid"
)

// timestampLayout matches JavaScript's Date.toISOString, which the webhook expects.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Client posts documents to the extraction webhook as multipart/form-data.
type Client struct {
	url    string
	http   *http.Client
	logger domain.Logger
}

// NewClient creates a webhook client. A nil httpClient gets a client without a
// timeout; the request context is the only deadline.
func NewClient(url string, httpClient *http.Client, logger domain.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{url: url, http: httpClient, logger: logger}
}

// Post sends req and returns whatever the webhook answered. A non-2xx status is
// not an error here; only transport failures are.
func (c *Client) Post(ctx context.Context, req domain.ExtractionRequest) (*domain.ExtractionResponse, error) {
	if c.url == "" {
		return nil, fmt.Errorf("extraction webhook url not configured")
	}

	reqID := uuid.New().String()
	start := time.Now()

	body, contentType, err := encodeMultipart(req)
	if err != nil {
		c.logger.Error("webhook.encode_error", err, "req_id", reqID)
		return nil, fmt.Errorf("encode multipart: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		c.logger.Error("webhook.build_request_error", err, "req_id", reqID)
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	c.logger.Info("webhook.request",
		"req_id", reqID,
		"filename", req.Filename,
		"content_length", body.Len(),
	)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Error("webhook.send_error", err, "req_id", reqID, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.logger.Warn("webhook.response_body_close_error", "req_id", reqID, "error", err)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("webhook.read_error", err, "req_id", reqID)
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Info("webhook.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return &domain.ExtractionResponse{StatusCode: resp.StatusCode, Body: raw}, nil
}

func encodeMultipart(req domain.ExtractionRequest) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, req.Filename))
	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.File); err != nil {
		return nil, "", err
	}

	fields := []struct{ name, value string }{
		{"filename", req.Filename},
		{"timestamp", req.Timestamp.UTC().Format(timestampLayout)},
		{"prompt", req.Prompt},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
