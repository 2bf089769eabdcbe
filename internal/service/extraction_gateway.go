package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"notafiscal-server/internal/domain"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ExtractionGateway sends a selected file to the extraction webhook and turns
// the answer into a draft.
type ExtractionGateway struct {
	client domain.ExtractionClient
	schema *jsonschema.Schema
	logger domain.Logger
	now    func() time.Time
}

// NewExtractionGateway creates a gateway posting through client.
func NewExtractionGateway(client domain.ExtractionClient, logger domain.Logger) (*ExtractionGateway, error) {
	schema, err := compileExtractionSchema()
	if err != nil {
		return nil, err
	}
	return &ExtractionGateway{
		client: client,
		schema: schema,
		logger: logger,
		now:    time.Now,
	}, nil
}

func compileExtractionSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("extraction.json", strings.NewReader(extractionSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("extraction.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// Extract posts the selection and returns the normalized draft.
//
// A transport failure or a body that is not a JSON object yields an
// *domain.ExtractionError and no draft. A non-2xx answer with a decodable body
// yields both the draft and an *domain.ExtractionError of kind status.
func (g *ExtractionGateway) Extract(ctx context.Context, selection *domain.UploadSelection) (*domain.InvoiceDraft, error) {
	if selection == nil {
		return nil, domain.ErrNoSelection
	}

	resp, err := g.client.Post(ctx, domain.ExtractionRequest{
		File:        selection.Data,
		Filename:    selection.Filename,
		ContentType: selection.ContentType,
		Timestamp:   g.now(),
		Prompt:      ExtractionPrompt,
	})
	if err != nil {
		g.logger.Error("Extraction request failed", err, "filename", selection.Filename)
		return nil, &domain.ExtractionError{Kind: domain.ExtractionNetwork, Cause: err}
	}

	payload, doc, err := decodePayload(resp.Body)
	if err != nil {
		g.logger.Warn("Extraction response is not JSON",
			"filename", selection.Filename,
			"status", resp.StatusCode,
			"bytes", len(resp.Body),
		)
		return nil, &domain.ExtractionError{
			Kind:       domain.ExtractionMalformed,
			StatusCode: resp.StatusCode,
			RawBody:    string(resp.Body),
			Cause:      err,
		}
	}

	if err := g.schema.Validate(doc); err != nil {
		g.logger.Warn("Extraction response does not match schema", "filename", selection.Filename, "error", err)
	}

	draft := payload.Normalize()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		g.logger.Warn("Extraction webhook returned an error status", "filename", selection.Filename, "status", resp.StatusCode)
		return &draft, &domain.ExtractionError{
			Kind:       domain.ExtractionStatus,
			StatusCode: resp.StatusCode,
			RawBody:    string(resp.Body),
		}
	}

	g.logger.Info("Extraction completed", "filename", selection.Filename, "kind", draft.Kind)
	return &draft, nil
}
