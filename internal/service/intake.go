package service

import (
	"encoding/base64"
	"strings"

	"notafiscal-server/internal/domain"
)

// Intake accepts or rejects a file chosen for extraction.
type Intake struct {
	maxSize int64
}

// NewIntake creates an intake with the given size limit in bytes. A non-positive
// limit falls back to domain.MaxUploadSize.
func NewIntake(maxSize int64) *Intake {
	if maxSize <= 0 {
		maxSize = domain.MaxUploadSize
	}
	return &Intake{maxSize: maxSize}
}

// Select validates the file and builds its selection. Size is checked before type.
func (i *Intake) Select(name, mediaType string, data []byte) (*domain.UploadSelection, error) {
	if int64(len(data)) > i.maxSize {
		return nil, domain.ErrFileTooLarge
	}

	kind, ok := previewKindFor(name, mediaType)
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	sel := &domain.UploadSelection{
		Filename:    name,
		ContentType: mediaType,
		Size:        int64(len(data)),
		PreviewKind: kind,
		Data:        data,
	}
	if kind == domain.PreviewImage {
		payload := "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
		sel.PreviewPayload = &payload
	}
	return sel, nil
}

func previewKindFor(name, mediaType string) (domain.PreviewKind, bool) {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	switch {
	case strings.HasPrefix(mt, "image/"):
		return domain.PreviewImage, true
	case mt == "application/pdf":
		return domain.PreviewPDF, true
	case mt == "text/xml", mt == "application/xml":
		return domain.PreviewXML, true
	case strings.HasSuffix(strings.ToLower(name), ".xml"):
		return domain.PreviewXML, true
	default:
		return domain.PreviewNone, false
	}
}
