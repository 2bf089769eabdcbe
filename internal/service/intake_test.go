package service

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"notafiscal-server/internal/domain"
)

func TestIntake_Select(t *testing.T) {
	intake := NewIntake(0)
	small := []byte("abc")

	tests := []struct {
		name      string
		filename  string
		mediaType string
		data      []byte
		wantKind  domain.PreviewKind
		wantErr   error
	}{
		{"jpeg", "nota.jpg", "image/jpeg", small, domain.PreviewImage, nil},
		{"png", "nota.png", "image/png", small, domain.PreviewImage, nil},
		{"pdf", "nota.pdf", "application/pdf", small, domain.PreviewPDF, nil},
		{"text xml", "nota.xml", "text/xml", small, domain.PreviewXML, nil},
		{"application xml", "nota", "application/xml", small, domain.PreviewXML, nil},
		{"xml by extension", "NFE.XML", "", small, domain.PreviewXML, nil},
		{"unsupported", "nota.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", small, "", domain.ErrUnsupportedFileType},
		{"no type no extension", "nota", "", small, "", domain.ErrUnsupportedFileType},
		{"too large", "nota.jpg", "image/jpeg", make([]byte, domain.MaxUploadSize+1), "", domain.ErrFileTooLarge},
		{"too large and unsupported", "nota.zip", "application/zip", make([]byte, domain.MaxUploadSize+1), "", domain.ErrFileTooLarge},
		{"exactly at limit", "nota.pdf", "application/pdf", make([]byte, domain.MaxUploadSize), domain.PreviewPDF, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := intake.Select(tt.filename, tt.mediaType, tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if sel != nil {
					t.Fatalf("expected no selection on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sel.PreviewKind != tt.wantKind {
				t.Errorf("expected preview kind %s, got %s", tt.wantKind, sel.PreviewKind)
			}
			if sel.Size != int64(len(tt.data)) {
				t.Errorf("expected size %d, got %d", len(tt.data), sel.Size)
			}
			if sel.Filename != tt.filename {
				t.Errorf("expected filename %q, got %q", tt.filename, sel.Filename)
			}
		})
	}
}

func TestIntake_PreviewPayload(t *testing.T) {
	intake := NewIntake(0)

	img, err := intake.Select("a.png", "image/png", []byte{0x89, 'P', 'N', 'G'})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.PreviewPayload == nil || !strings.HasPrefix(*img.PreviewPayload, "data:image/png;base64,") {
		t.Fatalf("expected data url payload, got %v", img.PreviewPayload)
	}
	if *img.PreviewPayload != "data:image/png;base64,iVBORw==" {
		t.Errorf("unexpected payload %q", *img.PreviewPayload)
	}

	pdf, err := intake.Select("a.pdf", "application/pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pdf.PreviewPayload != nil {
		t.Errorf("expected no payload for pdf")
	}
	if !bytes.Equal(pdf.Data, []byte("%PDF")) {
		t.Errorf("expected bytes to be kept")
	}
}

func TestIntake_CustomLimit(t *testing.T) {
	intake := NewIntake(4)

	if _, err := intake.Select("a.pdf", "application/pdf", []byte("12345")); !errors.Is(err, domain.ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	if _, err := intake.Select("a.pdf", "application/pdf", []byte("1234")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
