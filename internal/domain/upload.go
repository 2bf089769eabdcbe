package domain

// PreviewKind tells a client how to render a selected file.
type PreviewKind string

const (
	PreviewImage PreviewKind = "image"
	PreviewPDF   PreviewKind = "pdf"
	PreviewXML   PreviewKind = "xml"
	PreviewNone  PreviewKind = "none"
)

// MaxUploadSize is the default intake limit (10 MiB).
const MaxUploadSize int64 = 10 * 1024 * 1024

// UploadSelection is the file chosen for the current draft.
type UploadSelection struct {
	Filename    string      `json:"filename"`
	ContentType string      `json:"content_type"`
	Size        int64       `json:"size"`
	PreviewKind PreviewKind `json:"preview_kind"`
	// PreviewPayload is a data URL, only set for images.
	PreviewPayload *string `json:"preview_payload,omitempty"`

	Data []byte `json:"-"`
}
