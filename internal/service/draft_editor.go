package service

import "notafiscal-server/internal/domain"

// DraftEditor holds the single draft under edit and whether it has unsaved changes.
type DraftEditor struct {
	draft domain.InvoiceDraft
	dirty bool
	open  bool
}

// NewDraftEditor returns a closed editor holding an empty draft.
func NewDraftEditor() *DraftEditor {
	return &DraftEditor{draft: domain.EmptyDraft()}
}

// Open replaces the current draft with d and marks it clean.
func (e *DraftEditor) Open(d domain.InvoiceDraft) {
	d.Kind = domain.ParseInvoiceKind(string(d.Kind))
	d.WarrantyUnit = domain.ParseWarrantyUnit(string(d.WarrantyUnit))
	e.draft = d
	e.dirty = false
	e.open = true
}

// Update merges p into the draft and marks it dirty, even when p changes nothing.
func (e *DraftEditor) Update(p domain.DraftPatch) error {
	if !e.open {
		return domain.ErrEditorClosed
	}
	e.draft = e.draft.Apply(p)
	e.dirty = true
	return nil
}

// Discard drops the draft and closes the editor.
func (e *DraftEditor) Discard() {
	e.draft = domain.EmptyDraft()
	e.dirty = false
	e.open = false
}

func (e *DraftEditor) Draft() domain.InvoiceDraft { return e.draft }
func (e *DraftEditor) Dirty() bool                { return e.dirty }
func (e *DraftEditor) IsOpen() bool               { return e.open }
