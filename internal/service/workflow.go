package service

import (
	"context"
	"sync"

	"notafiscal-server/internal/domain"

	"github.com/google/uuid"
)

// Workflow is the capture flow of one user: pick a file, extract it, review the
// draft, save. Network calls run outside the lock; the extracting and saving
// flags keep them from overlapping with themselves.
type Workflow struct {
	mu sync.Mutex

	sessionID  string
	intake     *Intake
	extractor  domain.Extractor
	submitter  *Submitter
	editor     *DraftEditor
	guard      *Guard
	selection  *domain.UploadSelection
	extracting bool
	saving     bool

	logger domain.Logger
}

// WorkflowDeps are the collaborators a Workflow is built from.
type WorkflowDeps struct {
	Intake    *Intake
	Extractor domain.Extractor
	Submitter *Submitter
	Logger    domain.Logger
}

func NewWorkflow(deps WorkflowDeps) *Workflow {
	return &Workflow{
		sessionID: uuid.NewString(),
		intake:    deps.Intake,
		extractor: deps.Extractor,
		submitter: deps.Submitter,
		editor:    NewDraftEditor(),
		guard:     NewGuard(),
		logger:    deps.Logger,
	}
}

// Snapshot returns the current state.
func (w *Workflow) Snapshot() domain.WorkflowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state()
}

// Select replaces the current file. It is rejected while an extraction or a
// save is running.
func (w *Workflow) Select(filename, contentType string, data []byte) (domain.WorkflowState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.busy(); err != nil {
		return w.state(), err
	}

	sel, err := w.intake.Select(filename, contentType, data)
	if err != nil {
		return w.state(), err
	}
	w.selection = sel
	return w.state(), nil
}

// Clear drops the file and the draft without asking, even when dirty.
func (w *Workflow) Clear() (domain.WorkflowState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.busy(); err != nil {
		return w.state(), err
	}
	w.reset()
	return w.state(), nil
}

// Extract sends the selected file for extraction and opens the editor with the
// result. On a non-2xx answer the editor is opened and the error returned too.
// Once started the call runs to completion even if ctx is cancelled.
func (w *Workflow) Extract(ctx context.Context) (domain.WorkflowState, error) {
	w.mu.Lock()
	if err := w.busy(); err != nil {
		defer w.mu.Unlock()
		return w.state(), err
	}
	if w.selection == nil {
		defer w.mu.Unlock()
		return w.state(), domain.ErrNoSelection
	}
	w.extracting = true
	sel := w.selection
	w.mu.Unlock()

	draft, err := w.extractor.Extract(context.WithoutCancel(ctx), sel)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.extracting = false
	if draft != nil {
		w.guard.Reset()
		w.editor.Open(*draft)
	}
	return w.state(), err
}

// OpenManual opens the editor on an empty draft. An already open editor is left alone.
func (w *Workflow) OpenManual() (domain.WorkflowState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.extracting {
		return w.state(), domain.ErrExtractionInFlight
	}
	if !w.editor.IsOpen() {
		w.editor.Open(domain.EmptyDraft())
	}
	return w.state(), nil
}

// Update applies a field patch to the open draft. Edits are refused while a
// confirmation prompt is showing.
func (w *Workflow) Update(patch domain.DraftPatch) (domain.WorkflowState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.saving {
		return w.state(), domain.ErrSaveInFlight
	}
	if w.guard.State() != domain.GuardIdle {
		return w.state(), domain.ErrConfirmationPending
	}
	if err := w.editor.Update(patch); err != nil {
		return w.state(), err
	}
	return w.state(), nil
}

// RequestClose tries to close the editor. A dirty draft raises the exit prompt
// and the editor stays open.
func (w *Workflow) RequestClose() (domain.WorkflowState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.editor.IsOpen() {
		return w.state(), nil
	}
	if w.guard.RequestClose(w.editor.Dirty()) == CloseAllowed {
		w.editor.Discard()
	}
	return w.state(), nil
}

// ConfirmExit discards the draft after the exit prompt.
func (w *Workflow) ConfirmExit() (domain.WorkflowState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.guard.ConfirmExit(); err != nil {
		return w.state(), err
	}
	w.editor.Discard()
	return w.state(), nil
}

// CancelExit keeps editing after the exit prompt.
func (w *Workflow) CancelExit() (domain.WorkflowState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.guard.CancelExit(); err != nil {
		return w.state(), err
	}
	return w.state(), nil
}

// Save validates and persists the draft. Without a warranty it stops at the
// save-without-warranty prompt and returns a nil result.
func (w *Workflow) Save(ctx context.Context, auth domain.AuthContext) (*domain.SaveResult, domain.WorkflowState, error) {
	w.mu.Lock()
	if err := w.busy(); err != nil {
		defer w.mu.Unlock()
		return nil, w.state(), err
	}
	if w.guard.State() != domain.GuardIdle {
		defer w.mu.Unlock()
		return nil, w.state(), domain.ErrConfirmationPending
	}
	if !w.editor.IsOpen() {
		defer w.mu.Unlock()
		return nil, w.state(), domain.ErrEditorClosed
	}

	draft := w.editor.Draft()
	invoice, err := w.submitter.Validate(auth, draft)
	if err != nil {
		defer w.mu.Unlock()
		return nil, w.state(), err
	}

	if !draft.HasWarranty() {
		defer w.mu.Unlock()
		w.guard.BeginSaveConfirmation()
		return nil, w.state(), nil
	}

	return w.persist(ctx, auth, invoice)
}

// ConfirmSaveWithoutWarranty accepts the prompt raised by Save and persists.
func (w *Workflow) ConfirmSaveWithoutWarranty(ctx context.Context, auth domain.AuthContext) (*domain.SaveResult, domain.WorkflowState, error) {
	w.mu.Lock()
	if err := w.busy(); err != nil {
		defer w.mu.Unlock()
		return nil, w.state(), err
	}
	if err := w.guard.ResolveSaveConfirmation(); err != nil {
		defer w.mu.Unlock()
		return nil, w.state(), err
	}

	invoice, err := w.submitter.Validate(auth, w.editor.Draft())
	if err != nil {
		defer w.mu.Unlock()
		return nil, w.state(), err
	}

	return w.persist(ctx, auth, invoice)
}

// CancelSave dismisses the save-without-warranty prompt.
func (w *Workflow) CancelSave() (domain.WorkflowState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.guard.ResolveSaveConfirmation(); err != nil {
		return w.state(), err
	}
	return w.state(), nil
}

// persist must be called with mu held; it releases the lock around the
// network calls and returns with it released. The insert and the upload are
// not cut short by ctx cancellation.
func (w *Workflow) persist(ctx context.Context, auth domain.AuthContext, invoice *domain.Invoice) (*domain.SaveResult, domain.WorkflowState, error) {
	w.saving = true
	sel := w.selection
	w.mu.Unlock()

	result, err := w.submitter.Persist(context.WithoutCancel(ctx), auth, invoice, sel)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.saving = false
	if err != nil {
		w.logger.Error("Invoice save failed", err, "session_id", w.sessionID)
		return nil, w.state(), err
	}

	w.logger.Info("Invoice saved", "session_id", w.sessionID, "invoice_id", result.InvoiceID)
	w.reset()
	return result, w.state(), nil
}

func (w *Workflow) busy() error {
	if w.extracting {
		return domain.ErrExtractionInFlight
	}
	if w.saving {
		return domain.ErrSaveInFlight
	}
	return nil
}

// reset closes the editor through the guard's skip flag and starts a new session.
func (w *Workflow) reset() {
	w.guard.Reset()
	w.guard.SkipNextClose()
	if w.guard.RequestClose(w.editor.Dirty()) == CloseAllowed {
		w.editor.Discard()
	}
	w.selection = nil
	w.sessionID = uuid.NewString()
}

func (w *Workflow) state() domain.WorkflowState {
	draft := w.editor.Draft()
	guard := w.guard.State()
	return domain.WorkflowState{
		SessionID:                              w.sessionID,
		Guard:                                  guard,
		Dirty:                                  w.editor.Dirty(),
		EditorOpen:                             w.editor.IsOpen(),
		PendingExitConfirmation:                guard == domain.GuardConfirmingExit,
		PendingSaveWithoutWarrantyConfirmation: guard == domain.GuardConfirmingSaveWithoutWarranty,
		Extracting:                             w.extracting,
		Saving:                                 w.saving,
		Draft:                                  draft,
		WarrantyDays:                           domain.WarrantyDays(draft.WarrantyValue, draft.WarrantyUnit),
		Selection:                              w.selection,
	}
}

// WorkflowRegistry keeps one Workflow per user, created on first use.
type WorkflowRegistry struct {
	mu        sync.Mutex
	workflows map[string]domain.InvoiceWorkflow
	factory   func() domain.InvoiceWorkflow
}

func NewWorkflowRegistry(factory func() domain.InvoiceWorkflow) *WorkflowRegistry {
	return &WorkflowRegistry{
		workflows: make(map[string]domain.InvoiceWorkflow),
		factory:   factory,
	}
}

// Get returns the workflow of userID.
func (r *WorkflowRegistry) Get(userID string) domain.InvoiceWorkflow {
	r.mu.Lock()
	defer r.mu.Unlock()

	wf, ok := r.workflows[userID]
	if !ok {
		wf = r.factory()
		r.workflows[userID] = wf
	}
	return wf
}
