package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"notafiscal-server/internal/domain"
	apperrors "notafiscal-server/pkg/errors"
)

// multipartOverhead leaves room for the form boundary and headers around the file.
const multipartOverhead = 1 << 20

// WorkflowHandler exposes the capture workflow of the authenticated user.
type WorkflowHandler struct {
	workflows   domain.WorkflowRegistry
	maxFileSize int64
	logger      domain.Logger
}

func NewWorkflowHandler(workflows domain.WorkflowRegistry, maxFileSize int64, logger domain.Logger) *WorkflowHandler {
	if maxFileSize <= 0 {
		maxFileSize = domain.MaxUploadSize
	}
	return &WorkflowHandler{
		workflows:   workflows,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

type workflowResponse struct {
	State  domain.WorkflowState `json:"state"`
	Result *domain.SaveResult   `json:"result,omitempty"`
}

func (h *WorkflowHandler) workflowFor(w http.ResponseWriter, r *http.Request) (domain.InvoiceWorkflow, domain.AuthContext, bool) {
	auth, ok := authFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return nil, domain.AuthContext{}, false
	}
	return h.workflows.Get(auth.UserID), auth, true
}

func (h *WorkflowHandler) respond(w http.ResponseWriter, state domain.WorkflowState, result *domain.SaveResult, err error) {
	if err != nil {
		writeDomainError(w, h.logger, err, &state)
		return
	}
	writeJSON(w, http.StatusOK, workflowResponse{State: state, Result: result})
}

// GetState returns the current workflow snapshot.
func (h *WorkflowHandler) GetState(w http.ResponseWriter, r *http.Request) {
	wf, _, ok := h.workflowFor(w, r)
	if !ok {
		return
	}
	h.respond(w, wf.Snapshot(), nil, nil)
}

// SelectFile reads the multipart "file" field and makes it the current selection.
func (h *WorkflowHandler) SelectFile(w http.ResponseWriter, r *http.Request) {
	wf, auth, ok := h.workflowFor(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			state := wf.Snapshot()
			writeDomainError(w, h.logger, domain.ErrFileTooLarge, &state)
			return
		}
		writeAppError(w, apperrors.NewValidationError("File is required", "file"), nil)
		return
	}
	defer file.Close()
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeDomainError(w, h.logger, err, nil)
		return
	}

	name := strings.TrimSpace(filepath.Base(header.Filename))
	if name == "." || name == string(filepath.Separator) {
		name = ""
	}
	contentType := header.Header.Get("Content-Type")

	state, err := wf.Select(name, contentType, data)
	if err == nil {
		h.logger.Info("File selected", "user_id", auth.UserID, "filename", name, "content_type", contentType, "size", len(data))
	}
	h.respond(w, state, nil, err)
}

// ClearFile drops the selection and any draft without confirmation.
func (h *WorkflowHandler) ClearFile(w http.ResponseWriter, r *http.Request) {
	wf, _, ok := h.workflowFor(w, r)
	if !ok {
		return
	}
	state, err := wf.Clear()
	h.respond(w, state, nil, err)
}

// Extract runs the extraction of the selected file. A non-2xx webhook answer
// comes back as 502 with the prefilled draft in the state.
func (h *WorkflowHandler) Extract(w http.ResponseWriter, r *http.Request) {
	wf, auth, ok := h.workflowFor(w, r)
	if !ok {
		return
	}
	state, err := wf.Extract(r.Context())
	if err != nil {
		h.logger.Warn("Extraction did not complete", "user_id", auth.UserID, "error", err)
	}
	h.respond(w, state, nil, err)
}

// OpenDraft opens the editor on an empty draft for manual entry.
func (h *WorkflowHandler) OpenDraft(w http.ResponseWriter, r *http.Request) {
	wf, _, ok := h.workflowFor(w, r)
	if !ok {
		return
	}
	state, err := wf.OpenManual()
	h.respond(w, state, nil, err)
}

// UpdateDraft applies a partial field update to the open draft.
func (h *WorkflowHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	wf, _, ok := h.workflowFor(w, r)
	if !ok {
		return
	}

	var patch domain.DraftPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := wf.Update(patch)
	h.respond(w, state, nil, err)
}

func (h *WorkflowHandler) RequestClose(w http.ResponseWriter, r *http.Request) {
	wf, _, ok := h.workflowFor(w, r)
	if !ok {
		return
	}
	state, err := wf.RequestClose()
	h.respond(w, state, nil, err)
}

func (h *WorkflowHandler) ConfirmClose(w http.ResponseWriter, r *http.Request) {
	wf, _, ok := h.workflowFor(w, r)
	if !ok {
		return
	}
	state, err := wf.ConfirmExit()
	h.respond(w, state, nil, err)
}

func (h *WorkflowHandler) CancelClose(w http.ResponseWriter, r *http.Request) {
	wf, _, ok := h.workflowFor(w, r)
	if !ok {
		return
	}
	state, err := wf.CancelExit()
	h.respond(w, state, nil, err)
}

// Save persists the draft. When the draft has no warranty the response carries
// no result and the state asks for confirmation.
func (h *WorkflowHandler) Save(w http.ResponseWriter, r *http.Request) {
	wf, auth, ok := h.workflowFor(w, r)
	if !ok {
		return
	}
	result, state, err := wf.Save(r.Context(), auth)
	h.respond(w, state, result, err)
}

func (h *WorkflowHandler) ConfirmSave(w http.ResponseWriter, r *http.Request) {
	wf, auth, ok := h.workflowFor(w, r)
	if !ok {
		return
	}
	result, state, err := wf.ConfirmSaveWithoutWarranty(r.Context(), auth)
	h.respond(w, state, result, err)
}

func (h *WorkflowHandler) CancelSave(w http.ResponseWriter, r *http.Request) {
	wf, _, ok := h.workflowFor(w, r)
	if !ok {
		return
	}
	state, err := wf.CancelSave()
	h.respond(w, state, nil, err)
}
