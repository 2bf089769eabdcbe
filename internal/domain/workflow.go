package domain

import "context"

// GuardState is the state of the unsaved-changes guard.
type GuardState string

const (
	GuardIdle                          GuardState = "idle"
	GuardConfirmingExit                GuardState = "confirming_exit"
	GuardConfirmingSaveWithoutWarranty GuardState = "confirming_save_without_warranty"
)

// WorkflowState is the client-facing view of one capture workflow.
type WorkflowState struct {
	SessionID string     `json:"session_id"`
	Guard     GuardState `json:"guard"`

	Dirty                                  bool `json:"dirty"`
	EditorOpen                             bool `json:"editor_open"`
	PendingExitConfirmation                bool `json:"pending_exit_confirmation"`
	PendingSaveWithoutWarrantyConfirmation bool `json:"pending_save_without_warranty_confirmation"`
	Extracting                             bool `json:"extracting"`
	Saving                                 bool `json:"saving"`

	Draft        InvoiceDraft     `json:"draft"`
	WarrantyDays *int             `json:"warranty_days"`
	Selection    *UploadSelection `json:"selection,omitempty"`
}

// InvoiceWorkflow is the upload → extraction → review → save flow of a single user.
type InvoiceWorkflow interface {
	Snapshot() WorkflowState
	Select(filename, contentType string, data []byte) (WorkflowState, error)
	Clear() (WorkflowState, error)
	Extract(ctx context.Context) (WorkflowState, error)
	OpenManual() (WorkflowState, error)
	Update(patch DraftPatch) (WorkflowState, error)
	RequestClose() (WorkflowState, error)
	ConfirmExit() (WorkflowState, error)
	CancelExit() (WorkflowState, error)
	// Save returns a nil result and no error when it stopped to ask for the
	// save-without-warranty confirmation.
	Save(ctx context.Context, auth AuthContext) (*SaveResult, WorkflowState, error)
	ConfirmSaveWithoutWarranty(ctx context.Context, auth AuthContext) (*SaveResult, WorkflowState, error)
	CancelSave() (WorkflowState, error)
}

// WorkflowRegistry hands out the workflow owned by a user.
type WorkflowRegistry interface {
	Get(userID string) InvoiceWorkflow
}
