package handler

import (
	"context"
	"errors"
	"net/http"

	"notafiscal-server/internal/domain"
)

func createContextWithUser(r *http.Request, user *domain.SupabaseUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userContextKey, user))
}

func createContextWithToken(r *http.Request, token string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), tokenContextKey, token))
}

func authenticated(r *http.Request) *http.Request {
	r = createContextWithUser(r, &domain.SupabaseUser{ID: "user-1", Email: "test@example.com"})
	return createContextWithToken(r, "token")
}

type mockAuthService struct {
	user      *domain.SupabaseUser
	err       error
	lastToken string
}

func (m *mockAuthService) ValidateToken(token string) (*domain.SupabaseUser, error) {
	m.lastToken = token
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

// mockWorkflow records the last call and answers with the configured state.
type mockWorkflow struct {
	state  domain.WorkflowState
	result *domain.SaveResult
	err    error

	lastCall     string
	lastFilename string
	lastType     string
	lastData     []byte
	lastPatch    domain.DraftPatch
	lastAuth     domain.AuthContext
}

func (m *mockWorkflow) Snapshot() domain.WorkflowState {
	m.lastCall = "Snapshot"
	return m.state
}

func (m *mockWorkflow) Select(filename, contentType string, data []byte) (domain.WorkflowState, error) {
	m.lastCall = "Select"
	m.lastFilename, m.lastType, m.lastData = filename, contentType, data
	return m.state, m.err
}

func (m *mockWorkflow) Clear() (domain.WorkflowState, error) {
	m.lastCall = "Clear"
	return m.state, m.err
}

func (m *mockWorkflow) Extract(ctx context.Context) (domain.WorkflowState, error) {
	m.lastCall = "Extract"
	return m.state, m.err
}

func (m *mockWorkflow) OpenManual() (domain.WorkflowState, error) {
	m.lastCall = "OpenManual"
	return m.state, m.err
}

func (m *mockWorkflow) Update(patch domain.DraftPatch) (domain.WorkflowState, error) {
	m.lastCall = "Update"
	m.lastPatch = patch
	return m.state, m.err
}

func (m *mockWorkflow) RequestClose() (domain.WorkflowState, error) {
	m.lastCall = "RequestClose"
	return m.state, m.err
}

func (m *mockWorkflow) ConfirmExit() (domain.WorkflowState, error) {
	m.lastCall = "ConfirmExit"
	return m.state, m.err
}

func (m *mockWorkflow) CancelExit() (domain.WorkflowState, error) {
	m.lastCall = "CancelExit"
	return m.state, m.err
}

func (m *mockWorkflow) Save(ctx context.Context, auth domain.AuthContext) (*domain.SaveResult, domain.WorkflowState, error) {
	m.lastCall = "Save"
	m.lastAuth = auth
	return m.result, m.state, m.err
}

func (m *mockWorkflow) ConfirmSaveWithoutWarranty(ctx context.Context, auth domain.AuthContext) (*domain.SaveResult, domain.WorkflowState, error) {
	m.lastCall = "ConfirmSaveWithoutWarranty"
	m.lastAuth = auth
	return m.result, m.state, m.err
}

func (m *mockWorkflow) CancelSave() (domain.WorkflowState, error) {
	m.lastCall = "CancelSave"
	return m.state, m.err
}

type mockRegistry struct {
	workflow *mockWorkflow
	lastUser string
}

func (m *mockRegistry) Get(userID string) domain.InvoiceWorkflow {
	m.lastUser = userID
	return m.workflow
}

type mockInvoiceService struct {
	invoices  []*domain.InvoiceView
	invoice   *domain.InvoiceView
	summary   *domain.DashboardSummary
	err       error
	lastQuery string
	lastID    string
}

func (m *mockInvoiceService) ListInvoices(ctx context.Context, auth domain.AuthContext, query string) ([]*domain.InvoiceView, error) {
	m.lastQuery = query
	return m.invoices, m.err
}

func (m *mockInvoiceService) GetInvoice(ctx context.Context, auth domain.AuthContext, id string) (*domain.InvoiceView, error) {
	m.lastID = id
	if m.err != nil {
		return nil, m.err
	}
	return m.invoice, nil
}

func (m *mockInvoiceService) Dashboard(ctx context.Context, auth domain.AuthContext) (*domain.DashboardSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.summary, nil
}

type mockProfileService struct {
	profile    *domain.UserProfile
	err        error
	lastUpdate domain.ProfileUpdate
}

func (m *mockProfileService) GetProfile(ctx context.Context, auth domain.AuthContext) (*domain.UserProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

func (m *mockProfileService) UpdateProfile(ctx context.Context, auth domain.AuthContext, update domain.ProfileUpdate) (*domain.UserProfile, error) {
	m.lastUpdate = update
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

var errBoom = errors.New("boom")
