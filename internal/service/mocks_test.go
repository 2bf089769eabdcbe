package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"notafiscal-server/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/supabase-community/supabase-go"
)

// MockLogger records messages for assertions
type MockLogger struct {
	mu       sync.Mutex
	messages []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{messages: []string{}}
}

func (m *MockLogger) record(s string) {
	m.mu.Lock()
	m.messages = append(m.messages, s)
	m.mu.Unlock()
}

func (m *MockLogger) Info(msg string, args ...interface{})  { m.record("INFO: " + msg) }
func (m *MockLogger) Debug(msg string, args ...interface{}) { m.record("DEBUG: " + msg) }
func (m *MockLogger) Warn(msg string, args ...interface{})  { m.record("WARN: " + msg) }
func (m *MockLogger) Error(msg string, err error, args ...interface{}) {
	if err != nil {
		msg += " - " + err.Error()
	}
	m.record("ERROR: " + msg)
}

func (m *MockLogger) has(prefix string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

// MockSupabaseClient validates a fixed token and points per-token clients at url
type MockSupabaseClient struct {
	url   string
	calls int
}

func NewMockSupabaseClient() *MockSupabaseClient {
	return &MockSupabaseClient{}
}

func (m *MockSupabaseClient) Initialize() error { return nil }

func (m *MockSupabaseClient) ValidateToken(token string) (*domain.SupabaseUser, error) {
	m.calls++
	if token == "valid-token" {
		return &domain.SupabaseUser{ID: "user-123", Email: "test@example.com"}, nil
	}
	return nil, domain.ErrInvalidToken
}

func (m *MockSupabaseClient) GetClientWithToken(token string) (*supabase.Client, error) {
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return supabase.NewClient(m.url, "anon", &supabase.ClientOptions{
		Headers: map[string]string{"Authorization": "Bearer " + token},
	})
}

// MockInvoiceRepository keeps invoices in memory
type MockInvoiceRepository struct {
	mu        sync.Mutex
	invoices  map[string]*domain.Invoice
	created   []*domain.Invoice
	nextID    int
	createErr error
	countErr  error
}

func NewMockInvoiceRepository() *MockInvoiceRepository {
	return &MockInvoiceRepository{invoices: make(map[string]*domain.Invoice)}
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return "", m.createErr
	}
	m.nextID++
	id := "inv-" + string(rune('0'+m.nextID))
	stored := *invoice
	stored.ID = id
	m.invoices[id] = &stored
	m.created = append(m.created, &stored)
	return id, nil
}

func (m *MockInvoiceRepository) add(inv *domain.Invoice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invoices[inv.ID] = inv
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, userID, id string, token string) (*domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok || inv.UserID != userID {
		return nil, domain.ErrInvoiceNotFound
	}
	return inv, nil
}

func (m *MockInvoiceRepository) ListByUser(ctx context.Context, userID string, token string) ([]*domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Invoice
	for _, inv := range m.invoices {
		if inv.UserID == userID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssueDate > out[j].IssueDate })
	return out, nil
}

func (m *MockInvoiceRepository) Recent(ctx context.Context, userID string, limit int, token string) ([]*domain.Invoice, error) {
	all, _ := m.ListByUser(ctx, userID, token)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *MockInvoiceRepository) Count(ctx context.Context, userID string, from, to time.Time, token string) (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	all, _ := m.ListByUser(ctx, userID, token)
	var n int64
	for _, inv := range all {
		if !from.IsZero() && inv.IssueDate < from.Format(domain.IssueDateLayout) {
			continue
		}
		if !to.IsZero() && inv.IssueDate > to.Format(domain.IssueDateLayout) {
			continue
		}
		n++
	}
	return n, nil
}

func (m *MockInvoiceRepository) TotalAmounts(ctx context.Context, userID string, token string) ([]decimal.Decimal, error) {
	all, _ := m.ListByUser(ctx, userID, token)
	out := make([]decimal.Decimal, 0, len(all))
	for _, inv := range all {
		out = append(out, inv.TotalAmount)
	}
	return out, nil
}

type uploadCall struct {
	path        string
	contentType string
	data        []byte
}

// MockObjectStorage records uploads and serves listings from them
type MockObjectStorage struct {
	mu        sync.Mutex
	uploads   []uploadCall
	uploadErr error
	listErr   error
	signErr   error
}

func NewMockObjectStorage() *MockObjectStorage {
	return &MockObjectStorage{}
}

func (m *MockObjectStorage) Upload(ctx context.Context, path string, file io.Reader, contentType string, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.uploadErr != nil {
		return m.uploadErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.uploads = append(m.uploads, uploadCall{path: path, contentType: contentType, data: data})
	m.mu.Unlock()
	return nil
}

func (m *MockObjectStorage) SignedURL(ctx context.Context, path string, token string) (string, error) {
	if m.signErr != nil {
		return "", m.signErr
	}
	return "https://storage.test/sign/" + path + "?token=abc", nil
}

func (m *MockObjectStorage) List(ctx context.Context, prefix string, token string) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for _, u := range m.uploads {
		if strings.HasPrefix(u.path, prefix) {
			names = append(names, strings.TrimPrefix(u.path, prefix))
		}
	}
	return names, nil
}

// MockExtractor returns a canned draft, optionally blocking until released
type MockExtractor struct {
	draft   *domain.InvoiceDraft
	err     error
	started chan struct{}
	release chan struct{}
	calls   int
}

func (m *MockExtractor) Extract(ctx context.Context, selection *domain.UploadSelection) (*domain.InvoiceDraft, error) {
	m.calls++
	if m.started != nil {
		close(m.started)
	}
	if m.release != nil {
		<-m.release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.draft == nil {
		return nil, m.err
	}
	d := *m.draft
	return &d, m.err
}

// MockExtractionClient answers every post with a fixed response
type MockExtractionClient struct {
	resp *domain.ExtractionResponse
	err  error
	last domain.ExtractionRequest
}

func (m *MockExtractionClient) Post(ctx context.Context, req domain.ExtractionRequest) (*domain.ExtractionResponse, error) {
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

// MockProfileRepository keeps one profile per user
type MockProfileRepository struct {
	profiles  map[string]*domain.UserProfile
	updated   *domain.UserProfile
	updateErr error
}

func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{profiles: make(map[string]*domain.UserProfile)}
}

func (m *MockProfileRepository) Get(ctx context.Context, userID string, token string) (*domain.UserProfile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return p, nil
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *domain.UserProfile, token string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	cp := *profile
	m.updated = &cp
	m.profiles[profile.ID] = &cp
	return nil
}

var errBoom = errors.New("boom")

var testAuth = domain.AuthContext{UserID: "user-123", Token: "valid-token"}

func strPtr(s string) *string { return &s }
