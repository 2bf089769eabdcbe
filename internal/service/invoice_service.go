package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"notafiscal-server/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const recentInvoicesLimit = 5

type invoiceService struct {
	invoices domain.InvoiceRepository
	storage  domain.ObjectStorage
	logger   domain.Logger
	now      func() time.Time
}

func NewInvoiceService(
	invoices domain.InvoiceRepository,
	storage domain.ObjectStorage,
	logger domain.Logger,
) *invoiceService {
	return &invoiceService{
		invoices: invoices,
		storage:  storage,
		logger:   logger,
		now:      time.Now,
	}
}

// ListInvoices returns the user's invoices, newest issue date first. A non-empty
// query keeps only invoices whose number or access key contains it, ignoring case.
func (s *invoiceService) ListInvoices(ctx context.Context, auth domain.AuthContext, query string) ([]*domain.InvoiceView, error) {
	if !auth.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	invoices, err := s.invoices.ListByUser(ctx, auth.UserID, auth.Token)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	now := s.now()
	views := make([]*domain.InvoiceView, 0, len(invoices))
	for _, inv := range invoices {
		if q != "" &&
			!strings.Contains(strings.ToLower(inv.Number), q) &&
			!strings.Contains(strings.ToLower(inv.AccessKey), q) {
			continue
		}
		views = append(views, &domain.InvoiceView{
			Invoice:  inv,
			Warranty: domain.WarrantyExpiry(inv.IssueDate, inv.WarrantyDays, now),
		})
	}
	return views, nil
}

// GetInvoice returns one invoice with its warranty badge and, when an attachment
// exists, a signed URL to it. Attachment lookup failures only drop the URL.
func (s *invoiceService) GetInvoice(ctx context.Context, auth domain.AuthContext, id string) (*domain.InvoiceView, error) {
	if !auth.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	inv, err := s.invoices.GetByID(ctx, auth.UserID, id, auth.Token)
	if err != nil {
		return nil, err
	}

	view := &domain.InvoiceView{
		Invoice:  inv,
		Warranty: domain.WarrantyExpiry(inv.IssueDate, inv.WarrantyDays, s.now()),
	}

	prefix := fmt.Sprintf("%s/%s/", auth.UserID, inv.ID)
	names, err := s.storage.List(ctx, prefix, auth.Token)
	if err != nil {
		s.logger.Warn("Failed to list invoice attachments", "invoice_id", inv.ID, "error", err)
		return view, nil
	}
	if len(names) == 0 {
		return view, nil
	}

	url, err := s.storage.SignedURL(ctx, prefix+names[0], auth.Token)
	if err != nil {
		s.logger.Warn("Failed to sign attachment url", "invoice_id", inv.ID, "error", err)
		return view, nil
	}
	view.AttachmentURL = url
	return view, nil
}

// Dashboard runs the summary queries concurrently.
func (s *invoiceService) Dashboard(ctx context.Context, auth domain.AuthContext) (*domain.DashboardSummary, error) {
	if !auth.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)

	summary := &domain.DashboardSummary{TotalAmount: decimal.Zero}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.invoices.Count(gctx, auth.UserID, time.Time{}, time.Time{}, auth.Token)
		summary.TotalInvoices = n
		return err
	})
	g.Go(func() error {
		n, err := s.invoices.Count(gctx, auth.UserID, monthStart, monthEnd, auth.Token)
		summary.ThisMonth = n
		return err
	})
	g.Go(func() error {
		recent, err := s.invoices.Recent(gctx, auth.UserID, recentInvoicesLimit, auth.Token)
		summary.Recent = recent
		return err
	})
	g.Go(func() error {
		amounts, err := s.invoices.TotalAmounts(gctx, auth.UserID, auth.Token)
		if err != nil {
			return err
		}
		summary.TotalAmount = decimal.Sum(decimal.Zero, amounts...)
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to build dashboard", err, "user_id", auth.UserID)
		return nil, err
	}
	if summary.Recent == nil {
		summary.Recent = []*domain.Invoice{}
	}
	return summary, nil
}
