package service

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"notafiscal-server/internal/domain"

	"github.com/shopspring/decimal"
)

// Submitter validates a draft, inserts it and stores its attachment.
type Submitter struct {
	invoices domain.InvoiceRepository
	storage  domain.ObjectStorage
	logger   domain.Logger
	now      func() time.Time
}

func NewSubmitter(invoices domain.InvoiceRepository, storage domain.ObjectStorage, logger domain.Logger) *Submitter {
	return &Submitter{
		invoices: invoices,
		storage:  storage,
		logger:   logger,
		now:      time.Now,
	}
}

// Validate checks the caller and the draft without touching the network and
// returns the row to insert.
func (s *Submitter) Validate(auth domain.AuthContext, draft domain.InvoiceDraft) (*domain.Invoice, error) {
	if !auth.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	required := []struct {
		field string
		value string
	}{
		{"access_key", draft.AccessKey},
		{"number", draft.Number},
		{"issue_date", draft.IssueDate},
		{"total_amount", draft.TotalAmount},
		{"kind", string(draft.Kind)},
		{"issuer_tax_id", draft.IssuerTaxID},
		{"item_unit_price", draft.ItemUnitPrice},
		{"item_line_total", draft.ItemLineTotal},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, &domain.MissingFieldError{Field: r.field}
		}
	}

	issueDate := strings.TrimSpace(draft.IssueDate)
	if _, err := time.Parse(domain.IssueDateLayout, issueDate); err != nil {
		return nil, &domain.ValidationError{Field: "issue_date", Message: "must be a date in YYYY-MM-DD format"}
	}

	total, err := parseAmount("total_amount", draft.TotalAmount)
	if err != nil {
		return nil, err
	}
	unitPrice, err := parseAmount("item_unit_price", draft.ItemUnitPrice)
	if err != nil {
		return nil, err
	}
	lineTotal, err := parseAmount("item_line_total", draft.ItemLineTotal)
	if err != nil {
		return nil, err
	}

	var quantity decimal.NullDecimal
	if draft.ItemQuantity != nil && strings.TrimSpace(*draft.ItemQuantity) != "" {
		q, err := parseAmount("item_quantity", *draft.ItemQuantity)
		if err != nil {
			return nil, err
		}
		quantity = decimal.NewNullDecimal(q)
	}

	return &domain.Invoice{
		UserID:          auth.UserID,
		AccessKey:       strings.TrimSpace(draft.AccessKey),
		Number:          strings.TrimSpace(draft.Number),
		Series:          optional(draft.Series),
		IssueDate:       issueDate,
		TotalAmount:     total,
		Kind:            domain.ParseInvoiceKind(string(draft.Kind)),
		IssuerTaxID:     strings.TrimSpace(draft.IssuerTaxID),
		IssuerName:      optional(draft.IssuerName),
		ItemDescription: optional(draft.ItemDescription),
		ItemQuantity:    quantity,
		ItemUnitPrice:   unitPrice,
		ItemLineTotal:   lineTotal,
		WarrantyDays:    domain.WarrantyDays(draft.WarrantyValue, draft.WarrantyUnit),
	}, nil
}

// Persist inserts invoice and then uploads the selection under the new id. An
// upload failure does not fail the save; it is reported in UploadWarning.
func (s *Submitter) Persist(ctx context.Context, auth domain.AuthContext, invoice *domain.Invoice, selection *domain.UploadSelection) (*domain.SaveResult, error) {
	id, err := s.invoices.Create(ctx, invoice, auth.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	result := &domain.SaveResult{
		InvoiceID:    id,
		WarrantyDays: invoice.WarrantyDays,
	}
	if selection == nil {
		return result, nil
	}

	path := AttachmentPath(auth.UserID, id, s.now(), selection.Filename)
	err = s.storage.Upload(ctx, path, bytes.NewReader(selection.Data), selection.ContentType, auth.Token)
	if err != nil {
		s.logger.Error("Attachment upload failed after insert", err, "invoice_id", id, "path", path)
		result.UploadWarning = fmt.Sprintf("invoice saved but the attachment could not be stored: %v", err)
		return result, nil
	}

	result.AttachmentPath = path
	return result, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// AttachmentPath builds the storage key {userID}/{invoiceID}/{unixMillis}_{filename}.
func AttachmentPath(userID, invoiceID string, at time.Time, filename string) string {
	name := unsafeFilenameChars.ReplaceAllString(filename, "_")
	if name == "" {
		name = "file"
	}
	return fmt.Sprintf("%s/%s/%d_%s", userID, invoiceID, at.UnixMilli(), name)
}

// parseAmount accepts "1234.56", "1234,56", "1.234,56" and "1,234.56". When both
// separators appear the last one is the decimal point; a single separator
// repeated is read as thousands grouping.
func parseAmount(field, raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))

	normalized, ok := normalizeAmount(s)
	if !ok {
		return decimal.Decimal{}, &domain.ValidationError{Field: field, Message: "must be a decimal number"}
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, &domain.ValidationError{Field: field, Message: "must be a decimal number"}
	}
	if d.IsNegative() {
		return decimal.Decimal{}, &domain.ValidationError{Field: field, Message: "must not be negative"}
	}
	return d, nil
}

func normalizeAmount(s string) (string, bool) {
	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")

	switch {
	case comma < 0 && dot < 0:
		return s, true
	case comma >= 0 && dot >= 0:
		decimalSep, groupSep := ",", "."
		if dot > comma {
			decimalSep, groupSep = ".", ","
		}
		idx := strings.LastIndex(s, decimalSep)
		whole, frac := s[:idx], s[idx+1:]
		if strings.Contains(whole, decimalSep) {
			return "", false
		}
		whole, ok := ungroup(whole, groupSep)
		if !ok {
			return "", false
		}
		return whole + "." + frac, true
	default:
		sep := ","
		if dot >= 0 {
			sep = "."
		}
		if strings.Count(s, sep) == 1 {
			return strings.Replace(s, sep, ".", 1), true
		}
		return ungroup(s, sep)
	}
}

// ungroup removes thousands separators, requiring groups of three digits.
func ungroup(s, sep string) (string, bool) {
	groups := strings.Split(s, sep)
	if groups[0] == "" && len(groups) > 1 {
		return "", false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
