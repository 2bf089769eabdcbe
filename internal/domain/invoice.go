package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceKind is the fiscal document type of a nota fiscal.
type InvoiceKind string

const (
	KindNFE  InvoiceKind = "nfe"
	KindNFCE InvoiceKind = "nfce"
	KindSAT  InvoiceKind = "sat"
)

// ParseInvoiceKind normalizes s to a known kind. Anything unrecognized becomes nfe.
func ParseInvoiceKind(s string) InvoiceKind {
	switch k := InvoiceKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindNFE, KindNFCE, KindSAT:
		return k
	default:
		return KindNFE
	}
}

// WarrantyUnit is the unit a user typed the warranty period in.
type WarrantyUnit string

const (
	WarrantyDay   WarrantyUnit = "day"
	WarrantyMonth WarrantyUnit = "month"
	WarrantyYear  WarrantyUnit = "year"
)

// ParseWarrantyUnit normalizes s to a known unit. Anything unrecognized becomes month.
func ParseWarrantyUnit(s string) WarrantyUnit {
	switch u := WarrantyUnit(strings.ToLower(strings.TrimSpace(s))); u {
	case WarrantyDay, WarrantyMonth, WarrantyYear:
		return u
	default:
		return WarrantyMonth
	}
}

// InvoiceDraft is the editable, not yet persisted invoice. Every field is kept as
// the raw text the user (or the extraction) produced; validation happens on save.
type InvoiceDraft struct {
	AccessKey       string       `json:"access_key"`
	Number          string       `json:"number"`
	Series          string       `json:"series"`
	IssueDate       string       `json:"issue_date"`
	TotalAmount     string       `json:"total_amount"`
	Kind            InvoiceKind  `json:"kind"`
	IssuerTaxID     string       `json:"issuer_tax_id"`
	IssuerName      string       `json:"issuer_name"`
	ItemDescription string       `json:"item_description"`
	ItemQuantity    *string      `json:"item_quantity"`
	ItemUnitPrice   string       `json:"item_unit_price"`
	ItemLineTotal   string       `json:"item_line_total"`
	WarrantyValue   string       `json:"warranty_value"`
	WarrantyUnit    WarrantyUnit `json:"warranty_unit"`
}

// EmptyDraft returns a draft with every enum at its default.
func EmptyDraft() InvoiceDraft {
	return InvoiceDraft{Kind: KindNFE, WarrantyUnit: WarrantyMonth}
}

// HasWarranty reports whether the user entered a warranty magnitude.
func (d InvoiceDraft) HasWarranty() bool {
	return strings.TrimSpace(d.WarrantyValue) != ""
}

// DraftPatch is a partial update of an InvoiceDraft. Nil fields are left untouched.
// An empty ItemQuantity clears the quantity.
type DraftPatch struct {
	AccessKey       *string `json:"access_key,omitempty"`
	Number          *string `json:"number,omitempty"`
	Series          *string `json:"series,omitempty"`
	IssueDate       *string `json:"issue_date,omitempty"`
	TotalAmount     *string `json:"total_amount,omitempty"`
	Kind            *string `json:"kind,omitempty"`
	IssuerTaxID     *string `json:"issuer_tax_id,omitempty"`
	IssuerName      *string `json:"issuer_name,omitempty"`
	ItemDescription *string `json:"item_description,omitempty"`
	ItemQuantity    *string `json:"item_quantity,omitempty"`
	ItemUnitPrice   *string `json:"item_unit_price,omitempty"`
	ItemLineTotal   *string `json:"item_line_total,omitempty"`
	WarrantyValue   *string `json:"warranty_value,omitempty"`
	WarrantyUnit    *string `json:"warranty_unit,omitempty"`
}

// Apply merges p into d and returns the result. Enums are coerced here so a draft
// never holds an invalid kind or unit.
func (d InvoiceDraft) Apply(p DraftPatch) InvoiceDraft {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&d.AccessKey, p.AccessKey)
	set(&d.Number, p.Number)
	set(&d.Series, p.Series)
	set(&d.IssueDate, p.IssueDate)
	set(&d.TotalAmount, p.TotalAmount)
	set(&d.IssuerTaxID, p.IssuerTaxID)
	set(&d.IssuerName, p.IssuerName)
	set(&d.ItemDescription, p.ItemDescription)
	set(&d.ItemUnitPrice, p.ItemUnitPrice)
	set(&d.ItemLineTotal, p.ItemLineTotal)
	set(&d.WarrantyValue, p.WarrantyValue)

	if p.Kind != nil {
		d.Kind = ParseInvoiceKind(*p.Kind)
	}
	if p.WarrantyUnit != nil {
		d.WarrantyUnit = ParseWarrantyUnit(*p.WarrantyUnit)
	}
	if p.ItemQuantity != nil {
		if strings.TrimSpace(*p.ItemQuantity) == "" {
			d.ItemQuantity = nil
		} else {
			q := *p.ItemQuantity
			d.ItemQuantity = &q
		}
	}
	return d
}

// Invoice is a persisted row of the invoices table.
type Invoice struct {
	ID              string              `json:"id"`
	UserID          string              `json:"user_id"`
	AccessKey       string              `json:"access_key"`
	Number          string              `json:"number"`
	Series          *string             `json:"series"`
	IssueDate       string              `json:"issue_date"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Kind            InvoiceKind         `json:"kind"`
	IssuerTaxID     string              `json:"emitente_cnpj"`
	IssuerName      *string             `json:"emitente_name"`
	ItemDescription *string             `json:"item_description"`
	ItemQuantity    decimal.NullDecimal `json:"item_quantity"`
	ItemUnitPrice   decimal.Decimal     `json:"item_unit_price"`
	ItemLineTotal   decimal.Decimal     `json:"item_line_total"`
	WarrantyDays    *int                `json:"warranty_days"`
	CreatedAt       string              `json:"created_at,omitempty"`
	UpdatedAt       string              `json:"updated_at,omitempty"`
}

// InvoiceView is an invoice enriched for display.
type InvoiceView struct {
	*Invoice
	Warranty      *WarrantyStatus `json:"warranty,omitempty"`
	AttachmentURL string          `json:"attachment_url,omitempty"`
}

// DashboardSummary aggregates a user's invoices for the dashboard.
type DashboardSummary struct {
	TotalInvoices int64           `json:"total_invoices"`
	ThisMonth     int64           `json:"this_month"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Recent        []*Invoice      `json:"recent"`
}

// SaveResult is returned by a successful save. UploadWarning is set when the
// record was inserted but its attachment could not be stored.
type SaveResult struct {
	InvoiceID      string `json:"invoice_id"`
	WarrantyDays   *int   `json:"warranty_days"`
	AttachmentPath string `json:"attachment_path,omitempty"`
	UploadWarning  string `json:"upload_warning,omitempty"`
}

// InvoiceRepository defines persistence operations for invoices.
type InvoiceRepository interface {
	// Create inserts the invoice and returns the generated id.
	Create(ctx context.Context, invoice *Invoice, token string) (string, error)
	GetByID(ctx context.Context, userID, id string, token string) (*Invoice, error)
	ListByUser(ctx context.Context, userID string, token string) ([]*Invoice, error)
	Recent(ctx context.Context, userID string, limit int, token string) ([]*Invoice, error)
	// Count returns the number of invoices issued within [from, to]. A zero bound is open.
	Count(ctx context.Context, userID string, from, to time.Time, token string) (int64, error)
	TotalAmounts(ctx context.Context, userID string, token string) ([]decimal.Decimal, error)
}

// InvoiceService defines the read-side use cases for saved invoices.
type InvoiceService interface {
	ListInvoices(ctx context.Context, auth AuthContext, query string) ([]*InvoiceView, error)
	GetInvoice(ctx context.Context, auth AuthContext, id string) (*InvoiceView, error)
	Dashboard(ctx context.Context, auth AuthContext) (*DashboardSummary, error)
}
