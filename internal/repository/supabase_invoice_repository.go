package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"notafiscal-server/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

const invoicesTable = "invoices"

// SupabaseInvoiceRepository implements the domain.InvoiceRepository interface
type SupabaseInvoiceRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewSupabaseInvoiceRepository creates a new Supabase invoice repository
func NewSupabaseInvoiceRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.InvoiceRepository {
	return &SupabaseInvoiceRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

func (r *SupabaseInvoiceRepository) clientFor(token string) (*supabase.Client, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated client: %w", err)
	}
	return client, nil
}

// Create inserts an invoice and returns the id the database generated for it
func (r *SupabaseInvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice, token string) (string, error) {
	client, err := r.clientFor(token)
	if err != nil {
		return "", err
	}

	start := time.Now()
	data, _, err := client.From(invoicesTable).
		Insert(invoiceRow(invoice), false, "", "representation", "").
		Execute()
	if err != nil {
		r.logger.Error("Failed to insert invoice", err, "user_id", invoice.UserID, "elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("failed to create invoice: %w", err)
	}

	var rows []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 || rows[0].ID == "" {
		return "", fmt.Errorf("insert returned no id")
	}

	r.logger.Info("Invoice inserted",
		"invoice_id", rows[0].ID,
		"user_id", invoice.UserID,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rows[0].ID, nil
}

// GetByID returns a single invoice owned by userID
func (r *SupabaseInvoiceRepository) GetByID(ctx context.Context, userID, id string, token string) (*domain.Invoice, error) {
	client, err := r.clientFor(token)
	if err != nil {
		return nil, err
	}

	data, _, err := client.From(invoicesTable).
		Select("*", "", false).
		Eq("id", id).
		Eq("user_id", userID).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	invoices, err := decodeInvoices(data)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, domain.ErrInvoiceNotFound
	}
	return invoices[0], nil
}

// ListByUser returns every invoice of userID, newest issue date first
func (r *SupabaseInvoiceRepository) ListByUser(ctx context.Context, userID string, token string) ([]*domain.Invoice, error) {
	client, err := r.clientFor(token)
	if err != nil {
		return nil, err
	}

	data, _, err := client.From(invoicesTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Order("issue_date", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return decodeInvoices(data)
}

// Recent returns the latest limit invoices of userID by issue date
func (r *SupabaseInvoiceRepository) Recent(ctx context.Context, userID string, limit int, token string) ([]*domain.Invoice, error) {
	client, err := r.clientFor(token)
	if err != nil {
		return nil, err
	}

	data, _, err := client.From(invoicesTable).
		Select("id, number, issue_date, total_amount, kind", "", false).
		Eq("user_id", userID).
		Order("issue_date", &postgrest.OrderOpts{Ascending: false}).
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get recent invoices: %w", err)
	}
	return decodeInvoices(data)
}

// Count returns how many invoices of userID were issued within [from, to]
func (r *SupabaseInvoiceRepository) Count(ctx context.Context, userID string, from, to time.Time, token string) (int64, error) {
	client, err := r.clientFor(token)
	if err != nil {
		return 0, err
	}

	query := client.From(invoicesTable).
		Select("id", "exact", true).
		Eq("user_id", userID)
	// Filters are keyed by column, so a closed range has to go through and().
	switch {
	case !from.IsZero() && !to.IsZero():
		query = query.And(fmt.Sprintf("issue_date.gte.%s,issue_date.lte.%s",
			from.Format(domain.IssueDateLayout), to.Format(domain.IssueDateLayout)), "")
	case !from.IsZero():
		query = query.Gte("issue_date", from.Format(domain.IssueDateLayout))
	case !to.IsZero():
		query = query.Lte("issue_date", to.Format(domain.IssueDateLayout))
	}

	_, count, err := query.Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return count, nil
}

// TotalAmounts returns the total_amount of every invoice of userID
func (r *SupabaseInvoiceRepository) TotalAmounts(ctx context.Context, userID string, token string) ([]decimal.Decimal, error) {
	client, err := r.clientFor(token)
	if err != nil {
		return nil, err
	}

	data, _, err := client.From(invoicesTable).
		Select("total_amount", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice totals: %w", err)
	}

	var rows []struct {
		TotalAmount decimal.NullDecimal `json:"total_amount"`
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	amounts := make([]decimal.Decimal, 0, len(rows))
	for _, row := range rows {
		if row.TotalAmount.Valid {
			amounts = append(amounts, row.TotalAmount.Decimal)
		}
	}
	return amounts, nil
}

// invoiceRow maps an invoice to the insert payload. Blank optional fields become
// null and amounts are sent as JSON numbers.
func invoiceRow(inv *domain.Invoice) map[string]interface{} {
	row := map[string]interface{}{
		"user_id":          inv.UserID,
		"access_key":       inv.AccessKey,
		"number":           inv.Number,
		"series":           inv.Series,
		"issue_date":       inv.IssueDate,
		"total_amount":     number(inv.TotalAmount),
		"kind":             inv.Kind,
		"emitente_cnpj":    inv.IssuerTaxID,
		"emitente_name":    inv.IssuerName,
		"item_description": inv.ItemDescription,
		"item_quantity":    nil,
		"item_unit_price":  number(inv.ItemUnitPrice),
		"item_line_total":  number(inv.ItemLineTotal),
		"warranty_days":    inv.WarrantyDays,
	}
	if inv.ItemQuantity.Valid {
		row["item_quantity"] = number(inv.ItemQuantity.Decimal)
	}
	return row
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func decodeInvoices(data []byte) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	if err := json.Unmarshal(data, &invoices); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return invoices, nil
}
