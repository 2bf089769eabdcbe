package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"notafiscal-server/internal/domain"
)

// RawExtractionPayload is a decoded webhook body, either flat or wrapped in a
// top-level "data" object.
type RawExtractionPayload interface {
	Normalize() domain.InvoiceDraft
}

type flatPayload struct {
	fields extractionFields
}

type envelopedPayload struct {
	data extractionFields
}

func (p flatPayload) Normalize() domain.InvoiceDraft      { return p.fields.draft() }
func (p envelopedPayload) Normalize() domain.InvoiceDraft { return p.data.draft() }

var errNotAnObject = errors.New("extraction response is not a JSON object")

// extractionFields holds the recognised keys of a payload. Anything else is dropped.
type extractionFields struct {
	AccessKey   string
	Number      string
	Series      string
	IssueDate   string
	TotalAmount string
	Kind        string
	IssuerCNPJ  string
	IssuerName  string
	Item        *extractionItem
}

type extractionItem struct {
	Description string
	Quantity    string
	UnitPrice   string
	LineTotal   string
}

// decodePayload parses body and returns the payload together with the decoded
// fields object for schema validation.
func decodePayload(body []byte) (RawExtractionPayload, interface{}, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, nil, err
	}
	if top == nil {
		return nil, nil, errNotAnObject
	}

	if raw, ok := top["data"]; ok && isObject(raw) {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, nil, err
		}
		return envelopedPayload{data: decodeFields(inner)}, asDocument(raw), nil
	}
	return flatPayload{fields: decodeFields(top)}, asDocument(body), nil
}

func decodeFields(m map[string]json.RawMessage) extractionFields {
	f := extractionFields{
		AccessKey:   text(m, "access_key"),
		Number:      text(m, "number"),
		Series:      text(m, "series"),
		IssueDate:   text(m, "issue_date"),
		TotalAmount: text(m, "total_amount"),
		Kind:        text(m, "kind"),
	}

	var issuer map[string]json.RawMessage
	if raw, ok := m["emitente"]; ok && json.Unmarshal(raw, &issuer) == nil {
		f.IssuerCNPJ = text(issuer, "cnpj")
		f.IssuerName = text(issuer, "name")
	}

	var items []map[string]json.RawMessage
	if raw, ok := m["itens"]; ok && json.Unmarshal(raw, &items) == nil && len(items) > 0 {
		first := items[0]
		f.Item = &extractionItem{
			Description: text(first, "description"),
			Quantity:    text(first, "quantity"),
			UnitPrice:   text(first, "unit_price"),
			LineTotal:   text(first, "line_total"),
		}
	}
	return f
}

func (f extractionFields) draft() domain.InvoiceDraft {
	d := domain.EmptyDraft()
	d.AccessKey = f.AccessKey
	d.Number = f.Number
	d.Series = f.Series
	d.IssueDate = normalizeIssueDate(f.IssueDate)
	d.TotalAmount = f.TotalAmount
	d.Kind = domain.ParseInvoiceKind(f.Kind)
	d.IssuerTaxID = f.IssuerCNPJ
	d.IssuerName = f.IssuerName

	if f.Item != nil {
		d.ItemDescription = f.Item.Description
		if f.Item.Quantity != "" {
			q := f.Item.Quantity
			d.ItemQuantity = &q
		}
		d.ItemUnitPrice = f.Item.UnitPrice
		d.ItemLineTotal = f.Item.LineTotal
	}
	if d.ItemLineTotal == "" {
		d.ItemLineTotal = f.TotalAmount
	}
	return d
}

var brazilianDate = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)

// normalizeIssueDate rewrites dd/mm/yyyy to yyyy-mm-dd and leaves anything else as is.
func normalizeIssueDate(s string) string {
	if m := brazilianDate.FindStringSubmatch(s); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1]
	}
	return s
}

// text reads key as a trimmed string. Numbers keep their literal form; null,
// objects and arrays read as empty.
func text(m map[string]json.RawMessage, key string) string {
	raw, ok := m[key]
	if !ok {
		return ""
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return ""
		}
		return strings.TrimSpace(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if json.Unmarshal(raw, &n) != nil {
			return ""
		}
		return n.String()
	default:
		return ""
	}
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func asDocument(raw []byte) interface{} {
	var doc interface{}
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	if d.Decode(&doc) != nil {
		return nil
	}
	return doc
}
