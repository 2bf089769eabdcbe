package handler

import (
	"net/http"

	"notafiscal-server/internal/domain"

	"github.com/gorilla/mux"
)

// InvoiceHandler serves saved invoices and the dashboard summary
type InvoiceHandler struct {
	invoiceService domain.InvoiceService
	logger         domain.Logger
}

func NewInvoiceHandler(invoiceService domain.InvoiceService, logger domain.Logger) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, logger: logger}
}

// ListInvoices returns the user's invoices, optionally filtered by ?q=
func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	auth, ok := authFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	invoices, err := h.invoiceService.ListInvoices(r.Context(), auth, r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(w, h.logger, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

// GetInvoice returns one invoice with its attachment URL
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	auth, ok := authFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, http.StatusBadRequest, "Invoice ID is required")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(r.Context(), auth, id)
	if err != nil {
		writeDomainError(w, h.logger, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	auth, ok := authFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	summary, err := h.invoiceService.Dashboard(r.Context(), auth)
	if err != nil {
		writeDomainError(w, h.logger, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
