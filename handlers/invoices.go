package handlers

import (
	"net/http"

	"ironcraft/apperr"
	"ironcraft/invoice"
)

type InvoiceHandler struct {
	aggregator *invoice.Aggregator
}

func NewInvoiceHandler(aggregator *invoice.Aggregator) *InvoiceHandler {
	return &InvoiceHandler{aggregator: aggregator}
}

func (h *InvoiceHandler) buildInvoice(w http.ResponseWriter, r *http.Request) *invoice.InvoiceData {
	companyID := r.URL.Query().Get("company_id")
	if companyID == "" {
		writeError(w, apperr.Invalid("company_id", "company selection is required"))
		return nil
	}

	data, err := h.aggregator.BuildInvoice(r.Context(),
		companyID,
		r.URL.Query().Get("start"),
		r.URL.Query().Get("end"),
	)
	if err != nil {
		writeError(w, err)
		return nil
	}
	return data
}

func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	if data := h.buildInvoice(w, r); data != nil {
		writeJSON(w, http.StatusOK, data)
	}
}

// GetInvoiceHTML renders the shareable invoice document.
func (h *InvoiceHandler) GetInvoiceHTML(w http.ResponseWriter, r *http.Request) {
	data := h.buildInvoice(w, r)
	if data == nil {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := invoice.RenderHTML(w, data); err != nil {
		writeError(w, err)
	}
}

// LegacyMismatches reports deprecated pay records that diverge from the
// ledger, for operator review.
func (h *InvoiceHandler) LegacyMismatches(w http.ResponseWriter, r *http.Request) {
	mismatches, err := h.aggregator.LegacyPayMismatches(r.Context(),
		r.URL.Query().Get("start"),
		r.URL.Query().Get("end"),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	if mismatches == nil {
		mismatches = []invoice.PayMismatch{}
	}
	writeJSON(w, http.StatusOK, mismatches)
}
