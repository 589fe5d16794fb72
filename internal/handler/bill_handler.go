package handler

import (
	"mime"
	"net/http"
	"strconv"

	"go-society-manager/internal/middleware"
	"go-society-manager/internal/model"
)

var billFilterKeys = []string{"status", "period"}

type BillHandler struct {
	billing         billingService
	receipts        receiptService
	defaultPageSize int
}

func NewBillHandler(billing billingService, receipts receiptService, defaultPageSize int) *BillHandler {
	return &BillHandler{billing: billing, receipts: receipts, defaultPageSize: defaultPageSize}
}

func (h *BillHandler) List(w http.ResponseWriter, r *http.Request) {
	societyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	req, filters := listParams(r, h.defaultPageSize, billFilterKeys...)
	page, err := h.billing.List(r.Context(), societyID, req, filters)
	if err != nil {
		writeError(w, err)
		return
	}

	writePage(w, page)
}

// ListMine pages the bills of the residents linked to the caller.
func (h *BillHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	req, filters := listParams(r, h.defaultPageSize, billFilterKeys...)

	page, err := h.billing.ListForUser(r.Context(), userIDFromRequest(r), req, filters)
	if err != nil {
		writeError(w, err)
		return
	}

	writePage(w, page)
}

func (h *BillHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	bill, err := h.billing.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, bill, nil)
}

func (h *BillHandler) Generate(w http.ResponseWriter, r *http.Request) {
	societyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.GenerateBillsRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.billing.GenerateBills(r.Context(), societyID, payload.Period, middleware.ActorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if result.Created > 0 {
		status = http.StatusCreated
	}
	writeSuccess(w, status, result, nil)
}

func (h *BillHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.PayBillRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	bill, err := h.billing.Pay(r.Context(), id, payload, middleware.ActorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, bill, nil)
}

// Receipt serves the PDF receipt of a paid bill. Residents only reach
// receipts of their own bills.
func (h *BillHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var (
		pdf      []byte
		filename string
	)
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok && claims.IsAdmin() {
		pdf, filename, err = h.receipts.Receipt(r.Context(), id)
	} else {
		pdf, filename, err = h.receipts.ReceiptForUser(r.Context(), id, userIDFromRequest(r))
	}
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
