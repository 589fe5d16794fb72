package handler

import (
	"net/http"

	"go-society-manager/internal/middleware"
	"go-society-manager/internal/model"
)

var ledgerFilterKeys = []string{"category", "from", "to"}

type IncomeHandler struct {
	service         incomeService
	defaultPageSize int
}

func NewIncomeHandler(service incomeService, defaultPageSize int) *IncomeHandler {
	return &IncomeHandler{service: service, defaultPageSize: defaultPageSize}
}

func (h *IncomeHandler) List(w http.ResponseWriter, r *http.Request) {
	societyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	req, filters := listParams(r, h.defaultPageSize, ledgerFilterKeys...)
	page, err := h.service.List(r.Context(), societyID, req, filters)
	if err != nil {
		writeError(w, err)
		return
	}

	writePage(w, page)
}

func (h *IncomeHandler) Create(w http.ResponseWriter, r *http.Request) {
	societyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.IncomeInput
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	income, err := h.service.Create(r.Context(), societyID, payload, middleware.ActorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, income, nil)
}

func (h *IncomeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id, middleware.ActorFromRequest(r)); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

type ExpenseHandler struct {
	service         expenseService
	defaultPageSize int
}

func NewExpenseHandler(service expenseService, defaultPageSize int) *ExpenseHandler {
	return &ExpenseHandler{service: service, defaultPageSize: defaultPageSize}
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	societyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	req, filters := listParams(r, h.defaultPageSize, ledgerFilterKeys...)
	page, err := h.service.List(r.Context(), societyID, req, filters)
	if err != nil {
		writeError(w, err)
		return
	}

	writePage(w, page)
}

func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	expense, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, expense, nil)
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	societyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.ExpenseInput
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	expense, err := h.service.Create(r.Context(), societyID, payload, middleware.ActorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, expense, nil)
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id, middleware.ActorFromRequest(r)); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}
