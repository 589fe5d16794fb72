package handler

import (
	"net/http"

	"go-society-manager/internal/middleware"
	"go-society-manager/internal/model"
)

type UnitHandler struct {
	service         unitService
	defaultPageSize int
}

func NewUnitHandler(service unitService, defaultPageSize int) *UnitHandler {
	return &UnitHandler{service: service, defaultPageSize: defaultPageSize}
}

func (h *UnitHandler) List(w http.ResponseWriter, r *http.Request) {
	societyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	req, filters := listParams(r, h.defaultPageSize, "type", "occupied")
	page, err := h.service.List(r.Context(), societyID, req, filters)
	if err != nil {
		writeError(w, err)
		return
	}

	writePage(w, page)
}

func (h *UnitHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	unit, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, unit, nil)
}

func (h *UnitHandler) Create(w http.ResponseWriter, r *http.Request) {
	societyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.UnitInput
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	unit, err := h.service.Create(r.Context(), societyID, payload, middleware.ActorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, unit, nil)
}

func (h *UnitHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.UnitInput
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	unit, err := h.service.Update(r.Context(), id, payload, middleware.ActorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, unit, nil)
}

func (h *UnitHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
