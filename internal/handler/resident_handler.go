package handler

import (
	"net/http"

	"go-society-manager/internal/middleware"
	"go-society-manager/internal/model"
)

type ResidentHandler struct {
	service         residentService
	defaultPageSize int
}

func NewResidentHandler(service residentService, defaultPageSize int) *ResidentHandler {
	return &ResidentHandler{service: service, defaultPageSize: defaultPageSize}
}

func (h *ResidentHandler) List(w http.ResponseWriter, r *http.Request) {
	societyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	req, filters := listParams(r, h.defaultPageSize, "status", "role")
	page, err := h.service.List(r.Context(), societyID, req, filters)
	if err != nil {
		writeError(w, err)
		return
	}

	writePage(w, page)
}

func (h *ResidentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	resident, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, resident, nil)
}

func (h *ResidentHandler) Create(w http.ResponseWriter, r *http.Request) {
	societyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.ResidentInput
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	resident, err := h.service.Create(r.Context(), societyID, payload, middleware.ActorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, resident, nil)
}

func (h *ResidentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.ResidentInput
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	resident, err := h.service.Update(r.Context(), id, payload, middleware.ActorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, resident, nil)
}

func (h *ResidentHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
