package handler

import (
	"net/http"

	"go-society-manager/internal/middleware"
	"go-society-manager/internal/model"
)

type SocietyHandler struct {
	service         societyService
	defaultPageSize int
}

func NewSocietyHandler(service societyService, defaultPageSize int) *SocietyHandler {
	return &SocietyHandler{service: service, defaultPageSize: defaultPageSize}
}

func (h *SocietyHandler) List(w http.ResponseWriter, r *http.Request) {
	req, filters := listParams(r, h.defaultPageSize, "city")

	page, err := h.service.List(r.Context(), req, filters)
	if err != nil {
		writeError(w, err)
		return
	}

	writePage(w, page)
}

func (h *SocietyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	society, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, society, nil)
}

func (h *SocietyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.SocietyInput
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	society, err := h.service.Create(r.Context(), payload, middleware.ActorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, society, nil)
}

func (h *SocietyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.SocietyInput
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	society, err := h.service.Update(r.Context(), id, payload, middleware.ActorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, society, nil)
}

func (h *SocietyHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// Summary answers GET /societies/{id}/summary?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *SocietyHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	query := r.URL.Query()
	summary, err := h.service.Summary(r.Context(), id, query.Get("from"), query.Get("to"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, summary, nil)
}
