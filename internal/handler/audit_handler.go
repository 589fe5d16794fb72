package handler

import (
	"net/http"
	"strings"

	"go-society-manager/internal/model"
)

type AuditHandler struct {
	service auditService
}

func NewAuditHandler(service auditService) *AuditHandler {
	return &AuditHandler{service: service}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req, filters := listParams(r, 50)

	page, err := h.service.Query(r.Context(), model.AuditQuery{
		Action:  strings.TrimSpace(query.Get("action")),
		ActorID: strings.TrimSpace(query.Get("actor_id")),
		Status:  strings.TrimSpace(query.Get("status")),
		From:    strings.TrimSpace(query.Get("from")),
		To:      strings.TrimSpace(query.Get("to")),
	}, req, filters)
	if err != nil {
		writeError(w, err)
		return
	}

	writePage(w, page)
}
