package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-society-manager/internal/pagination"
	"go-society-manager/pkg/apierror"
)

func parseIntOrDefault(raw string, fallback int) int {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

// listParams reads page, pageSize, search, sort, order and the named
// resource filters from the query string.
func listParams(r *http.Request, defaultPageSize int, filterKeys ...string) (pagination.Request, pagination.Filters) {
	query := r.URL.Query()
	return pagination.RequestFromQuery(query, defaultPageSize), pagination.FiltersFromQuery(query, filterKeys...)
}

func pathID(r *http.Request, name string) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, name))
	if id == "" {
		return "", apierror.BadRequest(name+" is required", name)
	}
	return id, nil
}
