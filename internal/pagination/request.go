package pagination

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// Request is the page a caller asks a data source for.
type Request struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Offset is the number of rows to skip for this page.
func (r Request) Offset() int {
	if r.Page < 1 {
		return 0
	}
	return (r.Page - 1) * r.Limit()
}

func (r Request) Limit() int {
	if r.PageSize <= 0 {
		return DefaultPageSize
	}
	return r.PageSize
}

// Normalize clamps the request into the range data sources accept.
func (r Request) Normalize() Request {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.PageSize <= 0 {
		r.PageSize = DefaultPageSize
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
	return r
}

// Filters carries optional search, sort and resource specific filter values
// through to a data source untouched.
type Filters struct {
	Search string            `json:"search,omitempty"`
	Sort   string            `json:"sort,omitempty"`
	Order  string            `json:"order,omitempty"`
	Values map[string]string `json:"values,omitempty"`
}

func (f Filters) Get(key string) string {
	if f.Values == nil {
		return ""
	}
	return f.Values[key]
}

// Descending reports whether Order asks for a descending sort.
func (f Filters) Descending() bool {
	return strings.EqualFold(strings.TrimSpace(f.Order), "desc")
}

// Page is what every data source returns: a record slice and the metadata
// computed for it.
type Page[T any] struct {
	Data       []T  `json:"data"`
	Pagination Meta `json:"pagination"`
}

// FetchFunc is the data-source contract a list view is parameterised by.
type FetchFunc[T any] func(ctx context.Context, req Request, filters Filters) (Page[T], error)

// RequestFromQuery reads page and pageSize (or limit) from query parameters.
// Missing or malformed values fall back to page 1 and defaultSize.
func RequestFromQuery(query url.Values, defaultSize int) Request {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}

	size := atoiOr(query.Get("pageSize"), 0)
	if size == 0 {
		size = atoiOr(query.Get("limit"), defaultSize)
	}

	return Request{
		Page:     atoiOr(query.Get("page"), DefaultPage),
		PageSize: size,
	}.Normalize()
}

// FiltersFromQuery reads search, sort and order plus the named filter keys.
func FiltersFromQuery(query url.Values, keys ...string) Filters {
	filters := Filters{
		Search: strings.TrimSpace(query.Get("search")),
		Sort:   strings.TrimSpace(query.Get("sort")),
		Order:  strings.TrimSpace(query.Get("order")),
	}

	for _, key := range keys {
		value := strings.TrimSpace(query.Get(key))
		if value == "" {
			continue
		}
		if filters.Values == nil {
			filters.Values = map[string]string{}
		}
		filters.Values[key] = value
	}

	return filters
}

func atoiOr(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}
