// Package pagination holds the contract shared by paged data sources, list
// views and the table footer: request state, server-computed metadata, the
// page-number window and a paged query that applies only its latest result.
package pagination

import "fmt"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// DefaultPageSizeOptions are offered by the page-size selector when a view
// does not configure its own.
var DefaultPageSizeOptions = []int{10, 20, 50, 100}

// Meta is the pagination metadata computed by a data source alongside the
// records it returns. Views treat it as authoritative and never recompute it.
type Meta struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	PageSize    int  `json:"pageSize"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// NewMeta derives metadata for a page of size pageSize out of totalItems.
// TotalPages is never below 1 so an empty collection still has a first page.
func NewMeta(page int, pageSize int, totalItems int) Meta {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if totalItems < 0 {
		totalItems = 0
	}

	totalPages := (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	return Meta{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		PageSize:    pageSize,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// FirstItem is the 1-based index of the first record on the current page, or
// 0 when there are no records.
func (m Meta) FirstItem() int {
	if m.TotalItems == 0 {
		return 0
	}
	first := (m.CurrentPage-1)*m.PageSize + 1
	if first > m.TotalItems {
		return m.TotalItems
	}
	return first
}

// LastItem is the 1-based index of the last record on the current page.
func (m Meta) LastItem() int {
	last := m.CurrentPage * m.PageSize
	if last > m.TotalItems {
		last = m.TotalItems
	}
	return last
}

// RangeLabel renders the "Showing X to Y of Z entries" footer text.
func RangeLabel(m Meta) string {
	return fmt.Sprintf("Showing %d to %d of %d entries", m.FirstItem(), m.LastItem(), m.TotalItems)
}
