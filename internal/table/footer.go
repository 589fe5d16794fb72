package table

import (
	"net/url"
	"strconv"

	"go-society-manager/internal/pagination"
)

type PageLink struct {
	Number   int
	Href     string
	Current  bool
	Disabled bool
}

type SizeOption struct {
	Size     int
	Href     string
	Selected bool
}

// Footer is the pagination control rendered under a table.
type Footer struct {
	RangeLabel       string
	First            *PageLink
	Last             *PageLink
	Pages            []PageLink
	LeadingEllipsis  bool
	TrailingEllipsis bool
	Prev             PageLink
	Next             PageLink
	PageSizes        []SizeOption
}

func buildFooter(meta pagination.Meta, sizes []int, base *url.URL) Footer {
	if len(sizes) == 0 {
		sizes = pagination.DefaultPageSizeOptions
	}

	window := pagination.NewWindow(meta)
	footer := Footer{
		RangeLabel:       pagination.RangeLabel(meta),
		LeadingEllipsis:  window.LeadingEllipsis,
		TrailingEllipsis: window.TrailingEllipsis,
		Prev: PageLink{
			Number:   meta.CurrentPage - 1,
			Href:     pageHref(base, meta.CurrentPage-1, meta.PageSize),
			Disabled: !meta.HasPrevPage,
		},
		Next: PageLink{
			Number:   meta.CurrentPage + 1,
			Href:     pageHref(base, meta.CurrentPage+1, meta.PageSize),
			Disabled: !meta.HasNextPage,
		},
	}

	if window.ShowFirst {
		footer.First = &PageLink{Number: 1, Href: pageHref(base, 1, meta.PageSize)}
	}
	if window.ShowLast {
		footer.Last = &PageLink{Number: window.TotalPages, Href: pageHref(base, window.TotalPages, meta.PageSize)}
	}

	footer.Pages = make([]PageLink, 0, len(window.Pages))
	for _, p := range window.Pages {
		footer.Pages = append(footer.Pages, PageLink{
			Number:  p,
			Href:    pageHref(base, p, meta.PageSize),
			Current: p == meta.CurrentPage,
		})
	}

	footer.PageSizes = make([]SizeOption, 0, len(sizes))
	for _, size := range sizes {
		footer.PageSizes = append(footer.PageSizes, SizeOption{
			Size:     size,
			Href:     pageHref(base, 1, size),
			Selected: size == meta.PageSize,
		})
	}

	return footer
}

// pageHref keeps every other query parameter of base and replaces page and
// pageSize.
func pageHref(base *url.URL, page int, pageSize int) string {
	path := ""
	query := url.Values{}
	if base != nil {
		path = base.Path
		query = base.Query()
	}

	query.Del("limit")
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))

	return path + "?" + query.Encode()
}
