package pagination

const windowSize = 5

// Window is the set of page-number buttons shown by a pagination footer.
// Pages is the sliding window; ShowFirst and ShowLast pin page 1 and the last
// page when the window does not already contain them.
type Window struct {
	Pages            []int
	ShowFirst        bool
	ShowLast         bool
	LeadingEllipsis  bool
	TrailingEllipsis bool
	TotalPages       int
}

// NewWindow computes the page-number window for meta. An empty collection
// gets no page buttons at all.
func NewWindow(meta Meta) Window {
	total := meta.TotalPages
	if meta.TotalItems == 0 || total < 1 {
		return Window{TotalPages: total}
	}

	current := meta.CurrentPage
	var start, end int
	switch {
	case total <= windowSize:
		start, end = 1, total
	case current <= 3:
		start, end = 1, windowSize
	case current >= total-2:
		start, end = total-windowSize+1, total
	default:
		start, end = current-2, current+2
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}

	return Window{
		Pages:            pages,
		ShowFirst:        start > 1,
		LeadingEllipsis:  start > 2,
		ShowLast:         end < total,
		TrailingEllipsis: end < total-1,
		TotalPages:       total,
	}
}
