package pagination

import "sync"

// State is the per-view pagination state: the page being requested and the
// metadata of the last successful fetch. It is never persisted.
type State struct {
	mu          sync.RWMutex
	currentPage int
	pageSize    int
	meta        Meta
}

func NewState(pageSize int) *State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &State{
		currentPage: DefaultPage,
		pageSize:    pageSize,
		meta:        NewMeta(DefaultPage, pageSize, 0),
	}
}

// SetCurrentPage sets the page without bounds validation.
func (s *State) SetCurrentPage(page int) {
	s.mu.Lock()
	s.currentPage = page
	s.mu.Unlock()
}

func (s *State) SetPageSize(size int) {
	s.mu.Lock()
	s.pageSize = size
	s.mu.Unlock()
}

// HandlePageChange is invoked when the user picks a page.
func (s *State) HandlePageChange(page int) {
	s.SetCurrentPage(page)
}

// HandlePageSizeChange sets the page size and returns to page 1 so a larger
// page size never leaves the view past the last page.
func (s *State) HandlePageSizeChange(size int) {
	s.mu.Lock()
	s.pageSize = size
	s.currentPage = DefaultPage
	s.mu.Unlock()
}

// SetPagination replaces the held metadata wholesale.
func (s *State) SetPagination(meta Meta) {
	s.mu.Lock()
	s.meta = meta
	s.mu.Unlock()
}

func (s *State) CurrentPage() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentPage
}

func (s *State) PageSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pageSize
}

func (s *State) Pagination() Meta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta
}

func (s *State) Request() Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Request{Page: s.currentPage, PageSize: s.pageSize}
}
