package pagination

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrSuperseded is returned by a fetch whose result was discarded because a
// newer request was issued while it was in flight.
var ErrSuperseded = errors.New("paged query superseded by a newer request")

// Observer receives fetch outcomes, typically for metrics.
type Observer interface {
	ObserveFetch(resource string, duration time.Duration, err error)
	ObserveSuperseded(resource string)
}

// Query is the reusable paged-query primitive: it owns a State, the current
// filters and the last applied record slice, and drives fetch whenever any of
// them change. Each fetch is tagged with a generation number and only the
// result of the most recent one is applied.
type Query[T any] struct {
	resource string
	fetch    FetchFunc[T]
	state    *State
	observer Observer

	mu         sync.Mutex
	filters    Filters
	data       []T
	generation uint64
	loading    bool
	err        error
}

type QueryOption func(*queryOptions)

type queryOptions struct {
	pageSize int
	request  *Request
	filters  Filters
	observer Observer
}

func WithPageSize(size int) QueryOption {
	return func(o *queryOptions) { o.pageSize = size }
}

// WithRequest starts the query at req instead of page 1.
func WithRequest(req Request) QueryOption {
	return func(o *queryOptions) { o.request = &req }
}

func WithFilters(filters Filters) QueryOption {
	return func(o *queryOptions) { o.filters = filters }
}

func WithObserver(observer Observer) QueryOption {
	return func(o *queryOptions) { o.observer = observer }
}

func NewQuery[T any](resource string, fetch FetchFunc[T], opts ...QueryOption) *Query[T] {
	options := queryOptions{pageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(&options)
	}

	state := NewState(options.pageSize)
	if options.request != nil {
		state.SetPageSize(options.request.Limit())
		state.SetCurrentPage(options.request.Normalize().Page)
	}

	return &Query[T]{
		resource: resource,
		fetch:    fetch,
		state:    state,
		observer: options.observer,
		filters:  options.filters,
		data:     []T{},
	}
}

func (q *Query[T]) State() *State {
	return q.state
}

func (q *Query[T]) Filters() Filters {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.filters
}

// Data returns the records of the last applied fetch.
func (q *Query[T]) Data() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.data
}

// Loading reports whether the most recent request is still in flight.
func (q *Query[T]) Loading() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.loading
}

// Err is the error of the most recent completed fetch, if it failed.
func (q *Query[T]) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}

func (q *Query[T]) SetPage(ctx context.Context, page int) error {
	q.state.HandlePageChange(page)
	return q.Reload(ctx)
}

func (q *Query[T]) SetPageSize(ctx context.Context, size int) error {
	q.state.HandlePageSizeChange(size)
	return q.Reload(ctx)
}

// SetFilters replaces the filters and returns to page 1.
func (q *Query[T]) SetFilters(ctx context.Context, filters Filters) error {
	q.mu.Lock()
	q.filters = filters
	q.mu.Unlock()
	q.state.SetCurrentPage(DefaultPage)
	return q.Reload(ctx)
}

// Reload fetches the current page. On failure the previous data and
// metadata stay in place and the error is returned.
func (q *Query[T]) Reload(ctx context.Context) error {
	q.mu.Lock()
	q.generation++
	generation := q.generation
	filters := q.filters
	q.loading = true
	q.mu.Unlock()

	req := q.state.Request()
	started := time.Now()
	page, err := q.fetch(ctx, req, filters)
	if q.observer != nil {
		q.observer.ObserveFetch(q.resource, time.Since(started), err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if generation != q.generation {
		if q.observer != nil {
			q.observer.ObserveSuperseded(q.resource)
		}
		return ErrSuperseded
	}

	q.loading = false
	if err != nil {
		q.err = err
		slog.Warn("paged fetch failed", "resource", q.resource, "page", req.Page, "page_size", req.PageSize, "error", err)
		return err
	}

	q.err = nil
	if page.Data == nil {
		page.Data = []T{}
	}
	q.data = page.Data
	q.state.SetPagination(page.Pagination)

	return nil
}
