// Package table builds the view model of a generic record table and renders
// it as HTML. A table is always rendered twice, once as a desktop <table> and
// once as stacked mobile cards; CSS keyed to a breakpoint decides which one
// is visible, so nothing is remounted when the viewport changes.
package table

import (
	"html/template"
	"net/url"

	"go-society-manager/internal/pagination"
)

const (
	DefaultBreakpoint   = "768px"
	DefaultSkeletonRows = 5
	DefaultEmptyMessage = "No records found"
)

// ViewState is derived from (loading, len(data)) on every build.
type ViewState string

const (
	StateLoading   ViewState = "loading"
	StateEmpty     ViewState = "empty"
	StatePopulated ViewState = "populated"
)

func StateOf(loading bool, rows int) ViewState {
	switch {
	case loading:
		return StateLoading
	case rows == 0:
		return StateEmpty
	default:
		return StatePopulated
	}
}

// Column describes one data column. Render wins over Value, and Value wins
// over a lookup of Key on the record.
type Column[T any] struct {
	Key         string
	Header      string
	Render      func(record T) template.HTML
	Value       func(record T) string
	ClassName   string
	MobileLabel string
}

// Action is a row-scoped control. With an empty Method or GET it renders as a
// link, otherwise as a one-button form submitting to Href.
type Action[T any] struct {
	Icon      template.HTML
	Label     string
	Href      func(record T) string
	Method    string
	ClassName string
	Confirm   string
}

// Search configures the search box. Param is the query parameter the box
// submits; Value is the text currently searched for.
type Search struct {
	Param       string
	Value       string
	Placeholder string
}

type Options[T any] struct {
	ID           string
	Data         []T
	Columns      []Column[T]
	Actions      []Action[T]
	RowActions   func(record T, actions []Action[T]) []Action[T]
	Loading      bool
	EmptyMessage string

	Pagination      *pagination.Meta
	PageSizeOptions []int
	ShowPagination  bool
	BaseURL         *url.URL

	Search *Search

	DesktopVisibleKeys []string
	MobileVisibleKeys  []string
	Breakpoint         string
	SkeletonRows       int
}

type HeaderCell struct {
	Key       string
	Header    string
	ClassName string
}

type Cell struct {
	Key       string
	Label     string
	ClassName string
	Content   template.HTML
}

type ActionButton struct {
	Icon      template.HTML
	Label     string
	Href      string
	Method    string
	ClassName string
	Confirm   string
	IsForm    bool
}

type Row struct {
	DesktopCells []Cell
	MobileCells  []Cell
	Actions      []ActionButton
}

type SearchBox struct {
	Action      string
	Param       string
	Value       string
	Placeholder string
	Hidden      []HiddenField
}

type HiddenField struct {
	Name  string
	Value string
}

// View is the template-ready result of Build.
type View struct {
	ID            string
	State         ViewState
	EmptyMessage  string
	Breakpoint    string
	Headers       []HeaderCell
	MobileHeaders []HeaderCell
	Rows          []Row
	SkeletonRows  []int
	SkeletonCells []int
	HasActions    bool
	ColumnCount   int
	Search        *SearchBox
	Footer        *Footer
}

func (v View) Loading() bool   { return v.State == StateLoading }
func (v View) Empty() bool     { return v.State == StateEmpty }
func (v View) Populated() bool { return v.State == StatePopulated }

// Build turns opts into a View. Stale data passed together with Loading is
// never shown: the skeleton replaces it.
func Build[T any](opts Options[T]) View {
	id := opts.ID
	if id == "" {
		id = "records"
	}
	breakpoint := opts.Breakpoint
	if breakpoint == "" {
		breakpoint = DefaultBreakpoint
	}
	emptyMessage := opts.EmptyMessage
	if emptyMessage == "" {
		emptyMessage = DefaultEmptyMessage
	}
	skeleton := opts.SkeletonRows
	if skeleton <= 0 {
		skeleton = DefaultSkeletonRows
	}

	desktop := visibleColumns(opts.Columns, opts.DesktopVisibleKeys)
	mobile := visibleColumns(opts.Columns, opts.MobileVisibleKeys)

	view := View{
		ID:            id,
		State:         StateOf(opts.Loading, len(opts.Data)),
		EmptyMessage:  emptyMessage,
		Breakpoint:    breakpoint,
		Headers:       headers(desktop),
		MobileHeaders: headers(mobile),
		HasActions:    len(opts.Actions) > 0,
	}

	view.ColumnCount = len(view.Headers)
	if view.HasActions {
		view.ColumnCount++
	}

	view.SkeletonRows = sequence(skeleton)
	view.SkeletonCells = sequence(view.ColumnCount)

	if view.State == StatePopulated {
		view.Rows = make([]Row, 0, len(opts.Data))
		for _, record := range opts.Data {
			view.Rows = append(view.Rows, buildRow(record, desktop, mobile, opts))
		}
	}

	if opts.Search != nil {
		view.Search = buildSearch(opts.Search, opts.BaseURL)
	}

	if opts.ShowPagination && opts.Pagination != nil {
		footer := buildFooter(*opts.Pagination, opts.PageSizeOptions, opts.BaseURL)
		view.Footer = &footer
	}

	return view
}

func buildRow[T any](record T, desktop []Column[T], mobile []Column[T], opts Options[T]) Row {
	row := Row{
		DesktopCells: make([]Cell, 0, len(desktop)),
		MobileCells:  make([]Cell, 0, len(mobile)),
	}

	for _, col := range desktop {
		row.DesktopCells = append(row.DesktopCells, Cell{
			Key:       col.Key,
			Label:     col.Header,
			ClassName: col.ClassName,
			Content:   cellContent(record, col),
		})
	}

	for _, col := range mobile {
		label := col.MobileLabel
		if label == "" {
			label = col.Header
		}
		row.MobileCells = append(row.MobileCells, Cell{
			Key:       col.Key,
			Label:     label,
			ClassName: col.ClassName,
			Content:   cellContent(record, col),
		})
	}

	actions := opts.Actions
	if opts.RowActions != nil {
		actions = opts.RowActions(record, opts.Actions)
	}
	row.Actions = make([]ActionButton, 0, len(actions))
	for _, action := range actions {
		row.Actions = append(row.Actions, buildAction(record, action))
	}

	return row
}

func buildAction[T any](record T, action Action[T]) ActionButton {
	href := "#"
	if action.Href != nil {
		href = action.Href(record)
	}
	method := action.Method
	if method == "" {
		method = "GET"
	}
	return ActionButton{
		Icon:      action.Icon,
		Label:     action.Label,
		Href:      href,
		Method:    method,
		ClassName: action.ClassName,
		Confirm:   action.Confirm,
		IsForm:    method != "GET",
	}
}

func cellContent[T any](record T, col Column[T]) template.HTML {
	if col.Render != nil {
		return col.Render(record)
	}
	if col.Value != nil {
		return template.HTML(template.HTMLEscapeString(col.Value(record)))
	}
	return template.HTML(template.HTMLEscapeString(FieldValue(record, col.Key)))
}

func visibleColumns[T any](columns []Column[T], keys []string) []Column[T] {
	if len(keys) == 0 {
		return columns
	}

	allowed := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		allowed[key] = struct{}{}
	}

	out := make([]Column[T], 0, len(keys))
	for _, col := range columns {
		if _, ok := allowed[col.Key]; ok {
			out = append(out, col)
		}
	}
	return out
}

func headers[T any](columns []Column[T]) []HeaderCell {
	out := make([]HeaderCell, 0, len(columns))
	for _, col := range columns {
		out = append(out, HeaderCell{Key: col.Key, Header: col.Header, ClassName: col.ClassName})
	}
	return out
}

func buildSearch(search *Search, base *url.URL) *SearchBox {
	param := search.Param
	if param == "" {
		param = "search"
	}

	box := &SearchBox{
		Param:       param,
		Value:       search.Value,
		Placeholder: search.Placeholder,
	}
	if box.Placeholder == "" {
		box.Placeholder = "Search..."
	}

	if base == nil {
		return box
	}

	box.Action = base.Path
	query := base.Query()
	for name, values := range query {
		// A new search always starts from the first page.
		if name == param || name == "page" || len(values) == 0 {
			continue
		}
		box.Hidden = append(box.Hidden, HiddenField{Name: name, Value: values[0]})
	}
	sortHidden(box.Hidden)

	return box
}

func sequence(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
