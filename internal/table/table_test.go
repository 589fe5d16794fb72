package table

import (
	"html/template"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-society-manager/internal/pagination"
)

type member struct {
	ID     string    `json:"id"`
	Name   string    `json:"full_name"`
	Role   string    `json:"role"`
	Joined time.Time `json:"joined"`
	Flat   *string   `json:"flat"`
}

func memberColumns() []Column[member] {
	return []Column[member]{
		{Key: "full_name", Header: "Name"},
		{Key: "role", Header: "Role", Value: func(m member) string { return strings.ToUpper(m.Role) }},
		{Key: "joined", Header: "Joined", MobileLabel: "Member since"},
		{Key: "flat", Header: "Flat", Render: func(m member) template.HTML {
			if m.Flat == nil {
				return "<em>none</em>"
			}
			return template.HTML(template.HTMLEscapeString(*m.Flat))
		}},
	}
}

func memberActions() []Action[member] {
	return []Action[member]{
		{Label: "View", Href: func(m member) string { return "/members/" + m.ID }},
		{Label: "Edit", Href: func(m member) string { return "/members/" + m.ID + "/edit" }},
		{Label: "Delete", Method: "POST", Confirm: "Delete member?", Href: func(m member) string { return "/members/" + m.ID + "/delete" }},
	}
}

func sampleMembers() []member {
	flat := "A-101"
	return []member{
		{ID: "m1", Name: "Asha", Role: "admin", Joined: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Flat: &flat},
		{ID: "m2", Name: "Ravi", Role: "resident"},
	}
}

func renderString(t *testing.T, view View) string {
	t.Helper()
	html, err := HTML(view)
	require.NoError(t, err)
	return string(html)
}

func TestStateOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, StateLoading, StateOf(true, 0))
	assert.Equal(t, StateLoading, StateOf(true, 12))
	assert.Equal(t, StateEmpty, StateOf(false, 0))
	assert.Equal(t, StatePopulated, StateOf(false, 1))
}

func TestBuildLoadingReplacesData(t *testing.T) {
	t.Parallel()

	view := Build(Options[member]{
		Data:         sampleMembers(),
		Columns:      memberColumns(),
		Actions:      memberActions(),
		Loading:      true,
		SkeletonRows: 3,
	})

	require.Equal(t, StateLoading, view.State)
	assert.Empty(t, view.Rows)
	assert.Len(t, view.SkeletonRows, 3)
	assert.Len(t, view.SkeletonCells, 5)

	html := renderString(t, view)
	assert.Equal(t, 3, strings.Count(html, `class="sm-skeleton-row"`))
	assert.Equal(t, 3, strings.Count(html, `sm-card-skeleton`))
	assert.NotContains(t, html, "Asha")
}

func TestBuildEmpty(t *testing.T) {
	t.Parallel()

	view := Build(Options[member]{
		Columns:      memberColumns(),
		EmptyMessage: "No residents yet",
	})

	require.Equal(t, StateEmpty, view.State)
	html := renderString(t, view)
	assert.Equal(t, 1, strings.Count(html, `class="sm-table-empty"`))
	assert.Equal(t, 1, strings.Count(html, `sm-card sm-card-empty`))
	assert.Equal(t, 2, strings.Count(html, "No residents yet"))
	assert.NotContains(t, html, `class="sm-row"`)
}

func TestBuildCellPrecedence(t *testing.T) {
	t.Parallel()

	view := Build(Options[member]{Data: sampleMembers(), Columns: memberColumns()})
	require.Len(t, view.Rows, 2)

	first := view.Rows[0].DesktopCells
	assert.Equal(t, template.HTML("Asha"), first[0].Content)
	assert.Equal(t, template.HTML("ADMIN"), first[1].Content)
	assert.Equal(t, template.HTML("2024-03-01"), first[2].Content)
	assert.Equal(t, template.HTML("A-101"), first[3].Content)

	second := view.Rows[1].DesktopCells
	assert.Equal(t, template.HTML(""), second[2].Content)
	assert.Equal(t, template.HTML("<em>none</em>"), second[3].Content)

	assert.Equal(t, "Member since", view.Rows[0].MobileCells[2].Label)
	assert.Equal(t, "Name", view.Rows[0].MobileCells[0].Label)
}

func TestBuildViewportColumns(t *testing.T) {
	t.Parallel()

	view := Build(Options[member]{
		Data:               sampleMembers(),
		Columns:            memberColumns(),
		Actions:            memberActions(),
		DesktopVisibleKeys: []string{"full_name", "role", "joined"},
		MobileVisibleKeys:  []string{"full_name"},
	})

	require.Len(t, view.Headers, 3)
	require.Len(t, view.MobileHeaders, 1)
	assert.True(t, view.HasActions)
	assert.Equal(t, 4, view.ColumnCount)

	for _, row := range view.Rows {
		assert.Len(t, row.DesktopCells, 3)
		assert.Len(t, row.MobileCells, 1)
		assert.Len(t, row.Actions, 3)
	}

	html := renderString(t, view)
	assert.Contains(t, html, `class="sm-desktop"`)
	assert.Contains(t, html, `class="sm-mobile"`)
	assert.Contains(t, html, "min-width: 768px")
	assert.Equal(t, 2, strings.Count(html, `class="sm-card-actions"`))
}

func TestBuildActions(t *testing.T) {
	t.Parallel()

	t.Run("actions render in declaration order", func(t *testing.T) {
		view := Build(Options[member]{Data: sampleMembers(), Columns: memberColumns(), Actions: memberActions()})
		labels := []string{}
		for _, action := range view.Rows[0].Actions {
			labels = append(labels, action.Label)
		}
		assert.Equal(t, []string{"View", "Edit", "Delete"}, labels)
		assert.Equal(t, "/members/m1/delete", view.Rows[0].Actions[2].Href)
		assert.True(t, view.Rows[0].Actions[2].IsForm)
		assert.False(t, view.Rows[0].Actions[0].IsForm)
	})

	t.Run("row actions hook filters per record", func(t *testing.T) {
		view := Build(Options[member]{
			Data:    sampleMembers(),
			Columns: memberColumns(),
			Actions: memberActions(),
			RowActions: func(m member, actions []Action[member]) []Action[member] {
				if m.ID != "m1" {
					return actions
				}
				return actions[:1]
			},
		})
		assert.Len(t, view.Rows[0].Actions, 1)
		assert.Len(t, view.Rows[1].Actions, 3)
		assert.True(t, view.HasActions)
	})

	t.Run("no actions column without actions", func(t *testing.T) {
		view := Build(Options[member]{Data: sampleMembers(), Columns: memberColumns()})
		assert.False(t, view.HasActions)
		assert.NotContains(t, renderString(t, view), "sm-actions-header")
	})
}

func TestBuildFooter(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("/app/residents?search=bob&page=3")
	require.NoError(t, err)
	meta := pagination.NewMeta(3, 10, 91)

	view := Build(Options[member]{
		Data:           sampleMembers(),
		Columns:        memberColumns(),
		Pagination:     &meta,
		ShowPagination: true,
		BaseURL:        base,
	})

	require.NotNil(t, view.Footer)
	footer := view.Footer
	assert.Equal(t, "Showing 21 to 30 of 91 entries", footer.RangeLabel)
	assert.Equal(t, "/app/residents?page=2&pageSize=10&search=bob", footer.Prev.Href)
	assert.Equal(t, "/app/residents?page=4&pageSize=10&search=bob", footer.Next.Href)
	assert.False(t, footer.Prev.Disabled)
	assert.False(t, footer.Next.Disabled)
	assert.Nil(t, footer.First)
	require.NotNil(t, footer.Last)
	assert.Equal(t, 10, footer.Last.Number)
	assert.True(t, footer.TrailingEllipsis)

	numbers := []int{}
	for _, p := range footer.Pages {
		numbers = append(numbers, p.Number)
		assert.Equal(t, p.Number == 3, p.Current)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, numbers)

	require.Len(t, footer.PageSizes, 4)
	assert.Equal(t, "/app/residents?page=1&pageSize=50&search=bob", footer.PageSizes[2].Href)
	assert.True(t, footer.PageSizes[0].Selected)

	html := renderString(t, view)
	assert.Contains(t, html, "Showing 21 to 30 of 91 entries")
}

func TestFooterHiddenWithoutFlag(t *testing.T) {
	t.Parallel()

	meta := pagination.NewMeta(1, 10, 2)
	view := Build(Options[member]{Data: sampleMembers(), Columns: memberColumns(), Pagination: &meta})
	assert.Nil(t, view.Footer)
}

func TestEmptyTableWithPagination(t *testing.T) {
	t.Parallel()

	meta := pagination.Meta{CurrentPage: 1, TotalPages: 1, TotalItems: 0, PageSize: 10}
	view := Build(Options[member]{
		Columns:        memberColumns(),
		EmptyMessage:   "Nothing here",
		Pagination:     &meta,
		ShowPagination: true,
	})

	require.NotNil(t, view.Footer)
	assert.Empty(t, view.Footer.Pages)
	assert.True(t, view.Footer.Prev.Disabled)
	assert.True(t, view.Footer.Next.Disabled)

	html := renderString(t, view)
	assert.Contains(t, html, "Nothing here")
	assert.NotContains(t, html, "sm-page-number")
	assert.Equal(t, 2, strings.Count(html, `aria-disabled="true"`))
}

func TestSearchBox(t *testing.T) {
	t.Parallel()

	t.Run("omitted when not configured", func(t *testing.T) {
		view := Build(Options[member]{Columns: memberColumns()})
		assert.Nil(t, view.Search)
		assert.NotContains(t, renderString(t, view), `type="search"`)
	})

	t.Run("keeps other parameters and drops page", func(t *testing.T) {
		base, err := url.Parse("/app/bills?status=paid&page=4&pageSize=20&search=old")
		require.NoError(t, err)

		view := Build(Options[member]{
			Columns: memberColumns(),
			Search:  &Search{Param: "search", Value: "old"},
			BaseURL: base,
		})

		require.NotNil(t, view.Search)
		assert.Equal(t, "/app/bills", view.Search.Action)
		assert.Equal(t, []HiddenField{{Name: "pageSize", Value: "20"}, {Name: "status", Value: "paid"}}, view.Search.Hidden)
		assert.Contains(t, renderString(t, view), `value="old"`)
	})
}

func TestRenderEscapesValues(t *testing.T) {
	t.Parallel()

	view := Build(Options[member]{
		Data:    []member{{ID: "x", Name: "<script>alert(1)</script>"}},
		Columns: memberColumns(),
	})

	html := renderString(t, view)
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestFieldValue(t *testing.T) {
	t.Parallel()

	flat := "B-2"
	m := member{ID: "m9", Name: "Kiran", Flat: &flat}

	assert.Equal(t, "Kiran", FieldValue(m, "full_name"))
	assert.Equal(t, "Kiran", FieldValue(&m, "Name"))
	assert.Equal(t, "B-2", FieldValue(m, "flat"))
	assert.Equal(t, "", FieldValue(m, "missing"))
	assert.Equal(t, "", FieldValue((*member)(nil), "id"))
	assert.Equal(t, "42", FieldValue(map[string]any{"count": 42}, "count"))
	assert.Equal(t, "Yes", FieldValue(map[string]bool{"active": true}, "active"))
	assert.Equal(t, "", FieldValue(42, "count"))
}
