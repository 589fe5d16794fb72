package web

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"go-society-manager/internal/middleware"
	"go-society-manager/internal/model"
	"go-society-manager/internal/pagination"
	"go-society-manager/internal/table"
)

// listPage is everything that differs between two list pages.
type listPage[T any] struct {
	resource    string
	title       string
	heading     string
	societyID   string
	fetch       pagination.FetchFunc[T]
	filterKeys  []string
	columns     []table.Column[T]
	actions     []table.Action[T]
	rowActions  func(record T, actions []table.Action[T]) []table.Action[T]
	searchHint  string
	emptyText   string
	mobileKeys  []string
	desktopKeys []string
}

// serveList runs one paged fetch for the request's page, size and filters
// and renders the result. A failed fetch still renders the table with a
// flash message above it.
func serveList[T any](p *Pages, w http.ResponseWriter, r *http.Request, page listPage[T]) {
	query := r.URL.Query()
	req := pagination.RequestFromQuery(query, p.cfg.DefaultPageSize)
	filters := pagination.FiltersFromQuery(query, page.filterKeys...)

	q := pagination.NewQuery(page.resource, page.fetch,
		pagination.WithRequest(req),
		pagination.WithFilters(filters),
		pagination.WithObserver(p.observer),
	)

	status := http.StatusOK
	var flash string
	if err := q.Reload(r.Context()); err != nil {
		flash = flashMessage(page.resource, err)
		if page.societyID != "" && isNotFound(err) {
			status = http.StatusNotFound
		}
	}

	meta := q.State().Pagination()
	view := table.Build(table.Options[T]{
		ID:                 page.resource,
		Data:               q.Data(),
		Columns:            page.columns,
		Actions:            page.actions,
		RowActions:         page.rowActions,
		Loading:            q.Loading(),
		EmptyMessage:       page.emptyText,
		Pagination:         &meta,
		PageSizeOptions:    pagination.DefaultPageSizeOptions,
		ShowPagination:     true,
		BaseURL:            r.URL,
		Search:             &table.Search{Value: q.Filters().Search, Placeholder: page.searchHint},
		DesktopVisibleKeys: page.desktopKeys,
		MobileVisibleKeys:  page.mobileKeys,
		Breakpoint:         p.cfg.Breakpoint,
	})

	body, err := table.HTML(view)
	if err != nil {
		p.renderError(w, r, http.StatusInternalServerError, "The table could not be rendered.")
		return
	}

	claims, _ := middleware.ClaimsFromContext(r.Context())
	heading := page.heading
	if heading == "" {
		heading = page.title
	}
	p.render(w, listTemplate, status, pageData{
		Title:   page.title,
		User:    claims,
		Nav:     navFor(claims, page.societyID, r.URL.Path),
		Flash:   flash,
		Heading: heading,
		Table:   body,
	})
}

// scoped binds a society-scoped lister to one society.
func scoped[T any](lister scopedLister[T], societyID string) pagination.FetchFunc[T] {
	return func(ctx context.Context, req pagination.Request, filters pagination.Filters) (pagination.Page[T], error) {
		return lister.List(ctx, societyID, req, filters)
	}
}

func (p *Pages) Societies(w http.ResponseWriter, r *http.Request) {
	serveList(p, w, r, listPage[model.Society]{
		resource:   "societies",
		title:      "Societies",
		fetch:      p.services.Societies.List,
		filterKeys: []string{"city"},
		searchHint: "Search by name, city or registration no.",
		columns: []table.Column[model.Society]{
			{Key: "name", Header: "Name"},
			{Key: "city", Header: "City"},
			{Key: "registration_no", Header: "Registration no.", MobileLabel: "Reg. no."},
			{Key: "maintenance_rate", Header: "Rate / sq.ft", ClassName: "sm-num", Value: func(s model.Society) string { return money(s.MaintenanceRate) }},
			{Key: "due_day", Header: "Due day", ClassName: "sm-num"},
		},
		actions: []table.Action[model.Society]{
			{Label: "Units", Href: func(s model.Society) string { return societyPath(s.ID, "units") }},
			{Label: "Residents", Href: func(s model.Society) string { return societyPath(s.ID, "residents") }},
			{Label: "Bills", Href: func(s model.Society) string { return societyPath(s.ID, "bills") }},
		},
		mobileKeys: []string{"name", "city", "due_day"},
	})
}

func (p *Pages) Units(w http.ResponseWriter, r *http.Request) {
	societyID := chi.URLParam(r, "id")
	serveList(p, w, r, listPage[model.Unit]{
		resource:   "units",
		title:      "Units",
		societyID:  societyID,
		fetch:      scoped(p.services.Units, societyID),
		filterKeys: []string{"type", "occupied"},
		searchHint: "Search by block or number",
		columns: []table.Column[model.Unit]{
			{Key: "unit", Header: "Unit", Value: func(u model.Unit) string { return u.Label() }},
			{Key: "floor", Header: "Floor", ClassName: "sm-num"},
			{Key: "area_sqft", Header: "Area (sq.ft)", ClassName: "sm-num", Value: func(u model.Unit) string { return u.AreaSqft.StringFixed(2) }},
			{Key: "type", Header: "Type"},
			{Key: "occupied", Header: "Occupied", Render: func(u model.Unit) template.HTML { return badge(yesNo(u.Occupied), u.Occupied) }},
		},
		mobileKeys: []string{"unit", "type", "occupied"},
	})
}

func (p *Pages) Residents(w http.ResponseWriter, r *http.Request) {
	societyID := chi.URLParam(r, "id")
	serveList(p, w, r, listPage[model.Resident]{
		resource:   "residents",
		title:      "Residents",
		societyID:  societyID,
		fetch:      scoped(p.services.Residents, societyID),
		filterKeys: []string{"status", "role"},
		searchHint: "Search by name, email or phone",
		columns: []table.Column[model.Resident]{
			{Key: "full_name", Header: "Name"},
			{Key: "unit_label", Header: "Unit"},
			{Key: "email", Header: "Email"},
			{Key: "phone", Header: "Phone"},
			{Key: "role", Header: "Role"},
			{Key: "status", Header: "Status", Render: func(res model.Resident) template.HTML {
				return badge(res.Status, res.Status == model.ResidentStatusActive)
			}},
		},
		actions: []table.Action[model.Resident]{
			{Label: "Email", Href: func(res model.Resident) string { return "mailto:" + res.Email }},
			{
				Label:     "Delete",
				Href:      func(res model.Resident) string { return "/residents/" + res.ID + "/delete" },
				Method:    http.MethodPost,
				ClassName: "sm-danger",
				Confirm:   "Delete this resident?",
			},
		},
		rowActions: residentActions,
		mobileKeys: []string{"full_name", "unit_label", "status"},
	})
}

// residentActions drops Delete for admin residents.
func residentActions(res model.Resident, actions []table.Action[model.Resident]) []table.Action[model.Resident] {
	if res.Role != model.RoleAdmin {
		return actions
	}

	out := make([]table.Action[model.Resident], 0, len(actions))
	for _, action := range actions {
		if action.Label == "Delete" {
			continue
		}
		out = append(out, action)
	}
	return out
}

func (p *Pages) Incomes(w http.ResponseWriter, r *http.Request) {
	societyID := chi.URLParam(r, "id")
	serveList(p, w, r, listPage[model.Income]{
		resource:   "incomes",
		title:      "Incomes",
		societyID:  societyID,
		fetch:      scoped(p.services.Incomes, societyID),
		filterKeys: []string{"category", "from", "to"},
		searchHint: "Search by title or notes",
		columns: []table.Column[model.Income]{
			{Key: "received_on", Header: "Date"},
			{Key: "title", Header: "Title"},
			{Key: "category", Header: "Category"},
			{Key: "amount", Header: "Amount", ClassName: "sm-num", Value: func(i model.Income) string { return money(i.Amount) }},
		},
		mobileKeys: []string{"received_on", "title", "amount"},
	})
}

func (p *Pages) Expenses(w http.ResponseWriter, r *http.Request) {
	societyID := chi.URLParam(r, "id")
	serveList(p, w, r, listPage[model.Expense]{
		resource:   "expenses",
		title:      "Expenses",
		societyID:  societyID,
		fetch:      scoped(p.services.Expenses, societyID),
		filterKeys: []string{"category", "from", "to"},
		searchHint: "Search by title, vendor or notes",
		columns: []table.Column[model.Expense]{
			{Key: "spent_on", Header: "Date"},
			{Key: "title", Header: "Title"},
			{Key: "vendor", Header: "Vendor"},
			{Key: "category", Header: "Category"},
			{Key: "amount", Header: "Amount", ClassName: "sm-num", Value: func(e model.Expense) string { return money(e.Amount) }},
			{Key: "attachment", Header: "Receipt", Render: attachmentCell},
		},
		mobileKeys: []string{"spent_on", "title", "amount", "attachment"},
	})
}

func attachmentCell(e model.Expense) template.HTML {
	if e.AttachmentPath == nil || *e.AttachmentPath == "" {
		return ""
	}
	href := template.HTMLEscapeString("/api/v1/expenses/" + e.ID + "/attachment")
	return template.HTML(`<a href="` + href + `" target="_blank" rel="noopener">View</a>`)
}

func (p *Pages) Bills(w http.ResponseWriter, r *http.Request) {
	societyID := chi.URLParam(r, "id")
	serveList(p, w, r, listPage[model.MaintenanceBill]{
		resource:   "bills",
		title:      "Maintenance bills",
		societyID:  societyID,
		fetch:      scoped[model.MaintenanceBill](p.services.Bills, societyID),
		filterKeys: []string{"status", "period"},
		searchHint: "Search by unit or resident",
		columns:    billColumns(true),
		actions: []table.Action[model.MaintenanceBill]{
			{Label: "Receipt", Href: receiptHref},
		},
		rowActions: billActions,
		mobileKeys: []string{"period", "unit", "total_amount", "status"},
	})
}

func (p *Pages) MyBills(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	userID := ""
	if claims != nil {
		userID = claims.UserID
	}

	serveList(p, w, r, listPage[model.MaintenanceBill]{
		resource: "my_bills",
		title:    "My bills",
		fetch: func(ctx context.Context, req pagination.Request, filters pagination.Filters) (pagination.Page[model.MaintenanceBill], error) {
			return p.services.Bills.ListForUser(ctx, userID, req, filters)
		},
		filterKeys: []string{"status", "period"},
		searchHint: "Search by period or unit",
		emptyText:  "You have no maintenance bills yet",
		columns:    billColumns(false),
		actions: []table.Action[model.MaintenanceBill]{
			{Label: "Receipt", Href: receiptHref},
		},
		rowActions: billActions,
		mobileKeys: []string{"period", "total_amount", "status"},
	})
}

func billColumns(withResident bool) []table.Column[model.MaintenanceBill] {
	columns := []table.Column[model.MaintenanceBill]{
		{Key: "period", Header: "Period"},
		{Key: "unit", Header: "Unit", Value: func(b model.MaintenanceBill) string { return b.UnitLabel }},
	}
	if withResident {
		columns = append(columns, table.Column[model.MaintenanceBill]{Key: "resident_name", Header: "Resident"})
	}
	return append(columns,
		table.Column[model.MaintenanceBill]{Key: "due_date", Header: "Due"},
		table.Column[model.MaintenanceBill]{Key: "total_amount", Header: "Amount", ClassName: "sm-num", Value: func(b model.MaintenanceBill) string { return money(b.TotalAmount) }},
		table.Column[model.MaintenanceBill]{Key: "status", Header: "Status", Render: func(b model.MaintenanceBill) template.HTML {
			return badge(b.Status, b.IsPaid())
		}},
	)
}

// billActions offers the receipt only once a bill is paid.
func billActions(b model.MaintenanceBill, actions []table.Action[model.MaintenanceBill]) []table.Action[model.MaintenanceBill] {
	if b.IsPaid() {
		return actions
	}
	return nil
}

func receiptHref(b model.MaintenanceBill) string {
	return "/api/v1/bills/" + b.ID + "/receipt"
}

func societyPath(id string, section string) string {
	return "/societies/" + id + "/" + section
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func badge(label string, positive bool) template.HTML {
	class := "sm-badge"
	if positive {
		class += " sm-badge-ok"
	}
	return template.HTML(fmt.Sprintf(`<span class="%s">%s</span>`, class, template.HTMLEscapeString(strings.TrimSpace(label))))
}
