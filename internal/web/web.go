// Package web serves the browser pages: a login form and one paged list
// per resource, each rendered through the table package.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"go-society-manager/internal/middleware"
	"go-society-manager/internal/model"
	"go-society-manager/internal/pagination"
	"go-society-manager/pkg/apierror"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var (
	baseTemplate  = template.Must(template.New("layout.html").ParseFS(templateFS, "templates/layout.html"))
	loginTemplate = pageTemplate("login.html")
	listTemplate  = pageTemplate("list.html")
	errorTemplate = pageTemplate("error.html")
)

func pageTemplate(name string) *template.Template {
	return template.Must(template.Must(baseTemplate.Clone()).ParseFS(templateFS, "templates/"+name))
}

type authenticator interface {
	Login(ctx context.Context, username string, password string, ip string) (model.TokenPair, error)
}

type societyLister interface {
	List(ctx context.Context, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Society], error)
}

// scopedLister pages the records of one society.
type scopedLister[T any] interface {
	List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[T], error)
}

type billLister interface {
	scopedLister[model.MaintenanceBill]
	ListForUser(ctx context.Context, userID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.MaintenanceBill], error)
}

type residentDeleter interface {
	scopedLister[model.Resident]
	Delete(ctx context.Context, id string, actor model.AuditActor) error
}

type Services struct {
	Auth      authenticator
	Societies societyLister
	Units     scopedLister[model.Unit]
	Residents residentDeleter
	Incomes   scopedLister[model.Income]
	Expenses  scopedLister[model.Expense]
	Bills     billLister
}

type Config struct {
	DefaultPageSize int
	Breakpoint      string
	SecureCookies   bool
	SessionTTL      time.Duration
}

type Pages struct {
	services Services
	observer pagination.Observer
	cfg      Config
}

func New(services Services, observer pagination.Observer, cfg Config) *Pages {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = pagination.DefaultPageSize
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 15 * time.Minute
	}
	return &Pages{services: services, observer: observer, cfg: cfg}
}

type navLink struct {
	Label  string
	Href   string
	Active bool
}

type pageData struct {
	Title   string
	User    *model.AuthClaims
	Nav     []navLink
	Flash   string
	Heading string
	Table   template.HTML

	Username string
	Next     string
	Status   int
	Message  string
}

// Static serves the stylesheet and script the layout links to, under
// /static/.
func Static() http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// Home sends admins to the society list and everyone else to their bills.
func (p *Pages) Home(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	if claims.IsAdmin() {
		http.Redirect(w, r, "/societies", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/my/bills", http.StatusSeeOther)
}

// AdminOnly renders a 403 page for sessions without the admin role.
func (p *Pages) AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.ClaimsFromContext(r.Context())
		if !claims.IsAdmin() {
			p.renderError(w, r, http.StatusForbidden, "This page is only available to society administrators.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (p *Pages) NotFound(w http.ResponseWriter, r *http.Request) {
	p.renderError(w, r, http.StatusNotFound, "The page you asked for does not exist.")
}

func (p *Pages) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	p.render(w, errorTemplate, status, pageData{
		Title:   http.StatusText(status),
		User:    claims,
		Nav:     navFor(claims, "", r.URL.Path),
		Status:  status,
		Message: message,
	})
}

func (p *Pages) render(w http.ResponseWriter, tmpl *template.Template, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("render page failed", "title", data.Title, "error", err)
	}
}

// flashMessage is the text shown above a table whose fetch failed.
func flashMessage(resource string, err error) string {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatus < http.StatusInternalServerError {
		return apiErr.Message
	}
	return "Could not load " + resource + ". Please try again."
}

func navFor(claims *model.AuthClaims, societyID string, current string) []navLink {
	if claims == nil {
		return nil
	}

	var links []navLink
	if claims.IsAdmin() {
		links = append(links, navLink{Label: "Societies", Href: "/societies"})
		if societyID != "" {
			base := "/societies/" + societyID
			links = append(links,
				navLink{Label: "Units", Href: base + "/units"},
				navLink{Label: "Residents", Href: base + "/residents"},
				navLink{Label: "Incomes", Href: base + "/incomes"},
				navLink{Label: "Expenses", Href: base + "/expenses"},
				navLink{Label: "Bills", Href: base + "/bills"},
			)
		}
	}
	links = append(links, navLink{Label: "My bills", Href: "/my/bills"})

	for i := range links {
		links[i].Active = links[i].Href == current
	}
	return links
}

func isNotFound(err error) bool {
	return apierror.StatusOf(err) == http.StatusNotFound
}
