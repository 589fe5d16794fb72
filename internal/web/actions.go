package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-society-manager/internal/middleware"
	"go-society-manager/pkg/apierror"
)

// DeleteResident handles the Delete row action of the residents table and
// returns to the page it was submitted from.
func (p *Pages) DeleteResident(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		p.NotFound(w, r)
		return
	}

	if err := p.services.Residents.Delete(r.Context(), id, middleware.ActorFromRequest(r)); err != nil {
		p.renderError(w, r, apierror.StatusOf(err), flashMessage("residents", err))
		return
	}

	http.Redirect(w, r, backTo(r, "/societies"), http.StatusSeeOther)
}

// backTo is the same-site page named by the Referer header, or fallback.
func backTo(r *http.Request, fallback string) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return fallback
	}
	target := ref.Path
	if ref.RawQuery != "" {
		target += "?" + ref.RawQuery
	}
	if next := safeNext(target); next != "/" {
		return next
	}
	return fallback
}
