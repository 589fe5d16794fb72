package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go-society-manager/internal/middleware"
	"go-society-manager/internal/model"
	"go-society-manager/pkg/apierror"
)

func (p *Pages) LoginForm(w http.ResponseWriter, r *http.Request) {
	p.render(w, loginTemplate, http.StatusOK, pageData{
		Title: "Sign in",
		Next:  safeNext(r.URL.Query().Get("next")),
	})
}

// Login exchanges the form credentials for an access token kept in the
// session cookie.
func (p *Pages) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	if err := r.ParseForm(); err != nil {
		p.loginFailed(w, "", "", http.StatusBadRequest, "Invalid form submission.")
		return
	}

	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	next := safeNext(r.PostForm.Get("next"))

	if username == "" || password == "" {
		p.loginFailed(w, username, next, http.StatusBadRequest, "Username and password are required.")
		return
	}

	tokens, err := p.services.Auth.Login(r.Context(), username, password, middleware.ClientIP(r))
	if err != nil {
		p.loginFailed(w, username, next, loginStatus(err), loginMessage(err))
		return
	}

	http.SetCookie(w, p.sessionCookie(tokens.AccessToken, int(p.cfg.SessionTTL.Seconds())))
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (p *Pages) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, p.sessionCookie("", -1))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (p *Pages) loginFailed(w http.ResponseWriter, username string, next string, status int, message string) {
	p.render(w, loginTemplate, status, pageData{
		Title:    "Sign in",
		Flash:    message,
		Username: username,
		Next:     next,
	})
}

func (p *Pages) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   p.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func loginStatus(err error) int {
	if errors.Is(err, model.ErrInvalidCredentials) {
		return http.StatusUnauthorized
	}
	return apierror.StatusOf(err)
}

func loginMessage(err error) string {
	switch status := loginStatus(err); {
	case status == http.StatusUnauthorized:
		return "Invalid username or password."
	case status == http.StatusTooManyRequests:
		return "Too many failed attempts. Try again later."
	case status < http.StatusInternalServerError:
		var apiErr *apierror.APIError
		if errors.As(err, &apiErr) {
			return apiErr.Message
		}
	}
	return "Sign in is unavailable right now. Please try again."
}

// safeNext keeps redirects on this site.
func safeNext(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	return raw
}
