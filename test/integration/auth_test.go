//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-society-manager/internal/config"
)

func TestAuthFlowAndProtectedEndpoints(t *testing.T) {
	server, accessToken := newServer(t, nil)

	me := doJSON(t, http.MethodGet, server.URL+"/api/v1/auth/me", nil, accessToken)
	require.Equal(t, http.StatusOK, me.status)
	assert.Contains(t, me.raw, `"role":"admin"`)

	anonymous := doJSON(t, http.MethodGet, server.URL+"/api/v1/societies", nil, "")
	require.Equal(t, http.StatusUnauthorized, anonymous.status)

	wrong := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login", map[string]string{"username": adminUsername, "password": "wrong"}, "")
	require.Equal(t, http.StatusUnauthorized, wrong.status)
}

func TestRefreshRotatesTokens(t *testing.T) {
	server, _ := newServer(t, nil)

	first := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login", map[string]string{"username": adminUsername, "password": adminPassword}, "")
	require.Equal(t, http.StatusOK, first.status)
	var tokens struct {
		RefreshToken string `json:"refresh_token"`
	}
	first.decode(t, &tokens)

	refreshed := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/refresh", map[string]string{"refresh_token": tokens.RefreshToken}, "")
	require.Equal(t, http.StatusOK, refreshed.status, refreshed.raw)

	replayed := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/refresh", map[string]string{"refresh_token": tokens.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, replayed.status)
}

func TestSecurityHeadersOnResponses(t *testing.T) {
	server, accessToken := newServer(t, nil)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/v1/societies", nil, accessToken)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "nosniff", resp.header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.header.Get("X-Frame-Options"))
	assert.NotEmpty(t, resp.header.Get("Content-Security-Policy"))
}

func TestAuthRateLimitReturns429(t *testing.T) {
	server, _ := newServer(t, func(cfg *config.Config) {
		cfg.AuthRateLimitRPM = 3
	})

	// newServer already spent one attempt logging in.
	payload := map[string]string{"username": adminUsername, "password": adminPassword}
	for attempt := 0; attempt < 2; attempt++ {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login", payload, "")
		require.Equal(t, http.StatusOK, resp.status)
	}

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login", payload, "")
	require.Equal(t, http.StatusTooManyRequests, resp.status)
	assert.NotEmpty(t, resp.header.Get("Retry-After"))
}
