//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-society-manager/internal/app"
	"go-society-manager/internal/config"
	"go-society-manager/internal/database"
	"go-society-manager/internal/storage"
)

const (
	adminUsername = "admin"
	adminPassword = "admin-password-123"
	testSecret    = "integration-secret-0123456789abcdef"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		CurrentPage int  `json:"currentPage"`
		TotalPages  int  `json:"totalPages"`
		TotalItems  int  `json:"totalItems"`
		PageSize    int  `json:"pageSize"`
		HasNextPage bool `json:"hasNextPage"`
		HasPrevPage bool `json:"hasPrevPage"`
	} `json:"meta"`
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		ServerPort:           "8080",
		RequestTimeout:       30 * time.Second,
		DatabaseURL:          os.Getenv("TEST_DATABASE_URL"),
		DBMaxConns:           4,
		DBMinConns:           1,
		JWTSecret:            testSecret,
		JWTAccessTTL:         15 * time.Minute,
		JWTRefreshTTL:        24 * time.Hour,
		CORSOrigins:          []string{"*"},
		RateLimitRPM:         1000,
		AuthRateLimitRPM:     1000,
		AttachmentRoot:       t.TempDir(),
		ThumbnailRoot:        filepath.Join(t.TempDir(), "thumbnails"),
		MaxUploadSize:        10 << 20,
		DefaultPageSize:      10,
		TableBreakpoint:      "768px",
		OverdueInterval:      time.Hour,
		TokenCleanupInterval: time.Hour,
	}
}

// newServer wires the whole application against the database named by
// TEST_DATABASE_URL, emptied first, and returns it with an admin token.
func newServer(t *testing.T, mutate func(cfg *config.Config)) (*httptest.Server, string) {
	t.Helper()

	cfg := testConfig(t)
	if cfg.DatabaseURL == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}
	if mutate != nil {
		mutate(cfg)
	}

	ctx := context.Background()
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.EnsureSchema(ctx))

	_, err = db.Pool.Exec(ctx, `TRUNCATE maintenance_bills, expenses, incomes, residents, units, societies, audit_entries, refresh_tokens, users CASCADE`)
	require.NoError(t, err)

	store, err := storage.New(cfg.AttachmentRoot)
	require.NoError(t, err)

	components := app.Wire(cfg, db, store)
	require.NoError(t, components.Auth.EnsureDefaultAdmin(ctx, adminUsername, adminPassword))

	auditCtx, stopAudit := context.WithCancel(ctx)
	auditDone := make(chan struct{})
	go func() {
		defer close(auditDone)
		components.Audit.Run(auditCtx, components.Bus)
	}()

	server := httptest.NewServer(components.Handler)
	t.Cleanup(func() {
		server.Close()
		stopAudit()
		<-auditDone
	})

	return server, login(t, server, adminUsername, adminPassword)
}

func login(t *testing.T, server *httptest.Server, username string, password string) string {
	t.Helper()

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login", map[string]string{"username": username, "password": password}, "")
	require.Equal(t, http.StatusOK, resp.status, resp.raw)

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	resp.decode(t, &tokens)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
	return tokens.AccessToken
}

type response struct {
	status int
	header http.Header
	body   envelope
	raw    string
}

func (r response) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body.Data, dst), r.raw)
}

func doJSON(t *testing.T, method string, url string, payload any, accessToken string) response {
	t.Helper()

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	out := response{status: resp.StatusCode, header: resp.Header, raw: buf.String()}
	if len(bytes.TrimSpace(buf.Bytes())) > 0 && resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out.body), out.raw)
	}
	return out
}
