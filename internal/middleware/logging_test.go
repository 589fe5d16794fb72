package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &buf
}

func TestLoggingRecordsErrorEnvelope(t *testing.T) {
	logs := captureLogs(t)

	r := chi.NewRouter()
	r.Use(Logging)
	r.Get("/api/v1/bills/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, RequestIDFromContext(r.Context()))
		writeJSONError(w, http.StatusConflict, "CONFLICT", "bill already paid")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bills/42?expand=unit", nil)
	req.Header.Set(requestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(requestIDHeader))

	var line map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "req-123", line["request_id"])
	assert.Equal(t, "/api/v1/bills/{id}", line["route"])
	assert.Equal(t, float64(http.StatusConflict), line["status"])
	assert.Equal(t, "expand=unit", line["query"])
	assert.Equal(t, "CONFLICT", line["error_code"])
	assert.Equal(t, "bill already paid", line["error_message"])
}

func TestLoggingLevels(t *testing.T) {
	tests := []struct {
		path   string
		status int
		want   string
	}{
		{path: "/health", status: http.StatusOK, want: "DEBUG"},
		{path: "/societies", status: http.StatusOK, want: "INFO"},
		{path: "/societies", status: http.StatusNotFound, want: "WARN"},
		{path: "/societies", status: http.StatusInternalServerError, want: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			logs := captureLogs(t)
			handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("body"))
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			var line map[string]any
			require.NoError(t, json.Unmarshal(logs.Bytes(), &line))
			assert.Equal(t, tt.want, line["level"])
			assert.Equal(t, float64(4), line["bytes"])
			assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
		})
	}
}
