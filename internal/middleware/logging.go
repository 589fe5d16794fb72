package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	requestIDHeader     = "X-Request-ID"
	requestIDContextKey = contextKey("request_id")

	// maxCapturedBody bounds how much of an error response is kept for logging.
	maxCapturedBody = 4 << 10
)

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

// Logging tags every request with an X-Request-ID and writes one access
// line per request. API error envelopes are decoded so the line carries the
// error code without a second lookup.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r.WithContext(context.WithValue(r.Context(), requestIDContextKey, requestID)))

		attrs := []slog.Attr{
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", recorder.status),
			slog.Int64("bytes", recorder.written),
			slog.Int64("duration_ms", time.Since(started).Milliseconds()),
			slog.String("client_ip", ClientIP(r)),
		}
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" && pattern != r.URL.Path {
				attrs = append(attrs, slog.String("route", pattern))
			}
		}
		if recorder.status >= http.StatusBadRequest {
			if r.URL.RawQuery != "" {
				attrs = append(attrs, slog.String("query", r.URL.RawQuery))
			}
			attrs = append(attrs, envelopeErrorAttrs(recorder.body.Bytes())...)
		}

		slog.LogAttrs(r.Context(), accessLevel(r.URL.Path, recorder.status), "request", attrs...)
	})
}

func accessLevel(path string, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case isUnlimitedPath(path):
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

func envelopeErrorAttrs(body []byte) []slog.Attr {
	if len(body) == 0 {
		return nil
	}

	var parsed struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Error == nil {
		return nil
	}

	attrs := []slog.Attr{
		slog.String("error_code", parsed.Error.Code),
		slog.String("error_message", parsed.Error.Message),
	}
	if parsed.Error.Details != "" {
		attrs = append(attrs, slog.String("error_details", parsed.Error.Details))
	}
	return attrs
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	written     int64
	body        bytes.Buffer
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	if rw.wroteHeader {
		return
	}
	rw.status = statusCode
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	if rw.status >= http.StatusBadRequest && rw.body.Len() < maxCapturedBody {
		rw.body.Write(b[:min(len(b), maxCapturedBody-rw.body.Len())])
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
