package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"go-society-manager/internal/model"
)

// Timeout bounds API handlers. Handlers should honour r.Context(); the
// client receives 503 with a JSON error once timeout elapses.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	body, _ := json.Marshal(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    "REQUEST_TIMEOUT",
			Message: "request timed out",
		},
	})

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, string(body))
	}
}
