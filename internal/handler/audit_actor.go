package handler

import (
	"net/http"

	"go-society-manager/internal/middleware"
)

// userIDFromRequest is the authenticated user's ID, or "" for anonymous
// requests.
func userIDFromRequest(r *http.Request) string {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return ""
	}
	return claims.UserID
}
