package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIErrorFormatting(t *testing.T) {
	t.Parallel()

	require.Equal(t, "NOT_FOUND: unit not found (u-1)", NotFound("unit", "u-1").Error())
	require.Equal(t, "FORBIDDEN: admins only", Forbidden("admins only").Error())

	var nilErr *APIError
	require.Equal(t, "", nilErr.Error())
}

func TestStatusOf(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("load bill: %w", Conflict("bill already paid", "b-1"))
	require.Equal(t, http.StatusConflict, StatusOf(wrapped))
	require.Equal(t, http.StatusBadRequest, StatusOf(BadRequest("name is required", "name")))
	require.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
}
