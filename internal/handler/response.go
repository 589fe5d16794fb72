package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"go-society-manager/internal/model"
	"go-society-manager/internal/pagination"
	"go-society-manager/pkg/apierror"
)

const maxJSONBody = 1 << 20

func writeSuccess(w http.ResponseWriter, status int, data any, meta *pagination.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// writePage writes a paged list with its metadata in the envelope's meta.
func writePage[T any](w http.ResponseWriter, page pagination.Page[T]) {
	items := page.Data
	if items == nil {
		items = []T{}
	}
	meta := page.Pagination
	writeSuccess(w, http.StatusOK, model.ListData[T]{Items: items}, &meta)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	case errors.As(err, &maxBytesErr):
		status = http.StatusRequestEntityTooLarge
		body.Code = "PAYLOAD_TOO_LARGE"
		body.Message = "request body is too large"
	case errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrSocietyNotFound),
		errors.Is(err, model.ErrUnitNotFound),
		errors.Is(err, model.ErrResidentNotFound),
		errors.Is(err, model.ErrIncomeNotFound),
		errors.Is(err, model.ErrExpenseNotFound),
		errors.Is(err, model.ErrBillNotFound),
		errors.Is(err, model.ErrAttachmentMissing):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = err.Error()
	case errors.Is(err, model.ErrUserAlreadyExists):
		status = http.StatusConflict
		body.Code = "ALREADY_EXISTS"
		body.Message = "User already exists"
	case errors.Is(err, model.ErrBillAlreadyPaid),
		errors.Is(err, model.ErrBillNotPaid),
		errors.Is(err, model.ErrAdminNotDeletable):
		status = http.StatusConflict
		body.Code = "CONFLICT"
		body.Message = err.Error()
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Invalid credentials"
	case errors.Is(err, model.ErrUnauthorized):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Authentication required"
	case errors.Is(err, model.ErrTokenNotFound), errors.Is(err, model.ErrTokenExpired):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Invalid or expired token"
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "Access denied"
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
	default:
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}

// decodeJSON reads a bounded JSON body into dst. An empty body leaves dst
// untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest)
	}
	return nil
}

// NotFound answers unmatched API routes with the JSON envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, apierror.New("NOT_FOUND", "route not found", r.Method+" "+r.URL.Path, http.StatusNotFound))
}
