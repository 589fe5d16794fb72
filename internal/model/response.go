package model

import "go-society-manager/internal/pagination"

type APIResponse struct {
	Success bool             `json:"success"`
	Data    any              `json:"data,omitempty"`
	Error   *APIError        `json:"error,omitempty"`
	Meta    *pagination.Meta `json:"meta,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type ListData[T any] struct {
	Items []T `json:"items"`
}
