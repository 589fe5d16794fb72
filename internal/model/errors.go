package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token related errors
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Society records
	ErrSocietyNotFound  = errors.New("society not found")
	ErrUnitNotFound     = errors.New("unit not found")
	ErrResidentNotFound = errors.New("resident not found")
	ErrIncomeNotFound   = errors.New("income not found")
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrBillNotFound     = errors.New("bill not found")

	// Billing
	ErrBillAlreadyPaid = errors.New("bill already paid")
	ErrBillNotPaid     = errors.New("bill not paid")

	ErrAdminNotDeletable = errors.New("admin residents cannot be deleted")
	ErrAttachmentMissing = errors.New("attachment not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
