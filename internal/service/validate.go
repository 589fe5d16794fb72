package service

import (
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"go-society-manager/pkg/apierror"
)

const dateLayout = "2006-01-02"

func requireText(value string, field string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apierror.BadRequest(field+" is required", field)
	}
	return value, nil
}

func requirePositive(amount decimal.Decimal, field string) error {
	if !amount.IsPositive() {
		return apierror.BadRequest(field+" must be greater than zero", field)
	}
	return nil
}

func requireNonNegative(amount decimal.Decimal, field string) error {
	if amount.IsNegative() {
		return apierror.BadRequest(field+" must not be negative", field)
	}
	return nil
}

// parseDateOr parses a YYYY-MM-DD value, returning fallback for blank input.
func parseDateOr(raw string, field string, fallback time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, apierror.BadRequest(field+" must be a YYYY-MM-DD date", field)
	}
	return t, nil
}

func validateOptionalDate(raw string, field string) error {
	_, err := parseDateOr(raw, field, time.Time{})
	return err
}

func validateEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return "", apierror.BadRequest("email is invalid", "email")
	}
	return strings.ToLower(addr.Address), nil
}

func oneOf(value string, fallback string, field string, allowed ...string) (string, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback, nil
	}
	for _, candidate := range allowed {
		if value == candidate {
			return value, nil
		}
	}
	return "", apierror.BadRequest("invalid "+field, field)
}

func trim(value string) string {
	return strings.TrimSpace(value)
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
