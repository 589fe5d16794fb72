package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Society is a residential society. Its maintenance settings drive the
// amount of every maintenance bill raised for its units.
type Society struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Address         string          `json:"address"`
	City            string          `json:"city"`
	RegistrationNo  string          `json:"registration_no"`
	MaintenanceRate decimal.Decimal `json:"maintenance_rate"`
	FixedCharge     decimal.Decimal `json:"fixed_charge"`
	LateFee         decimal.Decimal `json:"late_fee"`
	DueDay          int             `json:"due_day"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type SocietyInput struct {
	Name            string          `json:"name"`
	Address         string          `json:"address"`
	City            string          `json:"city"`
	RegistrationNo  string          `json:"registration_no"`
	MaintenanceRate decimal.Decimal `json:"maintenance_rate"`
	FixedCharge     decimal.Decimal `json:"fixed_charge"`
	LateFee         decimal.Decimal `json:"late_fee"`
	DueDay          int             `json:"due_day"`
}

type Summary struct {
	SocietyID    string          `json:"society_id"`
	From         string          `json:"from,omitempty"`
	To           string          `json:"to,omitempty"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
	Billed       decimal.Decimal `json:"billed"`
	Collected    decimal.Decimal `json:"collected"`
	Outstanding  decimal.Decimal `json:"outstanding"`
}
