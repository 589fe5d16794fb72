package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	BillStatusPending = "pending"
	BillStatusPaid    = "paid"
	BillStatusOverdue = "overdue"
)

// MaintenanceBill is the monthly maintenance charge of one unit.
type MaintenanceBill struct {
	ID            string          `json:"id"`
	SocietyID     string          `json:"society_id"`
	UnitID        string          `json:"unit_id"`
	UnitLabel     string          `json:"unit_label,omitempty"`
	ResidentID    *string         `json:"resident_id,omitempty"`
	ResidentName  string          `json:"resident_name,omitempty"`
	Period        string          `json:"period"`
	BaseAmount    decimal.Decimal `json:"base_amount"`
	FixedCharge   decimal.Decimal `json:"fixed_charge"`
	LateFee       decimal.Decimal `json:"late_fee"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	DueDate       time.Time       `json:"due_date"`
	Status        string          `json:"status"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	PaymentRef    *string         `json:"payment_ref,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (b MaintenanceBill) IsPaid() bool {
	return b.Status == BillStatusPaid
}
