package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Income struct {
	ID         string          `json:"id"`
	SocietyID  string          `json:"society_id"`
	Title      string          `json:"title"`
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	ReceivedOn time.Time       `json:"received_on"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type IncomeInput struct {
	Title      string          `json:"title"`
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	ReceivedOn string          `json:"received_on"`
	Notes      string          `json:"notes"`
}

type Expense struct {
	ID             string          `json:"id"`
	SocietyID      string          `json:"society_id"`
	Title          string          `json:"title"`
	Category       string          `json:"category"`
	Amount         decimal.Decimal `json:"amount"`
	SpentOn        time.Time       `json:"spent_on"`
	Vendor         string          `json:"vendor,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	AttachmentPath *string         `json:"attachment_path,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type ExpenseInput struct {
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	SpentOn  string          `json:"spent_on"`
	Vendor   string          `json:"vendor"`
	Notes    string          `json:"notes"`
}
