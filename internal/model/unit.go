package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	UnitTypeFlat  = "flat"
	UnitTypeVilla = "villa"
	UnitTypeShop  = "shop"
)

type Unit struct {
	ID        string          `json:"id"`
	SocietyID string          `json:"society_id"`
	Block     string          `json:"block"`
	Number    string          `json:"number"`
	Floor     int             `json:"floor"`
	AreaSqft  decimal.Decimal `json:"area_sqft"`
	Type      string          `json:"type"`
	Occupied  bool            `json:"occupied"`
	CreatedAt time.Time       `json:"created_at"`
}

// Label is the human form of the unit, e.g. "B-304".
func (u Unit) Label() string {
	if u.Block == "" {
		return u.Number
	}
	return u.Block + "-" + u.Number
}

type UnitInput struct {
	Block    string          `json:"block"`
	Number   string          `json:"number"`
	Floor    int             `json:"floor"`
	AreaSqft decimal.Decimal `json:"area_sqft"`
	Type     string          `json:"type"`
	Occupied bool            `json:"occupied"`
}
