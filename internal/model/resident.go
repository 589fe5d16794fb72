package model

import "time"

const (
	ResidentStatusActive   = "active"
	ResidentStatusInactive = "inactive"
)

type Resident struct {
	ID        string     `json:"id"`
	SocietyID string     `json:"society_id"`
	UnitID    *string    `json:"unit_id,omitempty"`
	UnitLabel string     `json:"unit_label,omitempty"`
	UserID    *string    `json:"user_id,omitempty"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	MovedInAt *time.Time `json:"moved_in_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type ResidentInput struct {
	UnitID    *string    `json:"unit_id"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	MovedInAt *time.Time `json:"moved_in_at"`
}
