package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"go-society-manager/internal/model"
	"go-society-manager/internal/pagination"
)

// The stores below are satisfied by the repository package.

type SocietyStore interface {
	List(ctx context.Context, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Society], error)
	FindByID(ctx context.Context, id string) (model.Society, error)
	Create(ctx context.Context, s model.Society) error
	Update(ctx context.Context, s model.Society) error
	Delete(ctx context.Context, id string) error
	Totals(ctx context.Context, societyID string, from string, to string) (model.Summary, error)
}

type UnitStore interface {
	List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Unit], error)
	ListOccupied(ctx context.Context, societyID string) ([]model.Unit, error)
	FindByID(ctx context.Context, id string) (model.Unit, error)
	Create(ctx context.Context, u model.Unit) error
	Update(ctx context.Context, u model.Unit) error
	Delete(ctx context.Context, id string) error
}

type ResidentStore interface {
	List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Resident], error)
	FindByID(ctx context.Context, id string) (model.Resident, error)
	FindActiveByUnit(ctx context.Context, unitID string) (model.Resident, bool, error)
	Create(ctx context.Context, res model.Resident) error
	Update(ctx context.Context, res model.Resident) error
	LinkUser(ctx context.Context, residentID string, userID string) error
	Delete(ctx context.Context, id string) error
}

type IncomeStore interface {
	List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Income], error)
	FindByID(ctx context.Context, id string) (model.Income, error)
	Create(ctx context.Context, in model.Income) error
	Delete(ctx context.Context, id string) error
}

type ExpenseStore interface {
	List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Expense], error)
	FindByID(ctx context.Context, id string) (model.Expense, error)
	Create(ctx context.Context, ex model.Expense) error
	SetAttachment(ctx context.Context, id string, path string) error
	Delete(ctx context.Context, id string) error
}

type BillStore interface {
	List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.MaintenanceBill], error)
	ListForUser(ctx context.Context, userID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.MaintenanceBill], error)
	FindByID(ctx context.Context, id string) (model.MaintenanceBill, error)
	FindForUser(ctx context.Context, id string, userID string) (model.MaintenanceBill, error)
	CreateIfAbsent(ctx context.Context, b model.MaintenanceBill) (bool, error)
	ListPendingDueBefore(ctx context.Context, asOf time.Time) ([]model.MaintenanceBill, error)
	MarkOverdue(ctx context.Context, id string, lateFee decimal.Decimal, total decimal.Decimal) error
	MarkPaid(ctx context.Context, id string, paidAt time.Time, method string, ref string) (bool, error)
}

type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, req pagination.Request, filters pagination.Filters) (pagination.Page[model.User], error)
	Create(ctx context.Context, u model.User) error
	IncrementFailedAttempts(ctx context.Context, userID string) error
	LockAccount(ctx context.Context, userID string, until time.Time) error
	ResetFailedAttempts(ctx context.Context, userID string) error
}

type TokenStore interface {
	Store(ctx context.Context, token string, userID string, expiresAt time.Time) error
	Validate(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
	CleanExpired(ctx context.Context) (int64, error)
}

type AuditStore interface {
	Log(ctx context.Context, entry model.AuditEntry) error
	Query(ctx context.Context, query model.AuditQuery, req pagination.Request, filters pagination.Filters) (pagination.Page[model.AuditEntry], error)
}
