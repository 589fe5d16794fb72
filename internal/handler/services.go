package handler

import (
	"context"
	"io"

	"go-society-manager/internal/model"
	"go-society-manager/internal/pagination"
	"go-society-manager/internal/service"
)

// The interfaces below are satisfied by the service package.

type authService interface {
	Login(ctx context.Context, username string, password string, ip string) (model.TokenPair, error)
	Register(ctx context.Context, req model.RegisterRequest, actor model.AuditActor) (model.AuthUser, error)
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUserByID(ctx context.Context, userID string) (model.AuthUser, error)
	ListUsers(ctx context.Context, req pagination.Request, filters pagination.Filters) (pagination.Page[model.AuthUser], error)
}

type societyService interface {
	List(ctx context.Context, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Society], error)
	Get(ctx context.Context, id string) (model.Society, error)
	Create(ctx context.Context, input model.SocietyInput, actor model.AuditActor) (model.Society, error)
	Update(ctx context.Context, id string, input model.SocietyInput, actor model.AuditActor) (model.Society, error)
	Delete(ctx context.Context, id string, actor model.AuditActor) error
	Summary(ctx context.Context, societyID string, from string, to string) (model.Summary, error)
}

type unitService interface {
	List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Unit], error)
	Get(ctx context.Context, id string) (model.Unit, error)
	Create(ctx context.Context, societyID string, input model.UnitInput, actor model.AuditActor) (model.Unit, error)
	Update(ctx context.Context, id string, input model.UnitInput, actor model.AuditActor) (model.Unit, error)
	Delete(ctx context.Context, id string, actor model.AuditActor) error
}

type residentService interface {
	List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Resident], error)
	Get(ctx context.Context, id string) (model.Resident, error)
	Create(ctx context.Context, societyID string, input model.ResidentInput, actor model.AuditActor) (model.Resident, error)
	Update(ctx context.Context, id string, input model.ResidentInput, actor model.AuditActor) (model.Resident, error)
	Delete(ctx context.Context, id string, actor model.AuditActor) error
}

type incomeService interface {
	List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Income], error)
	Create(ctx context.Context, societyID string, input model.IncomeInput, actor model.AuditActor) (model.Income, error)
	Delete(ctx context.Context, id string, actor model.AuditActor) error
}

type expenseService interface {
	List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Expense], error)
	Get(ctx context.Context, id string) (model.Expense, error)
	Create(ctx context.Context, societyID string, input model.ExpenseInput, actor model.AuditActor) (model.Expense, error)
	Delete(ctx context.Context, id string, actor model.AuditActor) error
}

type attachmentService interface {
	Attach(ctx context.Context, expenseID string, filename string, content io.ReadSeeker, actor model.AuditActor) (model.Expense, error)
	Open(ctx context.Context, expenseID string) (service.Attachment, error)
	Thumbnail(ctx context.Context, expenseID string, size int) (service.Attachment, error)
}

type billingService interface {
	List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.MaintenanceBill], error)
	ListForUser(ctx context.Context, userID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.MaintenanceBill], error)
	Get(ctx context.Context, id string) (model.MaintenanceBill, error)
	GenerateBills(ctx context.Context, societyID string, period string, actor model.AuditActor) (model.GenerateBillsResult, error)
	Pay(ctx context.Context, billID string, req model.PayBillRequest, actor model.AuditActor) (model.MaintenanceBill, error)
}

type receiptService interface {
	Receipt(ctx context.Context, billID string) ([]byte, string, error)
	ReceiptForUser(ctx context.Context, billID string, userID string) ([]byte, string, error)
}

type auditService interface {
	Query(ctx context.Context, query model.AuditQuery, req pagination.Request, filters pagination.Filters) (pagination.Page[model.AuditEntry], error)
}
