package handler

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"go-society-manager/internal/model"
	"go-society-manager/internal/pagination"
	"go-society-manager/internal/service"
)

type mockSocietyService struct{ mock.Mock }

func (m *mockSocietyService) List(ctx context.Context, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Society], error) {
	args := m.Called(ctx, req, filters)
	return args.Get(0).(pagination.Page[model.Society]), args.Error(1)
}

func (m *mockSocietyService) Get(ctx context.Context, id string) (model.Society, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Society), args.Error(1)
}

func (m *mockSocietyService) Create(ctx context.Context, input model.SocietyInput, actor model.AuditActor) (model.Society, error) {
	args := m.Called(ctx, input, actor)
	return args.Get(0).(model.Society), args.Error(1)
}

func (m *mockSocietyService) Update(ctx context.Context, id string, input model.SocietyInput, actor model.AuditActor) (model.Society, error) {
	args := m.Called(ctx, id, input, actor)
	return args.Get(0).(model.Society), args.Error(1)
}

func (m *mockSocietyService) Delete(ctx context.Context, id string, actor model.AuditActor) error {
	return m.Called(ctx, id, actor).Error(0)
}

func (m *mockSocietyService) Summary(ctx context.Context, societyID string, from string, to string) (model.Summary, error) {
	args := m.Called(ctx, societyID, from, to)
	return args.Get(0).(model.Summary), args.Error(1)
}

type mockResidentService struct{ mock.Mock }

func (m *mockResidentService) List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Resident], error) {
	args := m.Called(ctx, societyID, req, filters)
	return args.Get(0).(pagination.Page[model.Resident]), args.Error(1)
}

func (m *mockResidentService) Get(ctx context.Context, id string) (model.Resident, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Resident), args.Error(1)
}

func (m *mockResidentService) Create(ctx context.Context, societyID string, input model.ResidentInput, actor model.AuditActor) (model.Resident, error) {
	args := m.Called(ctx, societyID, input, actor)
	return args.Get(0).(model.Resident), args.Error(1)
}

func (m *mockResidentService) Update(ctx context.Context, id string, input model.ResidentInput, actor model.AuditActor) (model.Resident, error) {
	args := m.Called(ctx, id, input, actor)
	return args.Get(0).(model.Resident), args.Error(1)
}

func (m *mockResidentService) Delete(ctx context.Context, id string, actor model.AuditActor) error {
	return m.Called(ctx, id, actor).Error(0)
}

type mockBillingService struct{ mock.Mock }

func (m *mockBillingService) List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.MaintenanceBill], error) {
	args := m.Called(ctx, societyID, req, filters)
	return args.Get(0).(pagination.Page[model.MaintenanceBill]), args.Error(1)
}

func (m *mockBillingService) ListForUser(ctx context.Context, userID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.MaintenanceBill], error) {
	args := m.Called(ctx, userID, req, filters)
	return args.Get(0).(pagination.Page[model.MaintenanceBill]), args.Error(1)
}

func (m *mockBillingService) Get(ctx context.Context, id string) (model.MaintenanceBill, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.MaintenanceBill), args.Error(1)
}

func (m *mockBillingService) GenerateBills(ctx context.Context, societyID string, period string, actor model.AuditActor) (model.GenerateBillsResult, error) {
	args := m.Called(ctx, societyID, period, actor)
	return args.Get(0).(model.GenerateBillsResult), args.Error(1)
}

func (m *mockBillingService) Pay(ctx context.Context, billID string, req model.PayBillRequest, actor model.AuditActor) (model.MaintenanceBill, error) {
	args := m.Called(ctx, billID, req, actor)
	return args.Get(0).(model.MaintenanceBill), args.Error(1)
}

type mockReceiptService struct{ mock.Mock }

func (m *mockReceiptService) Receipt(ctx context.Context, billID string) ([]byte, string, error) {
	args := m.Called(ctx, billID)
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *mockReceiptService) ReceiptForUser(ctx context.Context, billID string, userID string) ([]byte, string, error) {
	args := m.Called(ctx, billID, userID)
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Login(ctx context.Context, username string, password string, ip string) (model.TokenPair, error) {
	args := m.Called(ctx, username, password, ip)
	return args.Get(0).(model.TokenPair), args.Error(1)
}

func (m *mockAuthService) Register(ctx context.Context, req model.RegisterRequest, actor model.AuditActor) (model.AuthUser, error) {
	args := m.Called(ctx, req, actor)
	return args.Get(0).(model.AuthUser), args.Error(1)
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(model.TokenPair), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *mockAuthService) GetUserByID(ctx context.Context, userID string) (model.AuthUser, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.AuthUser), args.Error(1)
}

func (m *mockAuthService) ListUsers(ctx context.Context, req pagination.Request, filters pagination.Filters) (pagination.Page[model.AuthUser], error) {
	args := m.Called(ctx, req, filters)
	return args.Get(0).(pagination.Page[model.AuthUser]), args.Error(1)
}

type mockAttachmentService struct{ mock.Mock }

func (m *mockAttachmentService) Attach(ctx context.Context, expenseID string, filename string, content io.ReadSeeker, actor model.AuditActor) (model.Expense, error) {
	args := m.Called(ctx, expenseID, filename, content, actor)
	return args.Get(0).(model.Expense), args.Error(1)
}

func (m *mockAttachmentService) Open(ctx context.Context, expenseID string) (service.Attachment, error) {
	args := m.Called(ctx, expenseID)
	return args.Get(0).(service.Attachment), args.Error(1)
}

func (m *mockAttachmentService) Thumbnail(ctx context.Context, expenseID string, size int) (service.Attachment, error) {
	args := m.Called(ctx, expenseID, size)
	return args.Get(0).(service.Attachment), args.Error(1)
}
