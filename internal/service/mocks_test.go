package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"go-society-manager/internal/model"
	"go-society-manager/internal/pagination"
)

type mockSocietyStore struct{ mock.Mock }

func (m *mockSocietyStore) List(ctx context.Context, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Society], error) {
	args := m.Called(ctx, req, filters)
	return args.Get(0).(pagination.Page[model.Society]), args.Error(1)
}

func (m *mockSocietyStore) FindByID(ctx context.Context, id string) (model.Society, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Society), args.Error(1)
}

func (m *mockSocietyStore) Create(ctx context.Context, s model.Society) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSocietyStore) Update(ctx context.Context, s model.Society) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSocietyStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSocietyStore) Totals(ctx context.Context, societyID string, from string, to string) (model.Summary, error) {
	args := m.Called(ctx, societyID, from, to)
	return args.Get(0).(model.Summary), args.Error(1)
}

type mockUnitStore struct{ mock.Mock }

func (m *mockUnitStore) List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Unit], error) {
	args := m.Called(ctx, societyID, req, filters)
	return args.Get(0).(pagination.Page[model.Unit]), args.Error(1)
}

func (m *mockUnitStore) ListOccupied(ctx context.Context, societyID string) ([]model.Unit, error) {
	args := m.Called(ctx, societyID)
	return args.Get(0).([]model.Unit), args.Error(1)
}

func (m *mockUnitStore) FindByID(ctx context.Context, id string) (model.Unit, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Unit), args.Error(1)
}

func (m *mockUnitStore) Create(ctx context.Context, u model.Unit) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUnitStore) Update(ctx context.Context, u model.Unit) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUnitStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockResidentStore struct{ mock.Mock }

func (m *mockResidentStore) List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Resident], error) {
	args := m.Called(ctx, societyID, req, filters)
	return args.Get(0).(pagination.Page[model.Resident]), args.Error(1)
}

func (m *mockResidentStore) FindByID(ctx context.Context, id string) (model.Resident, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Resident), args.Error(1)
}

func (m *mockResidentStore) FindActiveByUnit(ctx context.Context, unitID string) (model.Resident, bool, error) {
	args := m.Called(ctx, unitID)
	return args.Get(0).(model.Resident), args.Bool(1), args.Error(2)
}

func (m *mockResidentStore) Create(ctx context.Context, res model.Resident) error {
	return m.Called(ctx, res).Error(0)
}

func (m *mockResidentStore) Update(ctx context.Context, res model.Resident) error {
	return m.Called(ctx, res).Error(0)
}

func (m *mockResidentStore) LinkUser(ctx context.Context, residentID string, userID string) error {
	return m.Called(ctx, residentID, userID).Error(0)
}

func (m *mockResidentStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockIncomeStore struct{ mock.Mock }

func (m *mockIncomeStore) List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Income], error) {
	args := m.Called(ctx, societyID, req, filters)
	return args.Get(0).(pagination.Page[model.Income]), args.Error(1)
}

func (m *mockIncomeStore) FindByID(ctx context.Context, id string) (model.Income, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Income), args.Error(1)
}

func (m *mockIncomeStore) Create(ctx context.Context, in model.Income) error {
	return m.Called(ctx, in).Error(0)
}

func (m *mockIncomeStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockExpenseStore struct{ mock.Mock }

func (m *mockExpenseStore) List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Expense], error) {
	args := m.Called(ctx, societyID, req, filters)
	return args.Get(0).(pagination.Page[model.Expense]), args.Error(1)
}

func (m *mockExpenseStore) FindByID(ctx context.Context, id string) (model.Expense, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Expense), args.Error(1)
}

func (m *mockExpenseStore) Create(ctx context.Context, ex model.Expense) error {
	return m.Called(ctx, ex).Error(0)
}

func (m *mockExpenseStore) SetAttachment(ctx context.Context, id string, path string) error {
	return m.Called(ctx, id, path).Error(0)
}

func (m *mockExpenseStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockBillStore struct{ mock.Mock }

func (m *mockBillStore) List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.MaintenanceBill], error) {
	args := m.Called(ctx, societyID, req, filters)
	return args.Get(0).(pagination.Page[model.MaintenanceBill]), args.Error(1)
}

func (m *mockBillStore) ListForUser(ctx context.Context, userID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.MaintenanceBill], error) {
	args := m.Called(ctx, userID, req, filters)
	return args.Get(0).(pagination.Page[model.MaintenanceBill]), args.Error(1)
}

func (m *mockBillStore) FindByID(ctx context.Context, id string) (model.MaintenanceBill, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.MaintenanceBill), args.Error(1)
}

func (m *mockBillStore) FindForUser(ctx context.Context, id string, userID string) (model.MaintenanceBill, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(model.MaintenanceBill), args.Error(1)
}

func (m *mockBillStore) CreateIfAbsent(ctx context.Context, b model.MaintenanceBill) (bool, error) {
	args := m.Called(ctx, b)
	return args.Bool(0), args.Error(1)
}

func (m *mockBillStore) ListPendingDueBefore(ctx context.Context, asOf time.Time) ([]model.MaintenanceBill, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]model.MaintenanceBill), args.Error(1)
}

func (m *mockBillStore) MarkOverdue(ctx context.Context, id string, lateFee decimal.Decimal, total decimal.Decimal) error {
	return m.Called(ctx, id, lateFee, total).Error(0)
}

func (m *mockBillStore) MarkPaid(ctx context.Context, id string, paidAt time.Time, method string, ref string) (bool, error) {
	args := m.Called(ctx, id, paidAt, method, ref)
	return args.Bool(0), args.Error(1)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) FindByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) List(ctx context.Context, req pagination.Request, filters pagination.Filters) (pagination.Page[model.User], error) {
	args := m.Called(ctx, req, filters)
	return args.Get(0).(pagination.Page[model.User]), args.Error(1)
}

func (m *mockUserStore) Create(ctx context.Context, u model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserStore) IncrementFailedAttempts(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockUserStore) LockAccount(ctx context.Context, userID string, until time.Time) error {
	return m.Called(ctx, userID, until).Error(0)
}

func (m *mockUserStore) ResetFailedAttempts(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockTokenStore struct{ mock.Mock }

func (m *mockTokenStore) Store(ctx context.Context, token string, userID string, expiresAt time.Time) error {
	return m.Called(ctx, token, userID, expiresAt).Error(0)
}

func (m *mockTokenStore) Validate(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *mockTokenStore) Revoke(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockTokenStore) CleanExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockAuditStore struct{ mock.Mock }

func (m *mockAuditStore) Log(ctx context.Context, entry model.AuditEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockAuditStore) Query(ctx context.Context, query model.AuditQuery, req pagination.Request, filters pagination.Filters) (pagination.Page[model.AuditEntry], error) {
	args := m.Called(ctx, query, req, filters)
	return args.Get(0).(pagination.Page[model.AuditEntry]), args.Error(1)
}
