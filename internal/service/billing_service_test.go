package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-society-manager/internal/event"
	"go-society-manager/internal/model"
	"go-society-manager/internal/pagination"
	"go-society-manager/pkg/apierror"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func decEq(value string) any {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(dec(value)) })
}

func testSociety() model.Society {
	return model.Society{
		ID:              "s1",
		Name:            "Green Acres",
		MaintenanceRate: dec("2.50"),
		FixedCharge:     dec("500"),
		LateFee:         dec("100"),
		DueDay:          10,
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeAmount(t *testing.T) {
	due := day(2024, time.March, 10)

	tests := []struct {
		name    string
		society model.Society
		area    string
		asOf    time.Time
		base    string
		lateFee string
		total   string
	}{
		{name: "on due date", society: testSociety(), area: "1200", asOf: due.Add(18 * time.Hour), base: "3000", lateFee: "0", total: "3500"},
		{name: "day after due date", society: testSociety(), area: "1200", asOf: day(2024, time.March, 11), base: "3000", lateFee: "100", total: "3600"},
		{name: "before due date", society: testSociety(), area: "850.5", asOf: day(2024, time.March, 1), base: "2126.25", lateFee: "0", total: "2626.25"},
		{
			name:    "rounds half up",
			society: model.Society{MaintenanceRate: dec("0.05"), FixedCharge: dec("99.999"), LateFee: dec("0")},
			area:    "10.5",
			asOf:    day(2024, time.April, 1),
			base:    "0.53",
			lateFee: "0",
			total:   "100.53",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := ComputeAmount(tt.society, model.Unit{AreaSqft: dec(tt.area)}, due, tt.asOf)
			assert.True(t, dec(tt.base).Equal(amount.Base), "base %s", amount.Base)
			assert.True(t, dec(tt.lateFee).Equal(amount.LateFee), "late fee %s", amount.LateFee)
			assert.True(t, dec(tt.total).Equal(amount.Total), "total %s", amount.Total)
		})
	}
}

func TestDueDate(t *testing.T) {
	due, err := DueDate(testSociety(), " 2024-02 ")
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.February, 10), due)

	_, err = DueDate(testSociety(), "2024-13")
	assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))

	due, err = DueDate(model.Society{}, "2024-02")
	require.NoError(t, err)
	assert.Equal(t, defaultDueDay, due.Day())
}

type billingFixture struct {
	bills     *mockBillStore
	units     *mockUnitStore
	residents *mockResidentStore
	societies *mockSocietyStore
	bus       *event.InMemoryBus
	svc       *BillingService
}

func newBillingFixture(now time.Time) billingFixture {
	f := billingFixture{
		bills:     new(mockBillStore),
		units:     new(mockUnitStore),
		residents: new(mockResidentStore),
		societies: new(mockSocietyStore),
		bus:       event.NewBus(),
	}
	f.svc = NewBillingService(f.bills, f.units, f.residents, f.societies, f.bus)
	f.svc.now = func() time.Time { return now }
	return f
}

func TestBillingService_GenerateBills(t *testing.T) {
	ctx := context.Background()
	actor := model.AuditActor{UserID: "admin-1", Username: "admin", Role: model.RoleAdmin}

	t.Run("creates missing bills and skips existing ones", func(t *testing.T) {
		f := newBillingFixture(day(2024, time.March, 1))
		events, unsubscribe := f.bus.Subscribe()
		defer unsubscribe()

		f.societies.On("FindByID", ctx, "s1").Return(testSociety(), nil)
		f.units.On("ListOccupied", ctx, "s1").Return([]model.Unit{
			{ID: "u1", SocietyID: "s1", Block: "A", Number: "101", AreaSqft: dec("1000"), Occupied: true},
			{ID: "u2", SocietyID: "s1", Block: "A", Number: "102", AreaSqft: dec("800"), Occupied: true},
		}, nil)
		f.residents.On("FindActiveByUnit", ctx, "u1").Return(model.Resident{ID: "r1", FullName: "Asha"}, true, nil)
		f.residents.On("FindActiveByUnit", ctx, "u2").Return(model.Resident{}, false, nil)
		f.bills.On("CreateIfAbsent", ctx, mock.MatchedBy(func(b model.MaintenanceBill) bool { return b.UnitID == "u1" })).Return(true, nil)
		f.bills.On("CreateIfAbsent", ctx, mock.MatchedBy(func(b model.MaintenanceBill) bool { return b.UnitID == "u2" })).Return(false, nil)

		result, err := f.svc.GenerateBills(ctx, "s1", "2024-03", actor)
		require.NoError(t, err)

		assert.Equal(t, "2024-03", result.Period)
		assert.Equal(t, 1, result.Created)
		assert.Equal(t, 1, result.Skipped)
		require.Len(t, result.Bills, 1)

		bill := result.Bills[0]
		assert.Equal(t, model.BillStatusPending, bill.Status)
		assert.Equal(t, day(2024, time.March, 10), bill.DueDate)
		require.NotNil(t, bill.ResidentID)
		assert.Equal(t, "r1", *bill.ResidentID)
		assert.True(t, dec("3000").Equal(bill.TotalAmount))
		assert.True(t, bill.LateFee.IsZero())

		got := <-events
		assert.Equal(t, event.TypeBillsGenerated, got.Type)
		assert.Equal(t, "admin", got.Actor.Username)

		f.bills.AssertExpectations(t)
		f.residents.AssertExpectations(t)
	})

	t.Run("late generation is overdue with late fee", func(t *testing.T) {
		f := newBillingFixture(day(2024, time.April, 2))

		f.societies.On("FindByID", ctx, "s1").Return(testSociety(), nil)
		f.units.On("ListOccupied", ctx, "s1").Return([]model.Unit{
			{ID: "u1", SocietyID: "s1", Number: "7", AreaSqft: dec("100")},
		}, nil)
		f.residents.On("FindActiveByUnit", ctx, "u1").Return(model.Resident{}, false, nil)
		f.bills.On("CreateIfAbsent", ctx, mock.Anything).Return(true, nil)

		result, err := f.svc.GenerateBills(ctx, "s1", "2024-03", actor)
		require.NoError(t, err)
		require.Len(t, result.Bills, 1)
		assert.Equal(t, model.BillStatusOverdue, result.Bills[0].Status)
		assert.True(t, dec("850").Equal(result.Bills[0].TotalAmount))
		assert.Nil(t, result.Bills[0].ResidentID)
	})

	t.Run("invalid period is rejected before touching units", func(t *testing.T) {
		f := newBillingFixture(day(2024, time.March, 1))
		f.societies.On("FindByID", ctx, "s1").Return(testSociety(), nil)

		_, err := f.svc.GenerateBills(ctx, "s1", "March", actor)
		assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))
		f.units.AssertNotCalled(t, "ListOccupied", mock.Anything, mock.Anything)
	})

	t.Run("unknown society", func(t *testing.T) {
		f := newBillingFixture(day(2024, time.March, 1))
		f.societies.On("FindByID", ctx, "nope").Return(model.Society{}, apierror.NotFound("society", "nope"))

		_, err := f.svc.GenerateBills(ctx, "nope", "2024-03", actor)
		assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err))
	})
}

func TestBillingService_MarkOverdue(t *testing.T) {
	ctx := context.Background()
	asOf := time.Date(2024, time.March, 11, 10, 0, 0, 0, time.UTC)
	f := newBillingFixture(asOf)

	f.bills.On("ListPendingDueBefore", ctx, asOf).Return([]model.MaintenanceBill{
		{ID: "b1", SocietyID: "s1", DueDate: day(2024, time.March, 10), BaseAmount: dec("3000"), FixedCharge: dec("500")},
		{ID: "b2", SocietyID: "s1", DueDate: day(2024, time.March, 11), BaseAmount: dec("2000"), FixedCharge: dec("500")},
		{ID: "b3", SocietyID: "s1", DueDate: day(2024, time.February, 10), BaseAmount: dec("1000"), FixedCharge: dec("500")},
	}, nil)
	f.societies.On("FindByID", ctx, "s1").Return(testSociety(), nil).Once()
	f.bills.On("MarkOverdue", ctx, "b1", decEq("100"), decEq("3600")).Return(nil)
	f.bills.On("MarkOverdue", ctx, "b3", decEq("100"), decEq("1600")).Return(nil)

	updated, err := f.svc.MarkOverdue(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	f.bills.AssertExpectations(t)
	f.bills.AssertNotCalled(t, "MarkOverdue", ctx, "b2", mock.Anything, mock.Anything)
	f.societies.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestBillingService_Pay(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC)
	actor := model.AuditActor{UserID: "admin-1", Role: model.RoleAdmin}
	pending := model.MaintenanceBill{ID: "b1", SocietyID: "s1", Status: model.BillStatusPending, TotalAmount: dec("3500")}

	t.Run("marks a pending bill paid", func(t *testing.T) {
		f := newBillingFixture(now)
		f.bills.On("FindByID", ctx, "b1").Return(pending, nil)
		f.bills.On("MarkPaid", ctx, "b1", now, "upi", "TXN-9").Return(true, nil)

		bill, err := f.svc.Pay(ctx, "b1", model.PayBillRequest{Method: "UPI", Reference: " TXN-9 "}, actor)
		require.NoError(t, err)
		assert.Equal(t, model.BillStatusPaid, bill.Status)
		require.NotNil(t, bill.PaidAt)
		assert.Equal(t, now, *bill.PaidAt)
		assert.Equal(t, "TXN-9", *bill.PaymentRef)
	})

	t.Run("cash needs no reference", func(t *testing.T) {
		f := newBillingFixture(now)
		f.bills.On("FindByID", ctx, "b1").Return(pending, nil)
		f.bills.On("MarkPaid", ctx, "b1", now, "cash", "").Return(true, nil)

		bill, err := f.svc.Pay(ctx, "b1", model.PayBillRequest{}, actor)
		require.NoError(t, err)
		assert.Nil(t, bill.PaymentRef)
		assert.Equal(t, "cash", *bill.PaymentMethod)
	})

	t.Run("already paid is a conflict", func(t *testing.T) {
		f := newBillingFixture(now)
		paid := pending
		paid.Status = model.BillStatusPaid
		f.bills.On("FindByID", ctx, "b1").Return(paid, nil)

		_, err := f.svc.Pay(ctx, "b1", model.PayBillRequest{Method: "cash"}, actor)
		assert.Equal(t, http.StatusConflict, apierror.StatusOf(err))
		f.bills.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("concurrent payment is a conflict", func(t *testing.T) {
		f := newBillingFixture(now)
		f.bills.On("FindByID", ctx, "b1").Return(pending, nil)
		f.bills.On("MarkPaid", ctx, "b1", now, "cash", "").Return(false, nil)

		_, err := f.svc.Pay(ctx, "b1", model.PayBillRequest{Method: "cash"}, actor)
		assert.Equal(t, http.StatusConflict, apierror.StatusOf(err))
	})

	t.Run("validates method and reference", func(t *testing.T) {
		f := newBillingFixture(now)
		f.bills.On("FindByID", ctx, "b1").Return(pending, nil)

		_, err := f.svc.Pay(ctx, "b1", model.PayBillRequest{Method: "bitcoin"}, actor)
		assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))

		_, err = f.svc.Pay(ctx, "b1", model.PayBillRequest{Method: "cheque"}, actor)
		assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))
	})
}

func TestBillingService_ListForUser(t *testing.T) {
	ctx := context.Background()
	f := newBillingFixture(time.Now())

	_, err := f.svc.ListForUser(ctx, "", pagination.Request{}, pagination.Filters{})
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	want := pagination.Page[model.MaintenanceBill]{Pagination: pagination.NewMeta(1, 10, 0)}
	f.bills.On("ListForUser", ctx, "user-1", pagination.Request{Page: 1, PageSize: 10}, pagination.Filters{}).Return(want, nil)

	page, err := f.svc.ListForUser(ctx, "user-1", pagination.Request{}, pagination.Filters{})
	require.NoError(t, err)
	assert.Equal(t, want, page)
}
