package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-society-manager/internal/model"
	"go-society-manager/internal/pagination"
)

var billRowColumns = []string{"id", "society_id", "unit_id", "block", "number", "resident_id", "full_name",
	"period", "base_amount", "fixed_charge", "late_fee", "total_amount", "due_date", "status",
	"paid_at", "payment_method", "payment_ref", "created_at"}

func TestBillRepositoryListFilters(t *testing.T) {
	mock := newMock(t)
	repo := NewBillRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE b.society_id = $1 AND b.status = $2 AND b.period = $3`)).
		WithArgs("s1", "overdue", "2024-03").
		WillReturnRows(countRows(1))

	due := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY b.period DESC, u.block ASC, u.number ASC LIMIT $4 OFFSET $5`)).
		WithArgs("s1", "overdue", "2024-03", 20, 0).
		WillReturnRows(pgxmock.NewRows(billRowColumns).
			AddRow("b1", "s1", "u1", "A", "101", strPtr("r1"), "Asha", "2024-03", dec("2400.00"), dec("500.00"), dec("100.00"),
				dec("3000.00"), due, "overdue", (*time.Time)(nil), (*string)(nil), (*string)(nil), due))

	page, err := repo.List(context.Background(), "s1",
		pagination.Request{Page: 1, PageSize: 20},
		pagination.Filters{Values: map[string]string{"status": "overdue", "period": "2024-03"}})
	require.NoError(t, err)

	require.Len(t, page.Data, 1)
	bill := page.Data[0]
	assert.Equal(t, "A-101", bill.UnitLabel)
	assert.Equal(t, "Asha", bill.ResidentName)
	require.NotNil(t, bill.ResidentID)
	assert.Equal(t, "r1", *bill.ResidentID)
	assert.Nil(t, bill.PaidAt)
	assert.Nil(t, bill.PaymentRef)
	assert.True(t, dec("3000").Equal(bill.TotalAmount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBillRepositoryCreateIfAbsent(t *testing.T) {
	mock := newMock(t)
	repo := NewBillRepository(mock)

	bill := model.MaintenanceBill{ID: "b1", SocietyID: "s1", UnitID: "u1", Period: "2024-03", Status: model.BillStatusPending}

	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (unit_id, period) DO NOTHING`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (unit_id, period) DO NOTHING`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	created, err := repo.CreateIfAbsent(context.Background(), bill)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfAbsent(context.Background(), bill)
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBillRepositoryMarkPaidOnce(t *testing.T) {
	mock := newMock(t)
	repo := NewBillRepository(mock)
	paidAt := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`WHERE id = $1 AND status <> 'paid'`)).
		WithArgs("b1", paidAt, "upi", strPtr("TXN1")).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`WHERE id = $1 AND status <> 'paid'`)).
		WithArgs("b1", paidAt, "upi", strPtr("TXN1")).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.MarkPaid(context.Background(), "b1", paidAt, "upi", "TXN1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkPaid(context.Background(), "b1", paidAt, "upi", "TXN1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBillRepositoryMarkPaidCashStoresNullReference(t *testing.T) {
	mock := newMock(t)
	repo := NewBillRepository(mock)
	paidAt := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`payment_ref = $4`)).
		WithArgs("b1", paidAt, "cash", (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := repo.MarkPaid(context.Background(), "b1", paidAt, "cash", "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBillRepositoryListForUser(t *testing.T) {
	mock := newMock(t)
	repo := NewBillRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`b.resident_id IN (SELECT id FROM residents WHERE user_id = $1)`)).
		WithArgs("user-1").
		WillReturnRows(countRows(0))
	mock.ExpectQuery(regexp.QuoteMeta(`LIMIT $2 OFFSET $3`)).
		WithArgs("user-1", 10, 0).
		WillReturnRows(pgxmock.NewRows(billRowColumns))

	page, err := repo.ListForUser(context.Background(), "user-1", pagination.Request{}, pagination.Filters{})
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.False(t, page.Pagination.HasNextPage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBillRepositoryListForUserSearch(t *testing.T) {
	tests := []struct {
		name string
		term string
	}{
		{name: "period", term: "2024-05"},
		{name: "unit label", term: "A-101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			repo := NewBillRepository(mock)
			searched := regexp.QuoteMeta(`(b.period ILIKE $2 OR u.block || '-' || u.number ILIKE $2`)

			mock.ExpectQuery(`(?s)SELECT COUNT\(\*\) .*` + searched).
				WithArgs("user-1", "%"+tt.term+"%").
				WillReturnRows(countRows(1))

			due := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
			paidAt := time.Date(2024, 5, 3, 8, 0, 0, 0, time.UTC)
			mock.ExpectQuery(searched).
				WithArgs("user-1", "%"+tt.term+"%", 10, 0).
				WillReturnRows(pgxmock.NewRows(billRowColumns).
					AddRow("b5", "s1", "u1", "A", "101", strPtr("r1"), "Asha", "2024-05", dec("2400"), dec("500"), dec("0"),
						dec("2900"), due, "paid", &paidAt, strPtr("cash"), (*string)(nil), due))

			page, err := repo.ListForUser(context.Background(), "user-1", pagination.Request{},
				pagination.Filters{Search: tt.term})
			require.NoError(t, err)

			require.Len(t, page.Data, 1)
			assert.Equal(t, "2024-05", page.Data[0].Period)
			assert.Equal(t, "A-101", page.Data[0].UnitLabel)
			require.NotNil(t, page.Data[0].PaidAt)
			assert.Nil(t, page.Data[0].PaymentRef)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
