package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"go-society-manager/internal/model"
	"go-society-manager/internal/pagination"
	"go-society-manager/pkg/apierror"
)

const (
	billFrom = `maintenance_bills b
	JOIN units u ON u.id = b.unit_id
	LEFT JOIN residents r ON r.id = b.resident_id`
	billColumns = `b.id, b.society_id, b.unit_id, u.block, u.number, b.resident_id, COALESCE(r.full_name, ''),
	b.period, b.base_amount, b.fixed_charge, b.late_fee, b.total_amount, b.due_date, b.status,
	b.paid_at, b.payment_method, b.payment_ref, b.created_at`
)

var billSortColumns = map[string]string{
	"period":       "b.period",
	"due_date":     "b.due_date",
	"status":       "b.status",
	"total_amount": "b.total_amount",
	"unit":         "u.block, u.number",
	"resident":     "r.full_name",
}

type BillRepository struct {
	db Querier
}

func NewBillRepository(db Querier) *BillRepository {
	return &BillRepository{db: db}
}

func scanBill(row rowScanner) (model.MaintenanceBill, error) {
	var (
		b             model.MaintenanceBill
		block, number string
	)
	err := row.Scan(&b.ID, &b.SocietyID, &b.UnitID, &block, &number, &b.ResidentID, &b.ResidentName,
		&b.Period, &b.BaseAmount, &b.FixedCharge, &b.LateFee, &b.TotalAmount, &b.DueDate, &b.Status,
		&b.PaidAt, &b.PaymentMethod, &b.PaymentRef, &b.CreatedAt)
	if err != nil {
		return model.MaintenanceBill{}, err
	}

	b.UnitLabel = model.Unit{Block: block, Number: number}.Label()
	return b, nil
}

func billFilters(where *whereBuilder, filters pagination.Filters) {
	where.search(filters.Search, "b.period", "u.block || '-' || u.number", "u.number", "r.full_name", "b.payment_ref")
	where.addIf("b.status = $%d", filters.Get("status"))
	where.addIf("b.period = $%d", filters.Get("period"))
}

func (r *BillRepository) List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.MaintenanceBill], error) {
	where := &whereBuilder{}
	where.add("b.society_id = $%d", societyID)
	billFilters(where, filters)

	return queryPage(ctx, r.db, pageQuery{
		noun:    "bills",
		from:    billFrom,
		columns: billColumns,
		where:   where,
		order:   orderBy(filters, billSortColumns, "b.period DESC, u.block ASC, u.number ASC"),
	}, req, scanBill)
}

// ListForUser pages the bills of every resident linked to userID.
func (r *BillRepository) ListForUser(ctx context.Context, userID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.MaintenanceBill], error) {
	where := &whereBuilder{}
	where.add("b.resident_id IN (SELECT id FROM residents WHERE user_id = $%d)", userID)
	billFilters(where, filters)

	return queryPage(ctx, r.db, pageQuery{
		noun:    "bills",
		from:    billFrom,
		columns: billColumns,
		where:   where,
		order:   orderBy(filters, billSortColumns, "b.period DESC"),
	}, req, scanBill)
}

func (r *BillRepository) FindByID(ctx context.Context, id string) (model.MaintenanceBill, error) {
	b, err := scanBill(r.db.QueryRow(ctx, `SELECT `+billColumns+` FROM `+billFrom+` WHERE b.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.MaintenanceBill{}, apierror.NotFound("bill", id)
	}
	if err != nil {
		return model.MaintenanceBill{}, fmt.Errorf("find bill: %w", err)
	}
	return b, nil
}

// FindForUser returns the bill only when it belongs to a resident linked to
// userID; other bills are reported as not found.
func (r *BillRepository) FindForUser(ctx context.Context, id string, userID string) (model.MaintenanceBill, error) {
	b, err := scanBill(r.db.QueryRow(ctx,
		`SELECT `+billColumns+` FROM `+billFrom+`
		 WHERE b.id = $1 AND b.resident_id IN (SELECT id FROM residents WHERE user_id = $2)`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.MaintenanceBill{}, apierror.NotFound("bill", id)
	}
	if err != nil {
		return model.MaintenanceBill{}, fmt.Errorf("find bill for user: %w", err)
	}
	return b, nil
}

// CreateIfAbsent inserts b unless its unit already has a bill for the period.
func (r *BillRepository) CreateIfAbsent(ctx context.Context, b model.MaintenanceBill) (bool, error) {
	n, err := execAffecting(ctx, r.db,
		`INSERT INTO maintenance_bills (id, society_id, unit_id, resident_id, period, base_amount, fixed_charge,
		                                late_fee, total_amount, due_date, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (unit_id, period) DO NOTHING`,
		b.ID, b.SocietyID, b.UnitID, nullIfEmpty(b.ResidentID), b.Period, b.BaseAmount, b.FixedCharge,
		b.LateFee, b.TotalAmount, b.DueDate, b.Status, b.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("create bill: %w", err)
	}
	return n > 0, nil
}

// ListPendingDueBefore returns pending bills whose due date is before asOf.
func (r *BillRepository) ListPendingDueBefore(ctx context.Context, asOf time.Time) ([]model.MaintenanceBill, error) {
	bills, err := collect(ctx, r.db, scanBill,
		`SELECT `+billColumns+` FROM `+billFrom+`
		 WHERE b.status = 'pending' AND b.due_date < $1
		 ORDER BY b.due_date`, asOf)
	if err != nil {
		return nil, fmt.Errorf("list past due bills: %w", err)
	}
	return bills, nil
}

func (r *BillRepository) MarkOverdue(ctx context.Context, id string, lateFee decimal.Decimal, total decimal.Decimal) error {
	_, err := r.db.Exec(ctx,
		`UPDATE maintenance_bills SET status = 'overdue', late_fee = $2, total_amount = $3
		 WHERE id = $1 AND status = 'pending'`, id, lateFee, total)
	if err != nil {
		return fmt.Errorf("mark bill overdue: %w", err)
	}
	return nil
}

// MarkPaid records a payment. It reports false when the bill was already paid.
func (r *BillRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time, method string, ref string) (bool, error) {
	n, err := execAffecting(ctx, r.db,
		`UPDATE maintenance_bills SET status = 'paid', paid_at = $2, payment_method = $3, payment_ref = $4
		 WHERE id = $1 AND status <> 'paid'`, id, paidAt, method, nullIfEmpty(&ref))
	if err != nil {
		return false, fmt.Errorf("mark bill paid: %w", err)
	}
	return n > 0, nil
}
