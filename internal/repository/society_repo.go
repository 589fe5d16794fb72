package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"go-society-manager/internal/model"
	"go-society-manager/internal/pagination"
	"go-society-manager/pkg/apierror"
)

const societyColumns = `id, name, address, city, registration_no, maintenance_rate,
	fixed_charge, late_fee, due_day, created_at, updated_at`

var societySortColumns = map[string]string{
	"name":       "name",
	"city":       "city",
	"created_at": "created_at",
}

type SocietyRepository struct {
	db Querier
}

func NewSocietyRepository(db Querier) *SocietyRepository {
	return &SocietyRepository{db: db}
}

func scanSociety(row rowScanner) (model.Society, error) {
	var s model.Society
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.City, &s.RegistrationNo, &s.MaintenanceRate,
		&s.FixedCharge, &s.LateFee, &s.DueDay, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *SocietyRepository) List(ctx context.Context, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Society], error) {
	where := &whereBuilder{}
	where.search(filters.Search, "name", "city", "registration_no")
	where.addIf("lower(city) = lower($%d)", filters.Get("city"))

	return queryPage(ctx, r.db, pageQuery{
		noun:    "societies",
		from:    "societies",
		columns: societyColumns,
		where:   where,
		order:   orderBy(filters, societySortColumns, "name ASC"),
	}, req, scanSociety)
}

func (r *SocietyRepository) FindByID(ctx context.Context, id string) (model.Society, error) {
	s, err := scanSociety(r.db.QueryRow(ctx,
		`SELECT `+societyColumns+` FROM societies WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Society{}, apierror.NotFound("society", id)
	}
	if err != nil {
		return model.Society{}, fmt.Errorf("find society: %w", err)
	}
	return s, nil
}

func (r *SocietyRepository) Create(ctx context.Context, s model.Society) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO societies (id, name, address, city, registration_no, maintenance_rate,
		                        fixed_charge, late_fee, due_day, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.Name, s.Address, s.City, s.RegistrationNo, s.MaintenanceRate,
		s.FixedCharge, s.LateFee, s.DueDay, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create society: %w", err)
	}
	return nil
}

func (r *SocietyRepository) Update(ctx context.Context, s model.Society) error {
	n, err := execAffecting(ctx, r.db,
		`UPDATE societies SET name = $2, address = $3, city = $4, registration_no = $5,
		        maintenance_rate = $6, fixed_charge = $7, late_fee = $8, due_day = $9, updated_at = $10
		 WHERE id = $1`,
		s.ID, s.Name, s.Address, s.City, s.RegistrationNo,
		s.MaintenanceRate, s.FixedCharge, s.LateFee, s.DueDay, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update society: %w", err)
	}
	if n == 0 {
		return apierror.NotFound("society", s.ID)
	}
	return nil
}

func (r *SocietyRepository) Delete(ctx context.Context, id string) error {
	n, err := execAffecting(ctx, r.db, `DELETE FROM societies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete society: %w", err)
	}
	if n == 0 {
		return apierror.NotFound("society", id)
	}
	return nil
}

// Totals sums the ledgers and bills of a society between from and to
// (inclusive, either may be empty).
func (r *SocietyRepository) Totals(ctx context.Context, societyID string, from string, to string) (model.Summary, error) {
	summary := model.Summary{SocietyID: societyID, From: from, To: to}

	err := r.db.QueryRow(ctx,
		`SELECT
		   COALESCE((SELECT SUM(amount) FROM incomes
		             WHERE society_id = $1
		               AND ($2::text = '' OR received_on >= NULLIF($2::text, '')::date)
		               AND ($3::text = '' OR received_on <= NULLIF($3::text, '')::date)), 0),
		   COALESCE((SELECT SUM(amount) FROM expenses
		             WHERE society_id = $1
		               AND ($2::text = '' OR spent_on >= NULLIF($2::text, '')::date)
		               AND ($3::text = '' OR spent_on <= NULLIF($3::text, '')::date)), 0),
		   COALESCE((SELECT SUM(total_amount) FROM maintenance_bills
		             WHERE society_id = $1
		               AND ($2::text = '' OR due_date >= NULLIF($2::text, '')::date)
		               AND ($3::text = '' OR due_date <= NULLIF($3::text, '')::date)), 0),
		   COALESCE((SELECT SUM(total_amount) FROM maintenance_bills
		             WHERE society_id = $1 AND status = 'paid'
		               AND ($2::text = '' OR due_date >= NULLIF($2::text, '')::date)
		               AND ($3::text = '' OR due_date <= NULLIF($3::text, '')::date)), 0)`,
		societyID, from, to).
		Scan(&summary.TotalIncome, &summary.TotalExpense, &summary.Billed, &summary.Collected)
	if err != nil {
		return model.Summary{}, fmt.Errorf("sum society totals: %w", err)
	}
	return summary, nil
}
