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

const (
	residentFrom    = `residents r LEFT JOIN units u ON u.id = r.unit_id`
	residentColumns = `r.id, r.society_id, r.unit_id, COALESCE(u.block, ''), COALESCE(u.number, ''), r.user_id,
	r.full_name, r.email, r.phone, r.role, r.status, r.moved_in_at, r.created_at`
)

var residentSortColumns = map[string]string{
	"full_name":   "r.full_name",
	"email":       "r.email",
	"role":        "r.role",
	"status":      "r.status",
	"moved_in_at": "r.moved_in_at",
	"unit":        "u.block, u.number",
}

type ResidentRepository struct {
	db Querier
}

func NewResidentRepository(db Querier) *ResidentRepository {
	return &ResidentRepository{db: db}
}

func scanResident(row rowScanner) (model.Resident, error) {
	var (
		res           model.Resident
		block, number string
	)
	err := row.Scan(&res.ID, &res.SocietyID, &res.UnitID, &block, &number, &res.UserID,
		&res.FullName, &res.Email, &res.Phone, &res.Role, &res.Status, &res.MovedInAt, &res.CreatedAt)
	if err != nil {
		return model.Resident{}, err
	}

	if res.UnitID != nil {
		res.UnitLabel = model.Unit{Block: block, Number: number}.Label()
	}
	return res, nil
}

func (r *ResidentRepository) List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Resident], error) {
	where := &whereBuilder{}
	where.add("r.society_id = $%d", societyID)
	where.search(filters.Search, "r.full_name", "r.email", "r.phone")
	where.addIf("r.status = $%d", filters.Get("status"))
	where.addIf("r.role = $%d", filters.Get("role"))

	return queryPage(ctx, r.db, pageQuery{
		noun:    "residents",
		from:    residentFrom,
		columns: residentColumns,
		where:   where,
		order:   orderBy(filters, residentSortColumns, "r.full_name ASC"),
	}, req, scanResident)
}

func (r *ResidentRepository) FindByID(ctx context.Context, id string) (model.Resident, error) {
	res, err := scanResident(r.db.QueryRow(ctx,
		`SELECT `+residentColumns+` FROM `+residentFrom+` WHERE r.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Resident{}, apierror.NotFound("resident", id)
	}
	if err != nil {
		return model.Resident{}, fmt.Errorf("find resident: %w", err)
	}
	return res, nil
}

// FindActiveByUnit returns the active resident of a unit, preferring the
// earliest to move in. ok is false when the unit has none.
func (r *ResidentRepository) FindActiveByUnit(ctx context.Context, unitID string) (model.Resident, bool, error) {
	res, err := scanResident(r.db.QueryRow(ctx,
		`SELECT `+residentColumns+` FROM `+residentFrom+`
		 WHERE r.unit_id = $1 AND r.status = 'active'
		 ORDER BY r.moved_in_at NULLS LAST, r.created_at
		 LIMIT 1`, unitID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Resident{}, false, nil
	}
	if err != nil {
		return model.Resident{}, false, fmt.Errorf("find resident by unit: %w", err)
	}
	return res, true, nil
}

func (r *ResidentRepository) Create(ctx context.Context, res model.Resident) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO residents (id, society_id, unit_id, user_id, full_name, email, phone, role, status, moved_in_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		res.ID, res.SocietyID, nullIfEmpty(res.UnitID), nullIfEmpty(res.UserID), res.FullName, res.Email,
		res.Phone, res.Role, res.Status, res.MovedInAt, res.CreatedAt)
	if err != nil {
		return fmt.Errorf("create resident: %w", err)
	}
	return nil
}

func (r *ResidentRepository) Update(ctx context.Context, res model.Resident) error {
	n, err := execAffecting(ctx, r.db,
		`UPDATE residents SET unit_id = $2, full_name = $3, email = $4, phone = $5, role = $6,
		        status = $7, moved_in_at = $8
		 WHERE id = $1`,
		res.ID, nullIfEmpty(res.UnitID), res.FullName, res.Email, res.Phone, res.Role, res.Status, res.MovedInAt)
	if err != nil {
		return fmt.Errorf("update resident: %w", err)
	}
	if n == 0 {
		return apierror.NotFound("resident", res.ID)
	}
	return nil
}

func (r *ResidentRepository) LinkUser(ctx context.Context, residentID string, userID string) error {
	n, err := execAffecting(ctx, r.db, `UPDATE residents SET user_id = $2 WHERE id = $1`, residentID, userID)
	if err != nil {
		return fmt.Errorf("link resident user: %w", err)
	}
	if n == 0 {
		return apierror.NotFound("resident", residentID)
	}
	return nil
}

func (r *ResidentRepository) Delete(ctx context.Context, id string) error {
	n, err := execAffecting(ctx, r.db, `DELETE FROM residents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete resident: %w", err)
	}
	if n == 0 {
		return apierror.NotFound("resident", id)
	}
	return nil
}
