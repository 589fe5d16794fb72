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

const unitColumns = `id, society_id, block, number, floor, area_sqft, type, occupied, created_at`

var unitSortColumns = map[string]string{
	"block":     "block",
	"number":    "number",
	"floor":     "floor",
	"area_sqft": "area_sqft",
	"type":      "type",
}

type UnitRepository struct {
	db Querier
}

func NewUnitRepository(db Querier) *UnitRepository {
	return &UnitRepository{db: db}
}

func scanUnit(row rowScanner) (model.Unit, error) {
	var u model.Unit
	err := row.Scan(&u.ID, &u.SocietyID, &u.Block, &u.Number, &u.Floor, &u.AreaSqft, &u.Type, &u.Occupied, &u.CreatedAt)
	return u, err
}

func (r *UnitRepository) List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Unit], error) {
	where := &whereBuilder{}
	where.add("society_id = $%d", societyID)
	where.search(filters.Search, "block", "number")
	where.addIf("type = $%d", filters.Get("type"))
	switch filters.Get("occupied") {
	case "true", "yes":
		where.add("occupied = $%d", true)
	case "false", "no":
		where.add("occupied = $%d", false)
	}

	return queryPage(ctx, r.db, pageQuery{
		noun:    "units",
		from:    "units",
		columns: unitColumns,
		where:   where,
		order:   orderBy(filters, unitSortColumns, "block ASC, number ASC"),
	}, req, scanUnit)
}

// ListOccupied returns every occupied unit of a society, unpaged.
func (r *UnitRepository) ListOccupied(ctx context.Context, societyID string) ([]model.Unit, error) {
	units, err := collect(ctx, r.db, scanUnit,
		`SELECT `+unitColumns+` FROM units WHERE society_id = $1 AND occupied = true ORDER BY block, number`,
		societyID)
	if err != nil {
		return nil, fmt.Errorf("list occupied units: %w", err)
	}
	return units, nil
}

func (r *UnitRepository) FindByID(ctx context.Context, id string) (model.Unit, error) {
	u, err := scanUnit(r.db.QueryRow(ctx, `SELECT `+unitColumns+` FROM units WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Unit{}, apierror.NotFound("unit", id)
	}
	if err != nil {
		return model.Unit{}, fmt.Errorf("find unit: %w", err)
	}
	return u, nil
}

func (r *UnitRepository) Create(ctx context.Context, u model.Unit) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO units (id, society_id, block, number, floor, area_sqft, type, occupied, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.SocietyID, u.Block, u.Number, u.Floor, u.AreaSqft, u.Type, u.Occupied, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("create unit: %w", err)
	}
	return nil
}

func (r *UnitRepository) Update(ctx context.Context, u model.Unit) error {
	n, err := execAffecting(ctx, r.db,
		`UPDATE units SET block = $2, number = $3, floor = $4, area_sqft = $5, type = $6, occupied = $7
		 WHERE id = $1`,
		u.ID, u.Block, u.Number, u.Floor, u.AreaSqft, u.Type, u.Occupied)
	if err != nil {
		return fmt.Errorf("update unit: %w", err)
	}
	if n == 0 {
		return apierror.NotFound("unit", u.ID)
	}
	return nil
}

func (r *UnitRepository) Delete(ctx context.Context, id string) error {
	n, err := execAffecting(ctx, r.db, `DELETE FROM units WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	if n == 0 {
		return apierror.NotFound("unit", id)
	}
	return nil
}
