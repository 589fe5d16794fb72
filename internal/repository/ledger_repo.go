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
	incomeColumns  = `id, society_id, title, category, amount, received_on, notes, created_at`
	expenseColumns = `id, society_id, title, category, amount, spent_on, vendor, notes, attachment_path, created_at`
)

var incomeSortColumns = map[string]string{
	"title":       "title",
	"category":    "category",
	"amount":      "amount",
	"received_on": "received_on",
}

var expenseSortColumns = map[string]string{
	"title":    "title",
	"category": "category",
	"amount":   "amount",
	"vendor":   "vendor",
	"spent_on": "spent_on",
}

type IncomeRepository struct {
	db Querier
}

func NewIncomeRepository(db Querier) *IncomeRepository {
	return &IncomeRepository{db: db}
}

func scanIncome(row rowScanner) (model.Income, error) {
	var in model.Income
	err := row.Scan(&in.ID, &in.SocietyID, &in.Title, &in.Category, &in.Amount, &in.ReceivedOn, &in.Notes, &in.CreatedAt)
	return in, err
}

func (r *IncomeRepository) List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Income], error) {
	where := &whereBuilder{}
	where.add("society_id = $%d", societyID)
	where.search(filters.Search, "title", "notes")
	where.addIf("category = $%d", filters.Get("category"))
	where.addIf("received_on >= $%d::date", filters.Get("from"))
	where.addIf("received_on <= $%d::date", filters.Get("to"))

	return queryPage(ctx, r.db, pageQuery{
		noun:    "incomes",
		from:    "incomes",
		columns: incomeColumns,
		where:   where,
		order:   orderBy(filters, incomeSortColumns, "received_on DESC, created_at DESC"),
	}, req, scanIncome)
}

func (r *IncomeRepository) FindByID(ctx context.Context, id string) (model.Income, error) {
	in, err := scanIncome(r.db.QueryRow(ctx, `SELECT `+incomeColumns+` FROM incomes WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Income{}, apierror.NotFound("income", id)
	}
	if err != nil {
		return model.Income{}, fmt.Errorf("find income: %w", err)
	}
	return in, nil
}

func (r *IncomeRepository) Create(ctx context.Context, in model.Income) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO incomes (id, society_id, title, category, amount, received_on, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		in.ID, in.SocietyID, in.Title, in.Category, in.Amount, in.ReceivedOn, in.Notes, in.CreatedAt)
	if err != nil {
		return fmt.Errorf("create income: %w", err)
	}
	return nil
}

func (r *IncomeRepository) Delete(ctx context.Context, id string) error {
	n, err := execAffecting(ctx, r.db, `DELETE FROM incomes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	if n == 0 {
		return apierror.NotFound("income", id)
	}
	return nil
}

type ExpenseRepository struct {
	db Querier
}

func NewExpenseRepository(db Querier) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func scanExpense(row rowScanner) (model.Expense, error) {
	var ex model.Expense
	err := row.Scan(&ex.ID, &ex.SocietyID, &ex.Title, &ex.Category, &ex.Amount, &ex.SpentOn,
		&ex.Vendor, &ex.Notes, &ex.AttachmentPath, &ex.CreatedAt)
	return ex, err
}

func (r *ExpenseRepository) List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Expense], error) {
	where := &whereBuilder{}
	where.add("society_id = $%d", societyID)
	where.search(filters.Search, "title", "vendor", "notes")
	where.addIf("category = $%d", filters.Get("category"))
	where.addIf("spent_on >= $%d::date", filters.Get("from"))
	where.addIf("spent_on <= $%d::date", filters.Get("to"))

	return queryPage(ctx, r.db, pageQuery{
		noun:    "expenses",
		from:    "expenses",
		columns: expenseColumns,
		where:   where,
		order:   orderBy(filters, expenseSortColumns, "spent_on DESC, created_at DESC"),
	}, req, scanExpense)
}

func (r *ExpenseRepository) FindByID(ctx context.Context, id string) (model.Expense, error) {
	ex, err := scanExpense(r.db.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Expense{}, apierror.NotFound("expense", id)
	}
	if err != nil {
		return model.Expense{}, fmt.Errorf("find expense: %w", err)
	}
	return ex, nil
}

func (r *ExpenseRepository) Create(ctx context.Context, ex model.Expense) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO expenses (id, society_id, title, category, amount, spent_on, vendor, notes, attachment_path, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		ex.ID, ex.SocietyID, ex.Title, ex.Category, ex.Amount, ex.SpentOn, ex.Vendor, ex.Notes,
		nullIfEmpty(ex.AttachmentPath), ex.CreatedAt)
	if err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) SetAttachment(ctx context.Context, id string, path string) error {
	n, err := execAffecting(ctx, r.db, `UPDATE expenses SET attachment_path = $2 WHERE id = $1`, id, path)
	if err != nil {
		return fmt.Errorf("set expense attachment: %w", err)
	}
	if n == 0 {
		return apierror.NotFound("expense", id)
	}
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	n, err := execAffecting(ctx, r.db, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n == 0 {
		return apierror.NotFound("expense", id)
	}
	return nil
}
