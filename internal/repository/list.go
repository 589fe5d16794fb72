package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"go-society-manager/internal/pagination"
)

// Querier is the part of *pgxpool.Pool the repositories use.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// whereBuilder accumulates AND-joined conditions and their positional args.
type whereBuilder struct {
	clauses []string
	args    []any
}

// add appends a condition; format receives the placeholder index as %d.
func (w *whereBuilder) add(format string, value any) {
	w.args = append(w.args, value)
	w.clauses = append(w.clauses, fmt.Sprintf(format, len(w.args)))
}

func (w *whereBuilder) addIf(format string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		w.add(format, value)
	}
}

// search matches term case-insensitively against any of columns.
func (w *whereBuilder) search(term string, columns ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return
	}

	w.args = append(w.args, "%"+term+"%")
	idx := len(w.args)

	parts := make([]string, 0, len(columns))
	for _, column := range columns {
		parts = append(parts, fmt.Sprintf("%s ILIKE $%d", column, idx))
	}
	w.clauses = append(w.clauses, "("+strings.Join(parts, " OR ")+")")
}

func (w *whereBuilder) clause() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.clauses, " AND ")
}

// orderBy resolves a requested sort key against the allowed columns. Unknown
// keys fall back so callers never reach the query with raw input.
func orderBy(filters pagination.Filters, allowed map[string]string, fallback string) string {
	column, ok := allowed[strings.ToLower(strings.TrimSpace(filters.Sort))]
	if !ok {
		return fallback
	}
	if filters.Descending() {
		return column + " DESC"
	}
	return column + " ASC"
}

type pageQuery struct {
	noun    string
	from    string
	columns string
	where   *whereBuilder
	order   string
}

// queryPage counts the matching rows then loads one page of them.
func queryPage[T any](ctx context.Context, db Querier, q pageQuery, req pagination.Request, scan func(rowScanner) (T, error)) (pagination.Page[T], error) {
	req = req.Normalize()
	if q.where == nil {
		q.where = &whereBuilder{}
	}
	whereClause := q.where.clause()

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", q.from, whereClause)
	if err := db.QueryRow(ctx, countQuery, q.where.args...).Scan(&total); err != nil {
		return pagination.Page[T]{}, fmt.Errorf("count %s: %w", q.noun, err)
	}

	argIdx := len(q.where.args) + 1
	dataQuery := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY %s LIMIT $%d OFFSET $%d",
		q.columns, q.from, whereClause, q.order, argIdx, argIdx+1)
	args := append(append([]any{}, q.where.args...), req.Limit(), req.Offset())

	items, err := collect(ctx, db, scan, dataQuery, args...)
	if err != nil {
		return pagination.Page[T]{}, fmt.Errorf("query %s: %w", q.noun, err)
	}

	return pagination.Page[T]{
		Data:       items,
		Pagination: pagination.NewMeta(req.Page, req.PageSize, total),
	}, nil
}

// collect runs query and scans every row with scan. The result is never nil.
func collect[T any](ctx context.Context, db Querier, scan func(rowScanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (T, error) {
		return scan(row)
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func execAffecting(ctx context.Context, db Querier, query string, args ...any) (int64, error) {
	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// nullIfEmpty stores an empty optional string as NULL.
func nullIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
