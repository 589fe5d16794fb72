package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-society-manager/internal/model"
	"go-society-manager/internal/pagination"
)

const auditColumns = `action, occurred_at, actor_user_id, actor_username, actor_role, actor_ip,
	status, resource, before_data, after_data, error_text`

type AuditRepository struct {
	db Querier
}

func NewAuditRepository(db Querier) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Log(ctx context.Context, entry model.AuditEntry) error {
	before, err := jsonbArg(entry.Before)
	if err != nil {
		return fmt.Errorf("marshal before data: %w", err)
	}
	after, err := jsonbArg(entry.After)
	if err != nil {
		return fmt.Errorf("marshal after data: %w", err)
	}
	occurredAt, err := time.Parse(time.RFC3339Nano, entry.OccurredAt)
	if err != nil {
		occurredAt = time.Now().UTC()
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO audit_entries
		 (action, occurred_at, actor_user_id, actor_username, actor_role, actor_ip,
		  status, resource, before_data, after_data, error_text)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		entry.Action, occurredAt,
		entry.Actor.UserID, entry.Actor.Username, entry.Actor.Role, entry.Actor.IP,
		entry.Status, entry.Resource, before, after, entry.Error)
	if err != nil {
		return fmt.Errorf("log audit entry: %w", err)
	}
	return nil
}

// jsonbArg encodes v for a JSONB column; nil stays SQL NULL.
func jsonbArg(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func scanAuditEntry(row rowScanner) (model.AuditEntry, error) {
	var (
		e                     model.AuditEntry
		occurredAt            time.Time
		beforeJSON, afterJSON []byte
	)
	if err := row.Scan(
		&e.Action, &occurredAt,
		&e.Actor.UserID, &e.Actor.Username, &e.Actor.Role, &e.Actor.IP,
		&e.Status, &e.Resource, &beforeJSON, &afterJSON, &e.Error,
	); err != nil {
		return model.AuditEntry{}, err
	}

	e.OccurredAt = occurredAt.UTC().Format(time.RFC3339Nano)

	if len(beforeJSON) > 0 {
		var before any
		if jsonErr := json.Unmarshal(beforeJSON, &before); jsonErr == nil {
			e.Before = before
		}
	}
	if len(afterJSON) > 0 {
		var after any
		if jsonErr := json.Unmarshal(afterJSON, &after); jsonErr == nil {
			e.After = after
		}
	}
	return e, nil
}

func (r *AuditRepository) Query(ctx context.Context, query model.AuditQuery, req pagination.Request, filters pagination.Filters) (pagination.Page[model.AuditEntry], error) {
	where := &whereBuilder{}
	where.addIf("lower(action) = lower($%d)", query.Action)
	where.addIf("actor_user_id = $%d", query.ActorID)
	where.addIf("lower(status) = lower($%d)", query.Status)
	where.addIf("occurred_at >= $%d::timestamptz", query.From)
	where.addIf("occurred_at <= $%d::timestamptz", query.To)
	where.search(filters.Search, "resource", "actor_username")

	return queryPage(ctx, r.db, pageQuery{
		noun:    "audit entries",
		from:    "audit_entries",
		columns: auditColumns,
		where:   where,
		order:   "occurred_at DESC",
	}, req, scanAuditEntry)
}
