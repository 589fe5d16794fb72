package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go-society-manager/internal/event"
	"go-society-manager/internal/model"
	"go-society-manager/internal/pagination"
	"go-society-manager/pkg/apierror"
)

const (
	auditStatusSuccess = "success"
	auditStatusFailure = "failure"
)

// AuditService persists every mutation published on the event bus and
// answers paged audit queries.
type AuditService struct {
	store AuditStore
}

func NewAuditService(store AuditStore) *AuditService {
	return &AuditService{store: store}
}

// Run consumes bus events until ctx is cancelled.
func (s *AuditService) Run(ctx context.Context, bus event.Bus) {
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			// Entries are written even while shutting down.
			writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			if err := s.store.Log(writeCtx, entryFromEvent(e)); err != nil {
				slog.Error("failed to persist audit entry", "type", e.Type, "resource", e.Resource, "error", err)
			}
			cancel()
		}
	}
}

func (s *AuditService) Query(ctx context.Context, query model.AuditQuery, req pagination.Request, filters pagination.Filters) (pagination.Page[model.AuditEntry], error) {
	if _, err := parseOptionalAuditTime(query.From); err != nil {
		return pagination.Page[model.AuditEntry]{}, apierror.New("BAD_REQUEST", "invalid 'from' datetime format", query.From, http.StatusBadRequest)
	}
	if _, err := parseOptionalAuditTime(query.To); err != nil {
		return pagination.Page[model.AuditEntry]{}, apierror.New("BAD_REQUEST", "invalid 'to' datetime format", query.To, http.StatusBadRequest)
	}

	return s.store.Query(ctx, query, req.Normalize(), filters)
}

func entryFromEvent(e event.Event) model.AuditEntry {
	status := auditStatusSuccess
	if e.Failed != "" {
		status = auditStatusFailure
	}

	occurredAt := e.Timestamp
	if occurredAt == "" {
		occurredAt = time.Now().UTC().Format(time.RFC3339Nano)
	}

	return model.AuditEntry{
		Action:     string(e.Type),
		OccurredAt: occurredAt,
		Actor: model.AuditActor{
			UserID:   e.Actor.UserID,
			Username: e.Actor.Username,
			Role:     e.Actor.Role,
			IP:       e.Actor.IP,
		},
		Status:   status,
		Resource: e.Resource,
		Before:   e.Before,
		After:    e.Payload,
		Error:    e.Failed,
	}
}

func parseOptionalAuditTime(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, nil
	}

	if value, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
		return value.UTC(), nil
	}
	if value, err := time.Parse(dateLayout, trimmed); err == nil {
		return value, nil
	}

	value, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return time.Time{}, err
	}
	return value.UTC(), nil
}
