package audit

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"hrportal/internal/domain/auth"
	"hrportal/internal/platform/querier"
	"hrportal/internal/platform/requestctx"
)

type Event struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actorId"`
	ActorName  string          `json:"actorName"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	IP         string          `json:"ip"`
	CreatedAt  time.Time       `json:"createdAt"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
}

type Filter struct {
	Action     string
	EntityType string
	ActorUser  string
}

type Service struct {
	DB querier.Querier
}

func New(db querier.Querier) *Service {
	return &Service{DB: db}
}

func (s *Service) Record(ctx context.Context, actorID, action, entityType, entityID, requestID, ip string, before, after any) error {
	beforeJSON, err := marshalOptional(before)
	if err != nil {
		return err
	}
	afterJSON, err := marshalOptional(after)
	if err != nil {
		return err
	}

	_, err = s.DB.Exec(ctx, `
    INSERT INTO audit_events (actor_user_id, action, entity_type, entity_id, before_json, after_json, request_id, ip)
    VALUES (NULLIF($1, '')::uuid, $2, $3, $4, $5, $6, $7, $8)
  `, actorID, action, entityType, entityID, beforeJSON, afterJSON, requestID, ip)
	return err
}

// Log records an event on behalf of the identity and request carried by ctx.
// Audit failures never fail the mutation that triggered them.
func (s *Service) Log(ctx context.Context, action, entityType, entityID string, before, after any) {
	if s == nil {
		return
	}
	var actorID string
	if identity, ok := auth.IdentityFromContext(ctx); ok {
		actorID = identity.UserID
	}
	requestID := requestctx.GetRequestID(ctx)
	if err := s.Record(ctx, actorID, action, entityType, entityID, requestID, requestctx.GetClientIP(ctx), before, after); err != nil {
		slog.Error("audit record failed", "err", err, "action", action, "entityType", entityType, "entityId", entityID, "requestId", requestID)
	}
}

func marshalOptional(value any) ([]byte, error) {
	if value == nil {
		return nil, nil
	}
	return json.Marshal(value)
}

func (s *Service) Count(ctx context.Context, filter Filter) (int, error) {
	query, args := buildBaseQuery("SELECT COUNT(1)", filter)
	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Service) List(ctx context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, error) {
	selectCols := "e.id::text, COALESCE(e.actor_user_id::text, ''), COALESCE(u.username, ''), e.action, e.entity_type, e.entity_id, e.request_id, e.ip, e.created_at"
	if includeDetails {
		selectCols += ", e.before_json, e.after_json"
	}
	query, args := buildBaseQuery("SELECT "+selectCols, filter)
	query += fmt.Sprintf(" ORDER BY e.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var evt Event
		dest := []any{&evt.ID, &evt.ActorID, &evt.ActorName, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &evt.IP, &evt.CreatedAt}
		if includeDetails {
			dest = append(dest, &evt.Before, &evt.After)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}

// ListExport returns the whole trail, newest first, without payloads.
func (s *Service) ListExport(ctx context.Context, filter Filter) ([]Event, error) {
	total, err := s.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, filter, false, total, 0)
}

func buildBaseQuery(prefix string, filter Filter) (string, []any) {
	query := prefix + " FROM audit_events e LEFT JOIN users u ON u.id = e.actor_user_id WHERE true"
	var args []any
	if filter.Action != "" {
		args = append(args, filter.Action)
		query += fmt.Sprintf(" AND e.action = $%d", len(args))
	}
	if filter.EntityType != "" {
		args = append(args, filter.EntityType)
		query += fmt.Sprintf(" AND e.entity_type = $%d", len(args))
	}
	if filter.ActorUser != "" {
		args = append(args, filter.ActorUser)
		query += fmt.Sprintf(" AND e.actor_user_id::text = $%d", len(args))
	}
	return query, args
}

func WriteCSV(w io.Writer, events []Event, loc *time.Location) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"created_at", "actor", "action", "entity_type", "entity_id", "request_id", "ip"}); err != nil {
		return err
	}
	for _, evt := range events {
		actor := evt.ActorName
		if actor == "" {
			actor = evt.ActorID
		}
		if err := writer.Write([]string{
			evt.CreatedAt.In(loc).Format("2006-01-02 15:04:05"),
			actor, evt.Action, evt.EntityType, evt.EntityID, evt.RequestID, evt.IP,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
