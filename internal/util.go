package internal

import (
	"context"

	"ludic-admin/internal/logger"

	sq "github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type actorKey struct{}

func withActor(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, actorKey{}, id)
}

func actorFrom(ctx context.Context) *int64 {
	if id, ok := ctx.Value(actorKey{}).(int64); ok {
		return &id
	}
	return nil
}

// AuditTrail writes and reads the logs table.
type AuditTrail struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

func NewAuditTrail(db *pgxpool.Pool, l *logger.Logger) *AuditTrail {
	return &AuditTrail{db: db, log: l}
}

// Record implements admin.Auditor. The actor comes from ctx.
func (a *AuditTrail) Record(ctx context.Context, action string, details any) {
	logAction(ctx, a.db, a.log, actorFrom(ctx), action, details)
}

// Recent returns the latest entries, newest first.
func (a *AuditTrail) Recent(ctx context.Context, limit int) ([]LogEntry, error) {
	rows, err := qQuery(ctx, a.db, psql.Select(
		"l.id",
		"to_char(l.created_at, 'YYYY-MM-DD HH24:MI:SS')",
		"COALESCE(p.name, '(deleted)')",
		"l.action",
		"l.details",
	).From("logs l").
		LeftJoin("players p ON p.id = l.actor_id").
		OrderBy("l.id DESC").
		Limit(uint64(limit)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []LogEntry{}
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Actor, &e.Action, &e.Details); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func logAction(ctx context.Context, db *pgxpool.Pool, log *logger.Logger, actorID *int64, action string, details any) {
	text, err := json.Marshal(details)
	if err != nil {
		text = []byte(`{}`)
	}
	_, err = qExec(context.WithoutCancel(ctx), db, sq.Insert("logs").
		PlaceholderFormat(sq.Dollar).
		Columns("actor_id", "action", "details").
		Values(actorID, action, string(text)))
	if err != nil {
		log.Warn("audit log write failed", err, zap.String("action", action))
	}
}
