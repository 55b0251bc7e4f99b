package admin

import (
	"context"
	"fmt"

	"ludic-admin/internal/logger"
	"ludic-admin/internal/metrics"

	"go.uber.org/zap"
)

// Auditor records who changed what. Failures to record are the auditor's problem.
type Auditor interface {
	Record(ctx context.Context, action string, details any)
}

type nopAuditor struct{}

func (nopAuditor) Record(context.Context, string, any) {}

// Confirmer answers a destructive-action prompt.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

var (
	Accept  Confirmer = ConfirmFunc(func(context.Context, string) bool { return true })
	Decline Confirmer = ConfirmFunc(func(context.Context, string) bool { return false })
)

// Coordinator runs validate → normalize → write → refresh for one entity kind.
// Validation always finishes before anything is sent to the table. Update
// replaces every editable field of the row.
type Coordinator[T any, D any] struct {
	entity Entity[T, D]
	table  Table[T]
	store  *Store[T]
	audit  Auditor
	log    *logger.Logger
}

func NewCoordinator[T any, D any](e Entity[T, D], table Table[T], store *Store[T], audit Auditor, l *logger.Logger) *Coordinator[T, D] {
	if audit == nil {
		audit = nopAuditor{}
	}
	return &Coordinator[T, D]{
		entity: e,
		table:  table,
		store:  store,
		audit:  audit,
		log:    l.With(zap.String("entity", e.Name)),
	}
}

// Create inserts a new row built from d.
func (c *Coordinator[T, D]) Create(ctx context.Context, d D) (T, error) {
	var zero T
	row, f := c.prepare("create", d, true)
	if f != nil {
		return zero, c.fail(f)
	}

	created, err := c.table.Insert(ctx, row)
	if err != nil {
		return zero, c.fail(classify("create", c.entity.Singular, err))
	}

	id := c.entity.ID(created)
	c.succeed(ctx, "create", id)
	return created, nil
}

// Update overwrites the row with id using d.
func (c *Coordinator[T, D]) Update(ctx context.Context, id int64, d D) (T, error) {
	var zero T
	row, f := c.prepare("update", d, false)
	if f != nil {
		return zero, c.fail(f)
	}

	updated, err := c.table.Update(ctx, id, row)
	if err != nil {
		return zero, c.fail(classify("update", c.entity.Singular, err))
	}

	c.succeed(ctx, "update", id)
	return updated, nil
}

// Delete removes the row with id once confirm agrees. A declined prompt makes
// no table call and returns Unconfirmed.
func (c *Coordinator[T, D]) Delete(ctx context.Context, id int64, confirm Confirmer) (Outcome, error) {
	prompt := fmt.Sprintf("Удалить %s #%d?", nounOf(c.entity.Singular).acc, id)
	if confirm == nil || !confirm.Confirm(ctx, prompt) {
		metrics.MutationsTotal.WithLabelValues(c.entity.Name, "delete", "unconfirmed").Inc()
		c.log.Debug("delete not confirmed", zap.Int64("id", id))
		return Unconfirmed, nil
	}

	if err := c.table.Delete(ctx, id); err != nil {
		return Applied, c.fail(classify("delete", c.entity.Singular, err))
	}

	c.succeed(ctx, "delete", id)
	return Applied, nil
}

func (c *Coordinator[T, D]) prepare(op string, d D, creating bool) (T, *Failure) {
	var zero T
	if msgs := c.entity.validate(d, creating); len(msgs) > 0 {
		return zero, invalid(op, c.entity.Singular, msgs)
	}
	row, err := c.entity.Normalize(d)
	if err != nil {
		return zero, &Failure{Kind: ValidationFailed, Op: op, Entity: c.entity.Singular, Messages: []string{err.Error()}, Err: err}
	}
	return row, nil
}

func (c *Coordinator[T, D]) fail(f *Failure) error {
	metrics.MutationsTotal.WithLabelValues(c.entity.Name, f.Op, f.Kind.String()).Inc()
	if f.Kind == ValidationFailed {
		c.log.Debug("mutation rejected", zap.String("op", f.Op), zap.Strings("messages", f.Messages))
	} else {
		c.log.Warn("mutation failed", f.Err, zap.String("op", f.Op), zap.String("kind", f.Kind.String()))
	}
	return f
}

// succeed records the change and refreshes the store. A failed refresh leaves
// the mutation applied; the store keeps its previous rows and its error message.
func (c *Coordinator[T, D]) succeed(ctx context.Context, op string, id int64) {
	metrics.MutationsTotal.WithLabelValues(c.entity.Name, op, "ok").Inc()
	c.log.Info("mutation applied", zap.String("op", op), zap.Int64("id", id))
	c.audit.Record(ctx, op+"_"+c.entity.Singular, map[string]any{"id": id})

	if err := c.store.Fetch(ctx); err != nil {
		c.log.Warn("refresh after mutation failed", err, zap.String("op", op))
	}
}
