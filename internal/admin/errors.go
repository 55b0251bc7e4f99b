package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by a Table when the target row does not exist.
var ErrNotFound = errors.New("record not found")

// ConflictError is returned by a Table when a uniqueness constraint rejects a write.
type ConflictError struct {
	Field string
	Err   error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("unique violation on %s", e.Field)
}

func (e *ConflictError) Unwrap() error { return e.Err }

type Kind int

const (
	ValidationFailed Kind = iota + 1
	ConflictFailed
	NotFound
	NetworkFailed
)

func (k Kind) String() string {
	switch k {
	case ValidationFailed:
		return "validation_failed"
	case ConflictFailed:
		return "conflict"
	case NotFound:
		return "not_found"
	case NetworkFailed:
		return "network_failed"
	default:
		return "unknown"
	}
}

// Failure is the typed error every screen operation returns.
type Failure struct {
	Kind     Kind
	Op       string // create, update, delete, fetch
	Entity   string // singular entity name
	Messages []string
	Field    string
	Reason   string
	Err      error
}

func (f *Failure) Error() string {
	switch f.Kind {
	case ValidationFailed:
		return fmt.Sprintf("%s %s: validation failed: %s", f.Op, f.Entity, strings.Join(f.Messages, "; "))
	case ConflictFailed:
		return fmt.Sprintf("%s %s: conflict on %s", f.Op, f.Entity, f.Field)
	case NotFound:
		return fmt.Sprintf("%s %s: not found", f.Op, f.Entity)
	default:
		return fmt.Sprintf("%s %s: %s", f.Op, f.Entity, f.Reason)
	}
}

func (f *Failure) Unwrap() error { return f.Err }

// UserMessage is the single line shown to the admin.
func (f *Failure) UserMessage() string {
	n := nounOf(f.Entity)
	switch f.Kind {
	case ValidationFailed:
		return strings.Join(f.Messages, ", ")
	case ConflictFailed:
		return fmt.Sprintf("%s с таким значением %s уже существует", n.nom, f.Field)
	case NotFound:
		return n.nom + " больше не существует"
	default:
		if f.Op == "fetch" {
			return "Не удалось загрузить список " + n.genPlural
		}
		return fmt.Sprintf("Не удалось %s %s", lookup(verbs, f.Op), n.acc)
	}
}

// KindOf reports the failure kind of err, or 0 when err is not a *Failure.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return 0
}

func classify(op, entity string, err error) *Failure {
	var conflict *ConflictError
	switch {
	case errors.As(err, &conflict):
		return &Failure{Kind: ConflictFailed, Op: op, Entity: entity, Field: conflict.Field, Err: err}
	case errors.Is(err, ErrNotFound):
		return &Failure{Kind: NotFound, Op: op, Entity: entity, Err: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &Failure{Kind: NetworkFailed, Op: op, Entity: entity, Reason: "request cancelled", Err: err}
	default:
		return &Failure{Kind: NetworkFailed, Op: op, Entity: entity, Reason: err.Error(), Err: err}
	}
}

func invalid(op, entity string, messages []string) *Failure {
	return &Failure{Kind: ValidationFailed, Op: op, Entity: entity, Messages: messages}
}

// Outcome of a destructive action that needs confirmation.
type Outcome int

const (
	Applied Outcome = iota
	Unconfirmed
)

func (o Outcome) String() string {
	if o == Unconfirmed {
		return "unconfirmed"
	}
	return "applied"
}
