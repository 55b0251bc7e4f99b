package internal

import (
	"context"
	"sync"

	"ludic-admin/internal/admin"
)

// memTable is an in-memory admin.Table for exercising the HTTP surface.
type memTable[T any] struct {
	mu     sync.Mutex
	rows   []T
	nextID int64
	idOf   func(T) int64
	setID  func(*T, int64)

	listErr   error
	insertErr error
}

func newMemTable[T any](idOf func(T) int64, setID func(*T, int64), rows ...T) *memTable[T] {
	t := &memTable[T]{idOf: idOf, setID: setID}
	for _, r := range rows {
		t.nextID++
		setID(&r, t.nextID)
		t.rows = append(t.rows, r)
	}
	return t
}

func memPlayers(rows ...admin.Player) *memTable[admin.Player] {
	return newMemTable(func(p admin.Player) int64 { return p.ID }, func(p *admin.Player, id int64) { p.ID = id }, rows...)
}

func memMatches(rows ...admin.Match) *memTable[admin.Match] {
	return newMemTable(func(m admin.Match) int64 { return m.ID }, func(m *admin.Match, id int64) { m.ID = id }, rows...)
}

func (t *memTable[T]) List(context.Context, admin.Query) ([]T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.listErr != nil {
		return nil, t.listErr
	}
	return append([]T(nil), t.rows...), nil
}

func (t *memTable[T]) Insert(_ context.Context, row T) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.insertErr != nil {
		var zero T
		return zero, t.insertErr
	}
	t.nextID++
	t.setID(&row, t.nextID)
	t.rows = append(t.rows, row)
	return row, nil
}

func (t *memTable[T]) Update(_ context.Context, id int64, row T) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, r := range t.rows {
		if t.idOf(r) == id {
			t.setID(&row, id)
			t.rows[i] = row
			return row, nil
		}
	}
	var zero T
	return zero, admin.ErrNotFound
}

func (t *memTable[T]) Delete(_ context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, r := range t.rows {
		if t.idOf(r) == id {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return nil
		}
	}
	return admin.ErrNotFound
}

func (t *memTable[T]) Count(context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows), nil
}

// memAccounts signs in against the same rows the players screen edits.
type memAccounts struct {
	players *memTable[admin.Player]
}

func (m memAccounts) AdminByEmail(ctx context.Context, email string) (Account, error) {
	rows, _ := m.players.List(ctx, admin.Query{})
	for _, p := range rows {
		if p.Email == email {
			return Account{ID: p.ID, Name: p.Name, Email: p.Email, Role: string(p.Role), PassHash: p.PasswordHash}, nil
		}
	}
	return Account{}, admin.ErrNotFound
}

func (m memAccounts) ByID(ctx context.Context, id int64) (admin.Player, error) {
	rows, _ := m.players.List(ctx, admin.Query{})
	for _, p := range rows {
		if p.ID == id {
			return p, nil
		}
	}
	return admin.Player{}, admin.ErrNotFound
}

// memAudit records entries and serves them back as the audit log.
type memAudit struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (a *memAudit) Record(ctx context.Context, action string, _ any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	actor := ""
	if id := actorFrom(ctx); id != nil {
		actor = "admin"
	}
	a.entries = append(a.entries, LogEntry{ID: int64(len(a.entries) + 1), Actor: actor, Action: action})
}

func (a *memAudit) Recent(_ context.Context, limit int) ([]LogEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []LogEntry{}
	for i := len(a.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, a.entries[i])
	}
	return out, nil
}

func (a *memAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}
