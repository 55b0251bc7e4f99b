package admin

import (
	"context"
	"sync"
)

// fakeTable is an in-memory Table that counts calls and can be told to fail.
type fakeTable[T any] struct {
	mu     sync.Mutex
	rows   []T
	nextID int64
	idOf   func(T) int64
	setID  func(*T, int64)

	calls map[string]int

	listErr   error
	insertErr error
	updateErr error
	deleteErr error
	lastQuery Query
}

func newFakeTable[T any](idOf func(T) int64, setID func(*T, int64), rows ...T) *fakeTable[T] {
	ft := &fakeTable[T]{idOf: idOf, setID: setID, calls: map[string]int{}}
	for _, r := range rows {
		ft.nextID++
		setID(&r, ft.nextID)
		ft.rows = append(ft.rows, r)
	}
	return ft
}

func newPlayerTable(rows ...Player) *fakeTable[Player] {
	return newFakeTable(func(p Player) int64 { return p.ID }, func(p *Player, id int64) { p.ID = id }, rows...)
}

func newMatchTable(rows ...Match) *fakeTable[Match] {
	return newFakeTable(func(m Match) int64 { return m.ID }, func(m *Match, id int64) { m.ID = id }, rows...)
}

func (f *fakeTable[T]) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeTable[T]) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeTable[T]) List(_ context.Context, q Query) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["list"]++
	f.lastQuery = q
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]T, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeTable[T]) Insert(_ context.Context, row T) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["insert"]++
	if f.insertErr != nil {
		var zero T
		return zero, f.insertErr
	}
	f.nextID++
	f.setID(&row, f.nextID)
	f.rows = append(f.rows, row)
	return row, nil
}

func (f *fakeTable[T]) Update(_ context.Context, id int64, row T) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["update"]++
	if f.updateErr != nil {
		var zero T
		return zero, f.updateErr
	}
	for i, r := range f.rows {
		if f.idOf(r) == id {
			f.setID(&row, id)
			f.rows[i] = row
			return row, nil
		}
	}
	var zero T
	return zero, ErrNotFound
}

func (f *fakeTable[T]) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["delete"]++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, r := range f.rows {
		if f.idOf(r) == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeTable[T]) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["count"]++
	return len(f.rows), nil
}
