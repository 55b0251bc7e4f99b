package admin

import (
	"context"
	"sync"
	"time"

	"ludic-admin/internal/logger"
	"ludic-admin/internal/metrics"

	"go.uber.org/zap"
)

// Observer is told when a fetch starts and how it ended.
type Observer interface {
	FetchStarted()
	FetchFinished(n int, err error)
}

// Store is the in-memory mirror of one table for one screen session. Every
// successful fetch replaces the collection wholesale; a failed one leaves the
// previous collection in place.
type Store[T any] struct {
	entity   string
	singular string
	table    Table[T]
	sortFn   func([]T)
	tally    func(T) []string
	log      *logger.Logger

	mu        sync.RWMutex
	items     []T
	counts    map[string]int
	query     Query
	lastErr   string
	fetchedAt time.Time
	observers []Observer
}

func NewStore[T any, D any](e Entity[T, D], table Table[T], l *logger.Logger) *Store[T] {
	return &Store[T]{
		entity:   e.Name,
		singular: e.Singular,
		table:    table,
		sortFn:   e.sort,
		tally:    e.Tally,
		log:      l.With(zap.String("entity", e.Name)),
		items:    []T{},
		counts:   map[string]int{},
	}
}

// Observe registers o for fetch notifications.
func (s *Store[T]) Observe(o Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// Fetch reloads the whole collection.
func (s *Store[T]) Fetch(ctx context.Context) error {
	s.mu.RLock()
	q := s.query
	observers := append([]Observer(nil), s.observers...)
	s.mu.RUnlock()

	for _, o := range observers {
		o.FetchStarted()
	}

	start := time.Now()
	rows, err := s.table.List(ctx, q)
	metrics.FetchLatency.WithLabelValues(s.entity).Observe(time.Since(start).Seconds())

	if err != nil {
		f := &Failure{Kind: NetworkFailed, Op: "fetch", Entity: s.singular, Reason: err.Error(), Err: err}
		metrics.FetchesTotal.WithLabelValues(s.entity, "error").Inc()
		s.log.Error("fetch failed, keeping previous collection", err)

		s.mu.Lock()
		s.lastErr = f.UserMessage()
		n := len(s.items)
		s.mu.Unlock()

		for _, o := range observers {
			o.FetchFinished(n, f)
		}
		return f
	}

	if rows == nil {
		rows = []T{}
	}
	s.sortFn(rows)
	counts := make(map[string]int)
	for _, r := range rows {
		for _, k := range s.tally(r) {
			counts[k]++
		}
	}

	s.mu.Lock()
	s.items = rows
	s.counts = counts
	s.lastErr = ""
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	metrics.FetchesTotal.WithLabelValues(s.entity, "ok").Inc()
	s.log.Debug("collection refreshed", zap.Int("rows", len(rows)))

	for _, o := range observers {
		o.FetchFinished(len(rows), nil)
	}
	return nil
}

// Items returns the current collection. The slice must not be modified.
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Counts returns aggregate counts from the last successful fetch.
func (s *Store[T]) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// LastError is the user-facing message of the last failed fetch, or "".
func (s *Store[T]) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store[T]) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}

// Query returns a copy of the active filter.
func (s *Store[T]) Query() Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := Query{Eq: map[string]string{}}
	for k, v := range s.query.Eq {
		out.Eq[k] = v
	}
	return out
}

func (s *Store[T]) setQuery(q Query) {
	s.mu.Lock()
	s.query = q
	s.mu.Unlock()
}

// find looks a record up by id in the current collection.
func find[T any](items []T, id int64, idOf func(T) int64) (T, bool) {
	for _, it := range items {
		if idOf(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}
