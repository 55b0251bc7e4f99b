package admin

import (
	"context"
	"errors"
	"sync"

	"ludic-admin/internal/logger"
)

// State is everything one admin list screen remembers between events. It only
// changes through the transition methods below.
type State[D any] struct {
	Pager         Pager
	Loading       bool
	Draft         D
	EditOpen      bool
	Editing       int64 // 0 while creating
	PendingDelete int64 // 0 = none
	Notice        string
}

func (s *State[D]) fetchStarted() { s.Loading = true }

func (s *State[D]) fetchSucceeded(n int) {
	s.Loading = false
	s.Pager.Clamp(n)
}

// fetchFailed keeps the stale collection; the page is still clamped against it.
func (s *State[D]) fetchFailed(n int, msg string) {
	s.Loading = false
	s.Notice = msg
	s.Pager.Clamp(n)
}

func (s *State[D]) pageChanged(page, n int) bool { return s.Pager.GoTo(page, n) }

func (s *State[D]) draftChanged(d D) { s.Draft = d }

func (s *State[D]) editOpened(id int64, d D) {
	s.EditOpen = true
	s.Editing = id
	s.Draft = d
	s.Notice = ""
}

func (s *State[D]) editClosed(blank D) {
	s.EditOpen = false
	s.Editing = 0
	s.Draft = blank
}

func (s *State[D]) deleteRequested(id int64) { s.PendingDelete = id }

func (s *State[D]) deleteCleared() { s.PendingDelete = 0 }

func (s *State[D]) mutationSucceeded(msg string, blank D) {
	s.editClosed(blank)
	s.Notice = msg
}

func (s *State[D]) mutationFailed(msg string) { s.Notice = msg }

// View is what the UI renders for a screen.
type View[T any] struct {
	Page[T]
	Loading       bool              `json:"loading"`
	Counts        map[string]int    `json:"counts"`
	Filter        map[string]string `json:"filter"`
	EditOpen      bool              `json:"edit_open"`
	Editing       int64             `json:"editing,omitempty"`
	PendingDelete int64             `json:"pending_delete,omitempty"`
	Notice        string            `json:"notice,omitempty"`
}

// Screen is the controller of one admin list. Events are handled one at a time;
// View never waits for an event in progress.
type Screen[T any, D any] struct {
	entity Entity[T, D]
	store  *Store[T]
	coord  *Coordinator[T, D]

	busy  sync.Mutex // serializes events
	mu    sync.RWMutex
	state State[D]
}

func NewScreen[T any, D any](e Entity[T, D], table Table[T], pageSize int, audit Auditor, l *logger.Logger) *Screen[T, D] {
	store := NewStore(e, table, l)
	s := &Screen[T, D]{
		entity: e,
		store:  store,
		coord:  NewCoordinator(e, table, store, audit, l),
		state:  State[D]{Pager: NewPager(pageSize), Draft: e.Blank()},
	}
	store.Observe(s)
	return s
}

// FetchStarted implements Observer.
func (s *Screen[T, D]) FetchStarted() {
	s.mu.Lock()
	s.state.fetchStarted()
	s.mu.Unlock()
}

// FetchFinished implements Observer.
func (s *Screen[T, D]) FetchFinished(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.fetchFailed(n, userMessage(err))
		return
	}
	s.state.fetchSucceeded(n)
}

func (s *Screen[T, D]) Store() *Store[T] { return s.store }

// Refresh reloads the collection.
func (s *Screen[T, D]) Refresh(ctx context.Context) error {
	s.busy.Lock()
	defer s.busy.Unlock()
	return s.store.Fetch(ctx)
}

// SetFilter constrains the collection to rows where field equals value and
// reloads it. A blank value or "all" clears the filter on field.
func (s *Screen[T, D]) SetFilter(ctx context.Context, field, value string) error {
	if !s.entity.filterable(field) {
		return invalid("filter", s.entity.Singular, []string{"Нельзя фильтровать по полю " + field})
	}
	s.busy.Lock()
	defer s.busy.Unlock()

	q := s.store.Query()
	if value == "" || value == "all" {
		delete(q.Eq, field)
	} else {
		q.Eq[field] = value
	}
	s.store.setQuery(q)
	return s.store.Fetch(ctx)
}

// ChangePage moves to page; out of range requests change nothing.
func (s *Screen[T, D]) ChangePage(page int) bool {
	n := s.store.Len()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.pageChanged(page, n)
}

// OpenCreate opens the edit surface on a blank draft.
func (s *Screen[T, D]) OpenCreate() D {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.editOpened(0, s.entity.Blank())
	return s.state.Draft
}

// OpenEdit opens the edit surface on the draft of a listed record.
func (s *Screen[T, D]) OpenEdit(id int64) (D, error) {
	row, ok := find(s.store.Items(), id, s.entity.ID)
	if !ok {
		var zero D
		return zero, &Failure{Kind: NotFound, Op: "edit", Entity: s.entity.Singular}
	}
	d := s.entity.DraftOf(row)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.editOpened(id, d)
	return d, nil
}

// CloseEdit discards the draft.
func (s *Screen[T, D]) CloseEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.editClosed(s.entity.Blank())
}

func (s *Screen[T, D]) ChangeDraft(d D) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.draftChanged(d)
}

// Submit saves d as a new record or over the record being edited, depending on
// how the edit surface was opened. The edit target is read once the event holds
// the screen, so an edit opened while an earlier event runs is honored.
func (s *Screen[T, D]) Submit(ctx context.Context, d D) (T, error) {
	s.busy.Lock()
	defer s.busy.Unlock()

	s.mu.RLock()
	id := s.state.Editing
	s.mu.RUnlock()
	if id == 0 {
		return s.create(ctx, d)
	}
	return s.update(ctx, id, d)
}

func (s *Screen[T, D]) Create(ctx context.Context, d D) (T, error) {
	s.busy.Lock()
	defer s.busy.Unlock()
	return s.create(ctx, d)
}

func (s *Screen[T, D]) Update(ctx context.Context, id int64, d D) (T, error) {
	s.busy.Lock()
	defer s.busy.Unlock()
	return s.update(ctx, id, d)
}

// create and update run with busy held.
func (s *Screen[T, D]) create(ctx context.Context, d D) (T, error) {
	s.ChangeDraft(d)
	row, err := s.coord.Create(ctx, d)
	s.settle(err, notice(s.entity.Singular, "create"))
	return row, err
}

func (s *Screen[T, D]) update(ctx context.Context, id int64, d D) (T, error) {
	s.ChangeDraft(d)
	row, err := s.coord.Update(ctx, id, d)
	s.settle(err, notice(s.entity.Singular, "update"))
	return row, err
}

// RequestDelete asks for confirmation before deleting id.
func (s *Screen[T, D]) RequestDelete(id int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.deleteRequested(id)
	return deletePrompt(s.entity.Singular)
}

// ConfirmDelete deletes id if it is the pending request. Anything else is
// treated as a decline.
func (s *Screen[T, D]) ConfirmDelete(ctx context.Context, id int64) (Outcome, error) {
	return s.resolveDelete(ctx, id, true)
}

// CancelDelete drops the pending request without touching the table.
func (s *Screen[T, D]) CancelDelete(ctx context.Context, id int64) Outcome {
	out, _ := s.resolveDelete(ctx, id, false)
	return out
}

func (s *Screen[T, D]) resolveDelete(ctx context.Context, id int64, confirmed bool) (Outcome, error) {
	s.busy.Lock()
	defer s.busy.Unlock()

	s.mu.Lock()
	pending := s.state.PendingDelete
	s.state.deleteCleared()
	s.mu.Unlock()

	confirm := Decline
	if confirmed && pending != 0 && pending == id {
		confirm = Accept
	}
	out, err := s.coord.Delete(ctx, id, confirm)
	if out == Unconfirmed {
		return out, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.mutationFailed(userMessage(err))
		return out, err
	}
	s.state.Notice = s.withRefreshError(notice(s.entity.Singular, "delete"))
	return out, nil
}

func (s *Screen[T, D]) settle(err error, okMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.mutationFailed(userMessage(err))
		return
	}
	s.state.mutationSucceeded(s.withRefreshError(okMsg), s.entity.Blank())
}

// withRefreshError appends the message of a refresh that failed right after a
// successful mutation.
func (s *Screen[T, D]) withRefreshError(msg string) string {
	if e := s.store.LastError(); e != "" {
		return msg + "; " + e
	}
	return msg
}

// State returns a copy of the current screen state.
func (s *Screen[T, D]) State() State[D] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// View computes the visible page from the current collection.
func (s *Screen[T, D]) View() View[T] {
	items := s.store.Items()
	s.mu.RLock()
	st := s.state
	s.mu.RUnlock()
	st.Pager.Clamp(len(items))

	return View[T]{
		Page:          Paginate(items, st.Pager.Page, st.Pager.Size),
		Loading:       st.Loading,
		Counts:        s.store.Counts(),
		Filter:        s.store.Query().Eq,
		EditOpen:      st.EditOpen,
		Editing:       st.Editing,
		PendingDelete: st.PendingDelete,
		Notice:        st.Notice,
	}
}

func userMessage(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.UserMessage()
	}
	return err.Error()
}
