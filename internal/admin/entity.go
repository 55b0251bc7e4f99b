package admin

import (
	"context"
	"sort"
)

// Query narrows a select-all to rows whose columns equal the given values.
type Query struct {
	Eq map[string]string
}

// Table is the row-oriented data service behind one entity kind.
type Table[T any] interface {
	List(ctx context.Context, q Query) ([]T, error)
	Insert(ctx context.Context, row T) (T, error)
	Update(ctx context.Context, id int64, row T) (T, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// Entity describes how one record kind is validated, normalized, ordered and
// tallied. T is the stored row, D its editable draft.
type Entity[T any, D any] struct {
	Name     string // table name, plural
	Singular string

	ID    func(T) int64
	Less  func(a, b T) bool
	Tally func(T) []string

	Blank          func() D
	DraftOf        func(T) D
	Validate       func(D) []string
	ValidateCreate func(D) []string
	Normalize      func(D) (T, error)

	// Filters are the columns a Query may constrain.
	Filters []string
}

func (e Entity[T, D]) sort(items []T) {
	sort.SliceStable(items, func(i, j int) bool { return e.Less(items[i], items[j]) })
}

func (e Entity[T, D]) validate(d D, creating bool) []string {
	if creating && e.ValidateCreate != nil {
		return e.ValidateCreate(d)
	}
	return e.Validate(d)
}

func (e Entity[T, D]) filterable(field string) bool {
	for _, f := range e.Filters {
		if f == field {
			return true
		}
	}
	return false
}

// Players is the roster: ordered by points descending, then id.
func Players(opts Options) Entity[Player, PlayerDraft] {
	return Entity[Player, PlayerDraft]{
		Name:     "players",
		Singular: "player",
		ID:       func(p Player) int64 { return p.ID },
		Less: func(a, b Player) bool {
			if a.Points != b.Points {
				return a.Points > b.Points
			}
			return a.ID < b.ID
		},
		Tally:          func(p Player) []string { return []string{string(p.Role)} },
		Blank:          BlankPlayerDraft,
		DraftOf:        PlayerDraftOf,
		Validate:       ValidatePlayer,
		ValidateCreate: ValidatePlayerCreate,
		Normalize:      func(d PlayerDraft) (Player, error) { return NormalizePlayer(d, opts) },
		Filters:        []string{"role"},
	}
}

// Matches are fixtures: ordered by kickoff, then id.
func Matches(opts Options) Entity[Match, MatchDraft] {
	return Entity[Match, MatchDraft]{
		Name:     "matches",
		Singular: "match",
		ID:       func(m Match) int64 { return m.ID },
		Less: func(a, b Match) bool {
			ka, kb := kickoff(a), kickoff(b)
			if !ka.Equal(kb) {
				return ka.Before(kb)
			}
			return a.ID < b.ID
		},
		Tally: func(m Match) []string {
			keys := []string{string(m.Status)}
			if !m.IsVisible {
				keys = append(keys, "hidden")
			}
			return keys
		},
		Blank:     BlankMatchDraft,
		DraftOf:   MatchDraftOf,
		Validate:  ValidateMatch,
		Normalize: func(d MatchDraft) (Match, error) { return NormalizeMatch(d, opts) },
		Filters:   []string{"status"},
	}
}
