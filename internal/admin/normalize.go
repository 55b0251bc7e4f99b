package admin

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Options tune normalization.
type Options struct {
	DefaultLeague string
	HashCost      int // bcrypt cost; 0 = bcrypt.DefaultCost
}

func (o Options) league() string {
	if o.DefaultLeague == "" {
		return DefaultLeague
	}
	return o.DefaultLeague
}

func (o Options) cost() int {
	if o.HashCost == 0 {
		return bcrypt.DefaultCost
	}
	return o.HashCost
}

// NormalizePlayer converts a validated draft into the row to write. A non-blank
// password is hashed exactly as typed; the plain text never leaves this function.
func NormalizePlayer(d PlayerDraft, opts Options) (Player, error) {
	p := Player{
		Name:               strings.TrimSpace(d.Name),
		Email:              strings.ToLower(strings.TrimSpace(d.Email)),
		Role:               Role(strings.TrimSpace(d.Role)),
		Points:             counter(d.Points),
		CorrectPredictions: counter(d.CorrectPredictions),
		TotalPredictions:   counter(d.TotalPredictions),
	}
	if p.Role == "" {
		p.Role = RolePlayer
	}
	if !blankPassword(d.Password) {
		hash, err := bcrypt.GenerateFromPassword([]byte(d.Password), opts.cost())
		if err != nil {
			return Player{}, fmt.Errorf("hash password: %w", err)
		}
		p.PasswordHash = string(hash)
	}
	return p, nil
}

// NormalizeMatch converts a validated draft into the row to write.
func NormalizeMatch(d MatchDraft, opts Options) (Match, error) {
	m := Match{
		HomeTeam:  strings.TrimSpace(d.HomeTeam),
		AwayTeam:  strings.TrimSpace(d.AwayTeam),
		MatchDate: strings.TrimSpace(d.MatchDate),
		MatchTime: NormalizeTime(d.MatchTime),
		League:    strings.TrimSpace(d.League),
		Tour:      positive(d.Tour),
		Status:    Status(strings.TrimSpace(d.Status)),
		IsVisible: d.IsVisible == nil || *d.IsVisible,
		HomeScore: nullable(d.HomeScore),
		AwayScore: nullable(d.AwayScore),
	}
	if m.League == "" {
		m.League = opts.league()
	}
	if m.Status == "" {
		m.Status = StatusUpcoming
	}
	return m, nil
}

// counter parses a counter field; blank, invalid and negative all become 0.
func counter(v FormValue) int {
	n, ok := parseInt(v)
	if !ok || n < 0 {
		return 0
	}
	return n
}

func positive(v FormValue) *int {
	n, ok := parseInt(v)
	if !ok || n <= 0 {
		return nil
	}
	return &n
}

func nullable(v FormValue) *int {
	n, ok := parseInt(v)
	if !ok {
		return nil
	}
	return &n
}
