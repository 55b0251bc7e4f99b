package admin

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

type Role string

const (
	RolePlayer Role = "player"
	RoleAdmin  Role = "admin"
)

type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusLive     Status = "live"
	StatusFinished Status = "finished"
)

// DefaultLeague is used when a match is saved with a blank league.
const DefaultLeague = "РПЛ"

// Player is a roster row as stored in the players table.
type Player struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Role               Role   `json:"role"`
	Points             int    `json:"points"`
	CorrectPredictions int    `json:"correct_predictions"`
	TotalPredictions   int    `json:"total_predictions"`
	RankPosition       int    `json:"rank_position"` // 0 = unranked

	// PasswordHash is a bcrypt hash; empty on update means "keep the stored one".
	PasswordHash string `json:"-"`
}

// Match is a fixture row as stored in the matches table.
type Match struct {
	ID        int64  `json:"id"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	MatchDate string `json:"match_date"` // YYYY-MM-DD
	MatchTime string `json:"match_time"` // HH:MM:SS
	League    string `json:"league"`
	Tour      *int   `json:"tour"`
	Status    Status `json:"status"`
	IsVisible bool   `json:"is_visible"`
	HomeScore *int   `json:"home_score"`
	AwayScore *int   `json:"away_score"`
}

// FormValue is a user-entered field that may arrive as a JSON string, number or
// null. It is kept as text until normalization.
type FormValue string

func (v *FormValue) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("form value %s: %w", b, err)
	}
	*v = FormValue(n.String())
	return nil
}

func intValue(n int) FormValue { return FormValue(strconv.Itoa(n)) }

func optionalValue(n *int) FormValue {
	if n == nil {
		return ""
	}
	return intValue(*n)
}

// PlayerDraft is the editable form of a Player.
type PlayerDraft struct {
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Role               string    `json:"role"`
	Points             FormValue `json:"points"`
	CorrectPredictions FormValue `json:"correct_predictions"`
	TotalPredictions   FormValue `json:"total_predictions"`
	Password           string    `json:"password"`
}

// BlankPlayerDraft is the draft an empty "add player" form starts from.
func BlankPlayerDraft() PlayerDraft {
	return PlayerDraft{
		Role:               string(RolePlayer),
		Points:             "0",
		CorrectPredictions: "0",
		TotalPredictions:   "0",
	}
}

// PlayerDraftOf fills an edit form from a stored player. The password is never
// echoed back.
func PlayerDraftOf(p Player) PlayerDraft {
	return PlayerDraft{
		Name:               p.Name,
		Email:              p.Email,
		Role:               string(p.Role),
		Points:             intValue(p.Points),
		CorrectPredictions: intValue(p.CorrectPredictions),
		TotalPredictions:   intValue(p.TotalPredictions),
	}
}

// MatchDraft is the editable form of a Match.
type MatchDraft struct {
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	MatchDate string    `json:"match_date"`
	MatchTime string    `json:"match_time"`
	League    string    `json:"league"`
	Tour      FormValue `json:"tour"`
	Status    string    `json:"status"`
	IsVisible *bool     `json:"is_visible"` // nil = visible
	HomeScore FormValue `json:"home_score"`
	AwayScore FormValue `json:"away_score"`
}

func BlankMatchDraft() MatchDraft {
	visible := true
	return MatchDraft{
		League:    DefaultLeague,
		Status:    string(StatusUpcoming),
		IsVisible: &visible,
	}
}

// MatchDraftOf fills an edit form from a stored match, showing the time as HH:MM.
func MatchDraftOf(m Match) MatchDraft {
	visible := m.IsVisible
	return MatchDraft{
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		MatchDate: m.MatchDate,
		MatchTime: DisplayTime(m.MatchTime),
		League:    m.League,
		Tour:      optionalValue(m.Tour),
		Status:    string(m.Status),
		IsVisible: &visible,
		HomeScore: optionalValue(m.HomeScore),
		AwayScore: optionalValue(m.AwayScore),
	}
}
