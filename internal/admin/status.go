package admin

import "fmt"

// Presentation is the badge a status or flag renders as.
type Presentation struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var statusPresentation = map[Status]Presentation{
	StatusUpcoming: {Label: "ПРЕДСТОЯЩИЙ", Color: "#F59E0B"},
	StatusLive:     {Label: "В ЭФИРЕ", Color: "#F87171"},
	StatusFinished: {Label: "ЗАВЕРШЕН", Color: "#4ADE80"},
}

var hiddenBadge = Presentation{Label: "СКРЫТ", Color: "#6B7280"}

// Statuses lists every match status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusUpcoming, StatusLive, StatusFinished}
}

func (s Status) Valid() bool {
	_, ok := statusPresentation[s]
	return ok
}

func (r Role) Valid() bool {
	return r == RolePlayer || r == RoleAdmin
}

// PresentStatus maps a status to its label and color; anything unknown renders
// as upcoming.
func PresentStatus(s Status) Presentation {
	if p, ok := statusPresentation[s]; ok {
		return p
	}
	return statusPresentation[StatusUpcoming]
}

// MatchCard is a match ready for a list row.
type MatchCard struct {
	Match
	StatusBadge Presentation  `json:"status_badge"`
	HiddenBadge *Presentation `json:"hidden_badge,omitempty"`
	DateText    string        `json:"date_text"`
	TimeText    string        `json:"time_text"`
	ScoreText   string        `json:"score_text,omitempty"`
	TourText    string        `json:"tour_text,omitempty"`
}

// PresentMatch decorates m for display. Visibility is independent of status.
func PresentMatch(m Match, locale string) MatchCard {
	card := MatchCard{
		Match:       m,
		StatusBadge: PresentStatus(m.Status),
		DateText:    DisplayDate(m.MatchDate, locale),
		TimeText:    DisplayTime(m.MatchTime),
	}
	if !m.IsVisible {
		badge := hiddenBadge
		card.HiddenBadge = &badge
	}
	if m.HomeScore != nil && m.AwayScore != nil {
		card.ScoreText = fmt.Sprintf("%d : %d", *m.HomeScore, *m.AwayScore)
	}
	if m.Tour != nil {
		card.TourText = fmt.Sprintf("Тур %d", *m.Tour)
	}
	return card
}
