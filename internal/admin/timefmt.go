package admin

import (
	"regexp"
	"strings"
	"time"
)

// IsoDate is the wire and storage layout of match_date.
const IsoDate = "2006-01-02"

var (
	shortTimeRe = regexp.MustCompile(`^(\d{2}):(\d{2})$`)
	wireTimeRe  = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})$`)
)

var dateLayouts = map[string]string{
	"ru-RU": "02.01.2006",
	"de-DE": "02.01.2006",
	"en-US": "01/02/2006",
	"en-GB": "02/01/2006",
}

// NormalizeTime turns an entered HH:MM into wire form HH:MM:SS. Wire-form input
// and anything unparseable are returned unchanged.
func NormalizeTime(s string) string {
	s = strings.TrimSpace(s)
	if shortTimeRe.MatchString(s) {
		return s + ":00"
	}
	return s
}

// DisplayTime cuts wire-form HH:MM:SS down to HH:MM.
func DisplayTime(s string) string {
	if wireTimeRe.MatchString(s) {
		return s[:5]
	}
	return s
}

// DisplayDate renders an ISO date for the given locale. Unknown locales get the
// ISO form back; unparseable input is returned unchanged.
func DisplayDate(iso, locale string) string {
	d, err := time.Parse(IsoDate, strings.TrimSpace(iso))
	if err != nil {
		return iso
	}
	layout, ok := dateLayouts[locale]
	if !ok {
		return d.Format(IsoDate)
	}
	return d.Format(layout)
}

// validClock reports whether s is HH:MM or HH:MM:SS with in-range fields.
func validClock(s string) bool {
	m := wireTimeRe.FindStringSubmatch(s)
	if m == nil {
		m = shortTimeRe.FindStringSubmatch(s)
	}
	if m == nil {
		return false
	}
	limits := []int{23, 59, 59}
	for i, part := range m[1:] {
		v := int(part[0]-'0')*10 + int(part[1]-'0')
		if v > limits[i] {
			return false
		}
	}
	return true
}

func validDate(s string) bool {
	_, err := time.Parse(IsoDate, s)
	return err == nil
}

// kickoff orders matches; an unparseable date/time sorts as the zero instant.
func kickoff(m Match) time.Time {
	t, err := time.Parse(IsoDate+" 15:04:05", m.MatchDate+" "+NormalizeTime(orMidnight(m.MatchTime)))
	if err != nil {
		d, _ := time.Parse(IsoDate, m.MatchDate)
		return d
	}
	return t
}

func orMidnight(s string) string {
	if s == "" {
		return "00:00:00"
	}
	return s
}
