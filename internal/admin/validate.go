package admin

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const minPasswordLen = 6

// maxColumnInt is the largest value an INTEGER column holds.
const maxColumnInt = math.MaxInt32

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidatePlayer collects every problem with d, in form order.
func ValidatePlayer(d PlayerDraft) []string {
	errs := []string{}
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, "Введите имя игрока")
	}
	email := strings.TrimSpace(d.Email)
	if email == "" {
		errs = append(errs, "Введите email")
	} else if !emailRe.MatchString(email) {
		errs = append(errs, "Введите корректный email")
	}
	if role := strings.TrimSpace(d.Role); role != "" && !Role(role).Valid() {
		errs = append(errs, "Роль должна быть player или admin")
	}

	counters := []struct {
		label string
		value FormValue
	}{
		{"Очки", d.Points},
		{"Верные прогнозы", d.CorrectPredictions},
		{"Всего прогнозов", d.TotalPredictions},
	}
	for _, c := range counters {
		n, ok := parseInt(c.value)
		switch {
		case ok && n < 0:
			errs = append(errs, fmt.Sprintf("Поле «%s» не может быть отрицательным", c.label))
		case ok && n > maxColumnInt:
			errs = append(errs, tooLarge(c.label))
		}
	}
	// compared as stored: blank and invalid counters are written as 0
	if counter(d.TotalPredictions) < counter(d.CorrectPredictions) {
		errs = append(errs, "Всего прогнозов не может быть меньше, чем верных")
	}

	if !blankPassword(d.Password) && utf8.RuneCountInString(d.Password) < minPasswordLen {
		errs = append(errs, fmt.Sprintf("Пароль должен быть не короче %d символов", minPasswordLen))
	}
	return errs
}

// ValidatePlayerCreate adds the checks that only apply to a new player.
func ValidatePlayerCreate(d PlayerDraft) []string {
	errs := ValidatePlayer(d)
	if blankPassword(d.Password) {
		errs = append(errs, "Введите пароль")
	}
	return errs
}

// ValidateMatch collects every problem with d, in form order.
func ValidateMatch(d MatchDraft) []string {
	errs := []string{}
	if strings.TrimSpace(d.HomeTeam) == "" {
		errs = append(errs, "Введите домашнюю команду")
	}
	if strings.TrimSpace(d.AwayTeam) == "" {
		errs = append(errs, "Введите гостевую команду")
	}

	date := strings.TrimSpace(d.MatchDate)
	if date == "" {
		errs = append(errs, "Введите дату матча")
	} else if !validDate(date) {
		errs = append(errs, "Введите существующую дату в формате ГГГГ-ММ-ДД")
	}

	clock := strings.TrimSpace(d.MatchTime)
	if clock == "" || !validClock(clock) {
		errs = append(errs, "Введите время в формате ЧЧ:ММ")
	}

	if st := strings.TrimSpace(d.Status); st != "" && !Status(st).Valid() {
		errs = append(errs, "Статус должен быть upcoming, live или finished")
	}
	if n, ok := parseInt(d.Tour); ok && n > maxColumnInt {
		errs = append(errs, tooLarge("Тур"))
	}

	home, homeSet, homeOK := optionalInt(d.HomeScore)
	away, awaySet, awayOK := optionalInt(d.AwayScore)
	switch {
	case !homeOK || !awayOK || (homeSet && home < 0) || (awaySet && away < 0):
		errs = append(errs, "Счет должен быть целым неотрицательным числом")
	case home > maxColumnInt || away > maxColumnInt:
		errs = append(errs, tooLarge("Счет"))
	case homeSet != awaySet:
		errs = append(errs, "Укажите оба счета или ни одного")
	}
	return errs
}

func tooLarge(label string) string {
	return fmt.Sprintf("Поле «%s» не может быть больше %d", label, maxColumnInt)
}

// blankPassword reports a password made only of whitespace. A password that is
// not blank is used exactly as typed.
func blankPassword(pw string) bool { return strings.TrimSpace(pw) == "" }

// parseInt reads an integer field; ok is false for blank or non-numeric input.
// Digits beyond the int64 range still parse, saturated, so range checks see them.
func parseInt(v FormValue) (int, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	switch {
	case n > maxColumnInt:
		return maxColumnInt + 1, true
	case n < -maxColumnInt:
		return -maxColumnInt - 1, true
	}
	return int(n), true
}

// optionalInt reads a nullable field: blank is unset, anything else must parse.
func optionalInt(v FormValue) (n int, set bool, ok bool) {
	if strings.TrimSpace(string(v)) == "" {
		return 0, false, true
	}
	n, ok = parseInt(v)
	if !ok {
		return 0, true, false
	}
	return n, true, true
}
