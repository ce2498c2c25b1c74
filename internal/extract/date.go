package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateUnspecified is returned when no date pattern matched.
const DateUnspecified = "Не указана"

// Confidence constants are calibrated by pattern specificity, not derived
// statistically. Treat them as configuration, not tunables.
const (
	confDateRelative = 0.95
	confDateFull     = 0.95
	confDateWordy    = 0.90
	confDateShort    = 0.85
)

// Leading \b keeps day numbers from matching inside longer digit runs.
var (
	fullDateRe  = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{4})\b`)
	shortDateRe = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})(?:[^.0-9]|$)`)
	wordDateRe  = regexp.MustCompile(`\b(\d{1,2})\s+(января|февраля|марта|апреля|мая|июня|июля|августа|сентября|октября|ноября|декабря)(?:\s+(\d{4}))?`)
)

var monthNumbers = map[string]int{
	"января": 1, "февраля": 2, "марта": 3, "апреля": 4,
	"мая": 5, "июня": 6, "июля": 7, "августа": 8,
	"сентября": 9, "октября": 10, "ноября": 11, "декабря": 12,
}

var weekdayNames = []string{
	"понедельник", "вторник", "среда", "четверг", "пятница", "суббота", "воскресенье",
}

// Date extracts the event date as ДД.ММ.ГГГГ, resolving relative terms
// against the source-local clock. Pattern classes are tried in priority
// order; the first hit wins.
func (e *Extractor) Date(text string) Field {
	lower := strings.ToLower(text)
	now := e.clock.Now()

	// "послезавтра" contains "завтра", so it must be checked first
	switch {
	case strings.Contains(lower, "послезавтра"):
		return Field{now.AddDate(0, 0, 2).Format("02.01.2006"), confDateRelative}
	case strings.Contains(lower, "завтра"):
		return Field{now.AddDate(0, 0, 1).Format("02.01.2006"), confDateRelative}
	case strings.Contains(lower, "сегодня"):
		return Field{now.Format("02.01.2006"), confDateRelative}
	}

	if m := fullDateRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if validDate(year, month, day) {
			return Field{formatDate(day, month, year), confDateFull}
		}
	}

	if m := shortDateRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if validDate(now.Year(), month, day) {
			return Field{formatDate(day, month, now.Year()), confDateShort}
		}
	}

	if m := wordDateRe.FindStringSubmatch(lower); m != nil {
		day, _ := strconv.Atoi(m[1])
		month := monthNumbers[m[2]]
		year := now.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		if validDate(year, month, day) {
			return Field{formatDate(day, month, year), confDateWordy}
		}
	}

	return Field{DateUnspecified, 0}
}

func formatDate(day, month, year int) string {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format("02.01.2006")
}

// validDate checks the triple against a real calendar.
func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

// hasDate reports whether any date pattern class matches at all; the
// classifier needs presence, not a value.
func hasDate(lower string) bool {
	for _, word := range []string{"завтра", "сегодня", "послезавтра", "сейчас"} {
		if strings.Contains(lower, word) {
			return true
		}
	}
	for _, day := range weekdayNames {
		if strings.Contains(lower, day) {
			return true
		}
	}
	return fullDateRe.MatchString(lower) ||
		shortDateRe.MatchString(lower) ||
		wordDateRe.MatchString(lower)
}
