package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TimeUnspecified is returned when no time pattern matched.
const TimeUnspecified = "Не указано"

const (
	confTimeRange   = 0.95
	confTimeSingle  = 0.90
	confTimeDayPart = 0.70
)

// \b anchors keep clock readings from matching inside longer digit runs.
var (
	timeRangeRe  = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})\b`)
	singleTimeRe = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
)

// dayParts maps coarse day-part words to fixed canonical times. Ordered so
// lookups are deterministic.
var dayParts = []struct {
	word  string
	value string
}{
	{"утро", "09:00"},
	{"днём", "14:00"},
	{"днем", "14:00"},
	{"вечер", "18:00"},
	{"ночь", "20:00"},
}

// Time extracts the event time as ЧЧ:ММ or a range; pattern classes in
// priority order, first hit wins.
func (e *Extractor) Time(text string) Field {
	if m := timeRangeRe.FindStringSubmatch(text); m != nil {
		startH, _ := strconv.Atoi(m[1])
		endH, _ := strconv.Atoi(m[3])
		return Field{fmt.Sprintf("%02d:%s - %02d:%s", startH, m[2], endH, m[4]), confTimeRange}
	}

	if m := singleTimeRe.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour <= 23 && minute <= 59 {
			return Field{fmt.Sprintf("%02d:%02d", hour, minute), confTimeSingle}
		}
	}

	lower := strings.ToLower(text)
	for _, part := range dayParts {
		if strings.Contains(lower, part.word) {
			return Field{part.value, confTimeDayPart}
		}
	}

	return Field{TimeUnspecified, 0}
}

func hasTime(lower string) bool {
	if timeRangeRe.MatchString(lower) || singleTimeRe.MatchString(lower) {
		return true
	}
	for _, part := range dayParts {
		if strings.Contains(lower, part.word) {
			return true
		}
	}
	return false
}
