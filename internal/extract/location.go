package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// LocationUnspecified is returned when no location pattern matched.
const LocationUnspecified = "Не указано"

const (
	confLocPlatform    = 0.95
	confLocOnline      = 0.90
	confLocRoom        = 0.90
	confLocVenue       = 0.85
	confLocInstitution = 0.70
)

// onlinePlatforms are checked before the generic online markers so the
// platform name survives into the value.
var onlinePlatforms = []string{"zoom", "teams", "skype", "discord", "youtube"}

var onlineMarkers = []string{"онлайн", "трансляция", "вебинар"}

// roomRe captures "<room-type> <room-number>" up to a delimiter.
var roomRe = regexp.MustCompile(`(?i)(аудитори[яеи]|корпус[еа]|кабинет[еа]|помещени[яеи]|зал[еа])\s+([№#]?[\d\p{Cyrillic}\s\-/]+?)(?:\n|,|\.|$)`)

// venues maps venue keywords to canonical names, in priority order.
var venues = []struct {
	keyword string
	name    string
}{
	{"стадион", "Стадион Политеха"},
	{"театр", "Театр"},
	{"концертный зал", "Концертный зал"},
	{"спортзал", "Спортзал"},
	{"актовый зал", "Актовый зал"},
	{"конференц-зал", "Конференц-зал"},
}

// Location extracts the venue; pattern classes in priority order, first
// hit wins.
func (e *Extractor) Location(text string) Field {
	lower := strings.ToLower(text)

	for _, platform := range onlinePlatforms {
		if strings.Contains(lower, platform) {
			return Field{"Онлайн (" + strings.ToUpper(platform) + ")", confLocPlatform}
		}
	}

	for _, marker := range onlineMarkers {
		if strings.Contains(lower, marker) {
			return Field{"Онлайн", confLocOnline}
		}
	}

	if m := roomRe.FindStringSubmatch(text); m != nil {
		roomType := capitalizeFirst(strings.ToLower(m[1]))
		return Field{roomType + " " + strings.TrimSpace(m[2]), confLocRoom}
	}

	for _, v := range venues {
		if strings.Contains(lower, v.keyword) {
			return Field{v.name, confLocVenue}
		}
	}

	if strings.Contains(lower, "мосполитех") || strings.Contains(lower, "политех") {
		return Field{"Московский Политех", confLocInstitution}
	}

	return Field{LocationUnspecified, 0}
}

func hasLocation(lower string) bool {
	for _, platform := range onlinePlatforms {
		if strings.Contains(lower, platform) {
			return true
		}
	}
	for _, marker := range onlineMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	if roomRe.MatchString(lower) {
		return true
	}
	for _, v := range venues {
		if strings.Contains(lower, v.keyword) {
			return true
		}
	}
	return strings.Contains(lower, "мосполитех") || strings.Contains(lower, "политех")
}

func capitalizeFirst(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
