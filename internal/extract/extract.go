// Package extract turns unstructured Russian post text into structured
// event drafts. It layers regex pattern classes with fixed per-class
// confidence constants; the classifier gates which posts are worth
// extracting at all.
package extract

import (
	"strings"

	"github.com/Iasm789/event-mospolytech-bot/internal/harvest"
)

// maxDescriptionLen bounds the description carried into an event record.
const maxDescriptionLen = 500

// Field is one extracted value with its recognition confidence in [0,1].
type Field struct {
	Value      string
	Confidence float64
}

// eventKeywords indicate that a post announces a happening. The classifier
// counts distinct case-insensitive substring hits.
var eventKeywords = []string{
	"мероприятие", "событие", "встреча", "проводит", "приглашаем",
	"приглашает", "состоится", "пройдет", "проводится", "организуют",
	"объявляет", "объявляют", "запись", "регистрация", "анонс",
	"устраивает", "устраивают", "расписание", "график",
	"начинается", "начало", "стартует", "запускаем",
}

// Extractor implements harvest.Extractor. The clock resolves relative
// dates in the event source's local zone.
type Extractor struct {
	clock harvest.Clock
}

// New constructs an Extractor.
func New(clock harvest.Clock) *Extractor {
	return &Extractor{clock: clock}
}

// IsEvent reports whether the text looks like an event announcement.
// The gate is deliberately permissive: false positives only produce
// low-confidence records, false negatives lose real events.
func (e *Extractor) IsEvent(text string) bool {
	lower := strings.ToLower(text)
	score := keywordScore(lower)

	fields := 0
	if hasDate(lower) {
		fields++
	}
	if hasTime(lower) {
		fields++
	}
	if hasLocation(lower) {
		fields++
	}
	return (score > 0 && fields >= 1) || score >= 2
}

func keywordScore(lower string) int {
	score := 0
	for _, kw := range eventKeywords {
		if strings.Contains(lower, kw) {
			score++
		}
	}
	return score
}

// Extract derives a draft event from the text, or reports false when the
// text fails classification. Overall confidence is the mean of the
// date/time/location confidences, clamped to [0,1]; it is zero only when
// none of the three were recognized.
func (e *Extractor) Extract(text, sourceURL string) (harvest.Event, bool) {
	if !e.IsEvent(text) {
		return harvest.Event{}, false
	}

	date := e.Date(text)
	tod := e.Time(text)
	loc := e.Location(text)

	return harvest.Event{
		Title:       Title(text),
		Date:        date.Value,
		Time:        tod.Value,
		Location:    loc.Value,
		Description: Description(text),
		Category:    Category(text),
		SourceURL:   sourceURL,
		Confidence:  clamp((date.Confidence + tod.Confidence + loc.Confidence) / 3),
	}, true
}

// Description is the raw text bounded to a storable length.
func Description(text string) string {
	return truncateRunes(text, maxDescriptionLen, "")
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// truncateRunes caps s at limit runes. A non-empty marker replaces the
// tail, keeping the total within limit.
func truncateRunes(s string, limit int, marker string) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-len([]rune(marker))]) + marker
}
