package extract

import "strings"

const (
	maxTitleLen        = 100
	titleMarker        = "..."
	titleFallbackWords = 8
)

// Title takes the first non-empty line as the event name, truncated with
// an ellipsis marker when cut. When the text has no usable lines the
// first few words serve instead.
func Title(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return truncateRunes(line, maxTitleLen, titleMarker)
	}

	words := strings.Fields(text)
	if len(words) > titleFallbackWords {
		words = words[:titleFallbackWords]
	}
	return truncateRunes(strings.Join(words, " "), maxTitleLen, "")
}
