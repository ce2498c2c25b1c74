// Package pager parses channel listing markup into discrete posts.
package pager

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/Iasm789/event-mospolytech-bot/internal/harvest"
)

// chromeMarkers flags UI-chrome lines (view counters, subscribe prompts,
// reaction counts) that carry no post content.
var chromeMarkers = []string{
	"views",
	"forward",
	"подписаться",
	"subscribe",
	"reactions",
	"комментарий",
	"просмотр",
}

// brTags restores line structure lost by text extraction.
var brTags = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n")

// Pager implements harvest.Pager over the t.me/s listing page structure.
type Pager struct {
	hasher     harvest.Hasher
	loc        *time.Location
	minTextLen int
	logger     *zap.Logger
}

// New constructs a Pager. Timestamps are converted into loc before the
// cutoff check and digest computation.
func New(hasher harvest.Hasher, loc *time.Location, minTextLen int, logger *zap.Logger) *Pager {
	if minTextLen <= 0 {
		minTextLen = 10
	}
	return &Pager{hasher: hasher, loc: loc, minTextLen: minTextLen, logger: logger}
}

// Parse extracts posts from the listing markup in document order. Blocks
// without a timestamp, body text or permalink are skipped silently; posts
// older than cutoff are dropped; duplicate digests lose to their first
// occurrence.
func (p *Pager) Parse(html, channel string, cutoff time.Time, index *harvest.DedupIndex) ([]harvest.Post, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(brTags.Replace(html)))
	if err != nil {
		return nil, fmt.Errorf("parse listing markup: %w", err)
	}

	var posts []harvest.Post
	doc.Find("div.tgme_widget_message").Each(func(_ int, sel *goquery.Selection) {
		raw, ok := sel.Find("time[datetime]").First().Attr("datetime")
		if !ok {
			return
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			p.logger.Debug("unparseable post timestamp", zap.String("channel", channel), zap.String("datetime", raw))
			return
		}
		ts = ts.In(p.loc)
		if ts.Before(cutoff) {
			return
		}

		text := cleanText(sel.Find("div.tgme_widget_message_text").First().Text())
		if utf8.RuneCountInString(text) < p.minTextLen {
			return
		}

		link, ok := sel.Find("a.tgme_widget_message_date").First().Attr("href")
		if !ok {
			return
		}
		id := link[strings.LastIndex(link, "/")+1:]

		digest, err := p.hasher.Digest(text, ts, channel)
		if err != nil {
			return
		}
		if index.Seen(digest) {
			harvest.TotalDuplicatePosts.Inc()
			return
		}

		harvest.TotalPostsParsed.Inc()
		posts = append(posts, harvest.Post{
			ID:        id,
			Text:      text,
			Timestamp: ts,
			URL:       link,
			Channel:   channel,
			Digest:    digest,
		})
	})
	return posts, nil
}

// cleanText strips UI-chrome lines and collapses blank lines.
func cleanText(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		chrome := false
		for _, marker := range chromeMarkers {
			if strings.Contains(lower, marker) {
				chrome = true
				break
			}
		}
		if chrome {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
