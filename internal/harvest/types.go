// Package harvest defines the core types and interfaces for the channel
// harvesting engine, plus the coordinator and fleet orchestration built on
// top of them.
package harvest

import (
	"fmt"
	"time"
)

// Post is a single message scraped from a channel listing page.
// Immutable after the pager creates it; scoped to one harvest run.
type Post struct {
	ID        string
	Text      string
	Timestamp time.Time
	URL       string
	Channel   string
	Digest    string
}

// Event is a structured record extracted from an event-like post.
type Event struct {
	Title       string  `json:"title"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	SourceURL   string  `json:"telegram_url"`
	Confidence  float64 `json:"confidence"`
}

// ChannelStats summarizes one channel run.
type ChannelStats struct {
	Total   int `json:"total"`
	Events  int `json:"events"`
	Skipped int `json:"skipped"`
}

// ChannelResult carries a channel's stats or its failure.
// A failed fetch is distinguishable from an empty-but-successful channel
// by Err being non-nil.
type ChannelResult struct {
	Channel string
	Stats   ChannelStats
	Err     error
}

// FleetStats aggregates a whole fleet run.
type FleetStats struct {
	RunID          string                  `json:"run_id"`
	TotalChannels  int                     `json:"total_channels"`
	Processed      int                     `json:"processed"`
	Failed         int                     `json:"failed"`
	TotalMessages  int                     `json:"total_messages"`
	TotalEvents    int                     `json:"total_events"`
	Channels       map[string]ChannelStats `json:"channels_stats"`
	ElapsedSeconds float64                 `json:"elapsed_seconds"`
}

// ListingURL returns the public listing page for a channel name (without @).
func ListingURL(channel string) string {
	return fmt.Sprintf("https://t.me/s/%s", channel)
}

// DedupIndex tracks content digests seen within a single run. It is owned
// by one coordinator invocation and is not safe for concurrent use.
type DedupIndex struct {
	seen map[string]struct{}
}

// NewDedupIndex returns an empty index.
func NewDedupIndex() *DedupIndex {
	return &DedupIndex{seen: make(map[string]struct{})}
}

// Seen records the digest and reports whether it was already present.
// The first occurrence wins; later ones are duplicates.
func (d *DedupIndex) Seen(digest string) bool {
	if _, ok := d.seen[digest]; ok {
		return true
	}
	d.seen[digest] = struct{}{}
	return false
}

// Len returns the number of distinct digests recorded.
func (d *DedupIndex) Len() int {
	return len(d.seen)
}
