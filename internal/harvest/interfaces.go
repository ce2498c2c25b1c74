package harvest

import (
	"context"
	"time"
)

// Fetcher retrieves a listing page body with its own retry budget.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Pager parses listing markup into posts, deduplicating against the index.
// Posts come back in document order; the coordinator sorts them.
type Pager interface {
	Parse(html, channel string, cutoff time.Time, index *DedupIndex) ([]Post, error)
}

// Extractor classifies posts and derives draft events from them.
type Extractor interface {
	IsEvent(text string) bool
	Extract(text, sourceURL string) (Event, bool)
}

// Refiner optionally re-derives event fields from the raw text.
// The boolean is false when refinement is unavailable or produced nothing
// usable; callers keep the heuristic draft in that case.
type Refiner interface {
	Refine(ctx context.Context, text string, draft Event) (Event, bool)
}

// Sink persists extracted events and run statistics.
type Sink interface {
	WriteEvents(ctx context.Context, channel string, events []Event) error
	WriteStats(ctx context.Context, stats FleetStats) error
}

// Hasher fingerprints posts for deduplication.
type Hasher interface {
	Digest(text string, ts time.Time, channel string) (string, error)
}

// Clock returns the current time in the event source's zone.
type Clock interface {
	Now() time.Time
}
