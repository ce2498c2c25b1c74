package harvest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Coordinator runs the full pipeline for a single channel: fetch, page,
// classify, extract, refine, sink.
type Coordinator struct {
	fetcher   Fetcher
	pager     Pager
	extractor Extractor
	refiner   Refiner
	sink      Sink
	clock     Clock
	lookback  time.Duration
	logger    *zap.Logger
}

// NewCoordinator constructs a Coordinator. A nil refiner disables the
// refinement pass entirely.
func NewCoordinator(
	fetcher Fetcher,
	pager Pager,
	extractor Extractor,
	refiner Refiner,
	sink Sink,
	clock Clock,
	lookback time.Duration,
	logger *zap.Logger,
) *Coordinator {
	return &Coordinator{
		fetcher:   fetcher,
		pager:     pager,
		extractor: extractor,
		refiner:   refiner,
		sink:      sink,
		clock:     clock,
		lookback:  lookback,
		logger:    logger,
	}
}

// Run harvests one channel. Posts that fail classification are counted as
// skipped, not as errors; only fetch, parse and sink failures fail the
// channel.
func (c *Coordinator) Run(ctx context.Context, channel string) ChannelResult {
	log := c.logger.With(zap.String("channel", channel))

	html, err := c.fetcher.Fetch(ctx, ListingURL(channel))
	if err != nil {
		return ChannelResult{Channel: channel, Err: fmt.Errorf("fetch listing: %w", err)}
	}

	cutoff := c.clock.Now().Add(-c.lookback)
	posts, err := c.pager.Parse(html, channel, cutoff, NewDedupIndex())
	if err != nil {
		return ChannelResult{Channel: channel, Err: fmt.Errorf("parse listing: %w", err)}
	}
	log.Debug("posts parsed", zap.Int("count", len(posts)))

	// Ascending timestamp order keeps relative-date resolution independent
	// of the page's document order.
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Timestamp.Before(posts[j].Timestamp)
	})

	events := make([]Event, 0, len(posts))
	skipped := 0
	for _, post := range posts {
		if !c.extractor.IsEvent(post.Text) {
			skipped++
			continue
		}
		draft, ok := c.extractor.Extract(post.Text, post.URL)
		if !ok {
			skipped++
			continue
		}
		if c.refiner != nil {
			if refined, accepted := c.refiner.Refine(ctx, post.Text, draft); accepted {
				TotalRefinements.WithLabelValues("accepted").Inc()
				draft = refined
			} else {
				TotalRefinements.WithLabelValues("fallback").Inc()
			}
		}
		TotalEventsExtracted.Inc()
		events = append(events, draft)
	}

	if err := c.sink.WriteEvents(ctx, channel, events); err != nil {
		return ChannelResult{Channel: channel, Err: fmt.Errorf("write events: %w", err)}
	}

	log.Info("channel processed",
		zap.Int("total", len(posts)),
		zap.Int("events", len(events)),
		zap.Int("skipped", skipped),
	)
	return ChannelResult{
		Channel: channel,
		Stats:   ChannelStats{Total: len(posts), Events: len(events), Skipped: skipped},
	}
}
