package harvest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Fleet fans the coordinator out across many channels under a concurrency
// cap. One channel's failure never aborts its siblings.
type Fleet struct {
	coordinator *Coordinator
	concurrency int64
	tracker     *Tracker
	logger      *zap.Logger
}

// NewFleet constructs a Fleet. The tracker may be nil when no status
// server is running.
func NewFleet(coordinator *Coordinator, concurrency int, tracker *Tracker, logger *zap.Logger) *Fleet {
	if concurrency <= 0 {
		concurrency = 3
	}
	return &Fleet{
		coordinator: coordinator,
		concurrency: int64(concurrency),
		tracker:     tracker,
		logger:      logger,
	}
}

// Run processes all channels and aggregates their statistics. The cap
// bounds simultaneously in-flight channel pipelines; remaining channels
// queue until a slot frees.
func (f *Fleet) Run(ctx context.Context, channels []string) FleetStats {
	start := time.Now()
	stats := FleetStats{
		RunID:         uuid.NewString(),
		TotalChannels: len(channels),
		Channels:      make(map[string]ChannelStats, len(channels)),
	}
	if f.tracker != nil {
		f.tracker.Begin(len(channels))
		defer f.tracker.Finish()
	}
	f.logger.Info("fleet run started",
		zap.String("run_id", stats.RunID),
		zap.Int("channels", len(channels)),
		zap.Int64("concurrency", f.concurrency),
	)

	sem := semaphore.NewWeighted(f.concurrency)
	results := make(chan ChannelResult, len(channels))
	var wg sync.WaitGroup
	for _, channel := range channels {
		wg.Add(1)
		go func(channel string) {
			defer wg.Done()
			deliver := func(res ChannelResult) {
				if f.tracker != nil {
					f.tracker.ChannelDone(res)
				}
				results <- res
			}
			defer func() {
				if r := recover(); r != nil {
					deliver(ChannelResult{Channel: channel, Err: fmt.Errorf("channel panicked: %v", r)})
				}
			}()
			if err := sem.Acquire(ctx, 1); err != nil {
				deliver(ChannelResult{Channel: channel, Err: fmt.Errorf("acquire slot: %w", err)})
				return
			}
			defer sem.Release(1)
			deliver(f.coordinator.Run(ctx, channel))
		}(channel)
	}
	wg.Wait()
	close(results)

	for res := range results {
		if res.Err != nil {
			stats.Failed++
			TotalChannelFailures.Inc()
			f.logger.Error("channel failed", zap.String("channel", res.Channel), zap.Error(res.Err))
			continue
		}
		stats.Processed++
		stats.TotalMessages += res.Stats.Total
		stats.TotalEvents += res.Stats.Events
		stats.Channels[res.Channel] = res.Stats
	}
	stats.ElapsedSeconds = time.Since(start).Seconds()

	f.logger.Info("fleet run finished",
		zap.String("run_id", stats.RunID),
		zap.Int("processed", stats.Processed),
		zap.Int("failed", stats.Failed),
		zap.Int("messages", stats.TotalMessages),
		zap.Int("events", stats.TotalEvents),
		zap.Float64("elapsed_seconds", stats.ElapsedSeconds),
	)
	return stats
}
