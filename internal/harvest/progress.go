package harvest

import "sync"

// Snapshot is a point-in-time view of a running fleet, served by the
// status API.
type Snapshot struct {
	Running        bool `json:"running"`
	TotalChannels  int  `json:"total_channels"`
	ChannelsDone   int  `json:"channels_done"`
	ChannelsFailed int  `json:"channels_failed"`
	Messages       int  `json:"messages"`
	Events         int  `json:"events"`
}

// Tracker accumulates live fleet counters. Safe for concurrent use.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker returns an idle tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin resets counters for a new run.
func (t *Tracker) Begin(totalChannels int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap = Snapshot{Running: true, TotalChannels: totalChannels}
}

// ChannelDone folds one channel result into the counters.
func (t *Tracker) ChannelDone(res ChannelResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.ChannelsDone++
	if res.Err != nil {
		t.snap.ChannelsFailed++
		return
	}
	t.snap.Messages += res.Stats.Total
	t.snap.Events += res.Stats.Events
}

// Finish marks the run complete.
func (t *Tracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.Running = false
}

// Snapshot returns a copy of the current counters.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap
}
