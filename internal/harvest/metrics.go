package harvest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalFetchAttempts tracks HTTP requests dispatched to listing pages.
	TotalFetchAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_fetch_attempts_total",
		Help: "The total number of listing page requests sent.",
	})
	// TotalFetchFailures tracks fetches that exhausted their retry budget.
	TotalFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_fetch_failures_total",
		Help: "The total number of fetches that failed after all retries.",
	})
	// TotalPostsParsed tracks unique posts produced by the pager.
	TotalPostsParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_posts_parsed_total",
		Help: "The total number of unique posts parsed from listing pages.",
	})
	// TotalDuplicatePosts tracks posts dropped by digest deduplication.
	TotalDuplicatePosts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_duplicate_posts_total",
		Help: "The total number of posts dropped as duplicates.",
	})
	// TotalEventsExtracted tracks posts that yielded an event record.
	TotalEventsExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_events_extracted_total",
		Help: "The total number of structured events extracted.",
	})
	// TotalRefinements tracks refinement outcomes by result.
	TotalRefinements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvester_refinements_total",
		Help: "The total number of refinement attempts by outcome.",
	}, []string{"outcome"})
	// TotalChannelFailures tracks channels that failed outright.
	TotalChannelFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_channel_failures_total",
		Help: "The total number of channels whose run failed.",
	})
)
