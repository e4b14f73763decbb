package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"tripatlas/internal/db"
)

var (
	resolutionDesc = prometheus.NewDesc(
		"tripatlas_share_resolutions_total",
		"Total public share link resolution count by scope and outcome",
		[]string{"scope", "outcome"},
		nil,
	)
)

// ResolutionCollector is a custom Prometheus collector that reads share
// resolution counts from the database on each scrape.
type ResolutionCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *ResolutionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- resolutionDesc
}

// Collect queries the database for all resolution stats and emits them as counters.
func (c *ResolutionCollector) Collect(ch chan<- prometheus.Metric) {
	stats, err := c.db.GetAllResolutionStats(context.Background())
	if err != nil {
		slog.Error("failed to collect share resolution metrics", "error", err)
		return
	}
	for _, s := range stats {
		ch <- prometheus.MustNewConstMetric(
			resolutionDesc,
			prometheus.CounterValue,
			float64(s.Count),
			s.Scope,
			s.Outcome,
		)
	}
}

// Recorder provides async resolution outcome recording.
type Recorder struct {
	db *db.DB
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// Init registers the custom collector and initializes the recorder.
// Must be called once at startup.
func Init(database *db.DB) {
	recorderOnce.Do(func() {
		recorder = &Recorder{db: database}
		prometheus.MustRegister(&ResolutionCollector{db: database})
	})
}

// RecordResolution asynchronously records a resolution outcome. Only the
// scope and a coarse hit/miss outcome are recorded, never token material.
func RecordResolution(scope, outcome string) {
	if recorder == nil {
		return
	}
	go func() {
		if err := recorder.db.IncrementResolutionStat(context.Background(), scope, outcome); err != nil {
			slog.Error("failed to record share resolution", "scope", scope, "outcome", outcome, "error", err)
		}
	}()
}
