package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tsviz_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	FilesProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tsviz_files_processed_total",
		Help: "Total number of source files processed, by outcome.",
	}, []string{"status"})

	ModelEntities = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tsviz_model_entities",
		Help: "Number of entities in the last extracted model, by kind.",
	}, []string{"kind"})

	ExtractionWarningsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tsviz_extraction_warnings_total",
		Help: "Total number of extraction warnings emitted.",
	})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tsviz_run_seconds",
		Help:    "Time spent on one full extraction run.",
		Buckets: prometheus.DefBuckets,
	})

	RunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tsviz_runs_total",
		Help: "Total number of extraction runs completed.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tsviz_watcher_events_total",
		Help: "Total number of file change batches received from the watcher.",
	})
)
