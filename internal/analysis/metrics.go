package analysis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fatafat_analysis_cache_lookups_total",
		Help: "Pattern snapshot lookups by result (hit, miss)",
	}, []string{"result"})

	cacheBuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fatafat_analysis_cache_builds_total",
		Help: "Pattern snapshots built",
	})

	cacheInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fatafat_analysis_cache_invalidations_total",
		Help: "Explicit pattern cache invalidations",
	})

	buildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fatafat_analysis_build_duration_seconds",
		Help:    "Time spent building a pattern snapshot",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
	})

	sequenceLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fatafat_analysis_sequence_length",
		Help: "Length of the sequence behind the latest snapshot",
	})
)
