package predictor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	predictionsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fatafat_predictions_served_total",
		Help: "Round predictions served, by trigger",
	}, []string{"trigger"})

	observationsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fatafat_observations_ingested_total",
		Help: "Observations appended through the predictor",
	})
)
