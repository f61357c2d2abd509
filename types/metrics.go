package types

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var DADispatchCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "da_dispatch_total",
	Help: "The number of blob dispatches by client and outcome.",
}, []string{"client", "outcome"})

var DAConsecutiveFailedDispatch = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "da_consecutive_failed_dispatch",
	Help: "The number of consecutive times the dispatch to the DA failed.",
})

var DAConfirmationPasses = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "da_confirmation_passes",
	Help:    "The number of passes over the validators needed to confirm a blob inclusion.",
	Buckets: prometheus.LinearBuckets(1, 1, 12),
})

var DAConfirmationCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "da_confirmation_total",
	Help: "The number of inclusion confirmations by outcome (found, timeout, failed).",
}, []string{"outcome"})

var DABlobSizeBytesGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "da_blob_size_bytes",
	Help: "The padded size of the last dispatched blob.",
})
