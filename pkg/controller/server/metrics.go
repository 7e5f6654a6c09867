package server

import (
	"github.com/m-mizutani/freshness/pkg/domain/types"
	"github.com/prometheus/client_golang/prometheus"
)

const resultOK = "OK"

type metrics struct {
	requests         *prometheus.CounterVec
	upstreamDuration prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "freshness",
			Name:      "badge_requests_total",
			Help:      "Number of badge requests by result (OK or error kind).",
		}, []string{"result"}),
		upstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "freshness",
			Name:      "upstream_duration_seconds",
			Help:      "Time spent resolving a badge including the GitHub API call.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.requests, m.upstreamDuration)

	return m
}

func (x *metrics) observeResult(kind types.ErrorKind) {
	x.requests.WithLabelValues(string(kind)).Inc()
}
