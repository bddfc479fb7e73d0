package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

var (
	ResultsRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "votetally_results_requests_total",
		Help: "Total number of results rollup requests",
	})
	ResultsCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "votetally_results_cache_hits_total",
		Help: "Total results served from the in-process cache",
	})
	SubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "votetally_submissions_total",
		Help: "Vote submissions by outcome",
	}, []string{"outcome"})
	RollupDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "votetally_rollup_duration_ms",
		Help:    "Aggregation rollup duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
)

func init() {
	prometheus.MustRegister(ResultsRequestsTotal)
	prometheus.MustRegister(ResultsCacheHitsTotal)
	prometheus.MustRegister(SubmissionsTotal)
	prometheus.MustRegister(RollupDurationMs)
}

// Handler exposes the prometheus scrape endpoint as a Gin handler.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
