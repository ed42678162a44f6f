package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// JobMetrics records scheduled job runs and the unlinked item gauge they
// maintain.
type JobMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	unlinked *prometheus.GaugeVec
}

func NewJobMetrics(reg prometheus.Registerer) *JobMetrics {
	if reg == nil {
		return &JobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "menuhub_job_duration_seconds",
		Help:    "Duration of scheduled jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "menuhub_job_success_total",
		Help: "Successful scheduled job executions.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "menuhub_job_failure_total",
		Help: "Failed scheduled job executions.",
	}, []string{"job"})
	unlinked := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "menuhub_unlinked_order_items",
		Help: "Order items saved without a catalog product during the report window.",
	}, []string{"tenant"})
	reg.MustRegister(duration, success, failure, unlinked)
	return &JobMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		unlinked: unlinked,
	}
}

func (j *JobMetrics) ObserveDuration(job string, duration time.Duration) {
	if j == nil || j.duration == nil {
		return
	}
	j.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

func (j *JobMetrics) IncSuccess(job string) {
	if j == nil || j.success == nil {
		return
	}
	j.success.WithLabelValues(normalizeLabel(job)).Inc()
}

func (j *JobMetrics) IncFailure(job string) {
	if j == nil || j.failure == nil {
		return
	}
	j.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

// SetUnlinked replaces the gauge with counts. Tenants missing from counts
// drop out of the series.
func (j *JobMetrics) SetUnlinked(counts map[string]int) {
	if j == nil || j.unlinked == nil {
		return
	}
	j.unlinked.Reset()
	for tenant, count := range counts {
		j.unlinked.WithLabelValues(normalizeLabel(tenant)).Set(float64(count))
	}
}
