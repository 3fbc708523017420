package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SchedulerMetrics captures reconciliation job health signals.
type SchedulerMetrics struct {
	jobRuns        *prometheus.CounterVec
	jobDuration    *prometheus.HistogramVec
	jobErrors      *prometheus.CounterVec
	itemsProcessed *prometheus.CounterVec
	itemsFailed    *prometheus.CounterVec
}

var (
	schedulerMetricsOnce sync.Once
	schedulerMetrics     *SchedulerMetrics
)

// Scheduler returns the singleton scheduler metrics registry.
func Scheduler() *SchedulerMetrics {
	schedulerMetricsOnce.Do(func() {
		schedulerMetrics = newSchedulerMetrics(prometheus.DefaultRegisterer)
	})
	return schedulerMetrics
}

// ResetSchedulerMetricsForTest resets the scheduler metrics singleton for tests.
func ResetSchedulerMetricsForTest() {
	schedulerMetricsOnce = sync.Once{}
	schedulerMetrics = nil
}

func newSchedulerMetrics(registerer prometheus.Registerer) *SchedulerMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	jobRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pensio_scheduler_job_runs_total",
		Help: "Reconciliation job runs by name.",
	}, []string{"job"})
	jobDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pensio_scheduler_job_duration_seconds",
		Help:    "Reconciliation job latency.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"job"})
	jobErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pensio_scheduler_job_errors_total",
		Help: "Reconciliation job-level failures after retries.",
	}, []string{"job"})
	itemsProcessed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pensio_scheduler_items_processed_total",
		Help: "Items a reconciliation job handled successfully.",
	}, []string{"job"})
	itemsFailed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pensio_scheduler_items_failed_total",
		Help: "Items a reconciliation job skipped after a per-item failure.",
	}, []string{"job"})

	registerer.MustRegister(jobRuns, jobDuration, jobErrors, itemsProcessed, itemsFailed)

	return &SchedulerMetrics{
		jobRuns:        jobRuns,
		jobDuration:    jobDuration,
		jobErrors:      jobErrors,
		itemsProcessed: itemsProcessed,
		itemsFailed:    itemsFailed,
	}
}

func (m *SchedulerMetrics) IncJobRun(job string) {
	if m == nil || m.jobRuns == nil {
		return
	}
	m.jobRuns.WithLabelValues(job).Inc()
}

func (m *SchedulerMetrics) ObserveJobDuration(job string, duration time.Duration) {
	if m == nil || m.jobDuration == nil {
		return
	}
	m.jobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

func (m *SchedulerMetrics) IncJobError(job string) {
	if m == nil || m.jobErrors == nil {
		return
	}
	m.jobErrors.WithLabelValues(job).Inc()
}

func (m *SchedulerMetrics) AddItemsProcessed(job string, count int) {
	if m == nil || m.itemsProcessed == nil || count <= 0 {
		return
	}
	m.itemsProcessed.WithLabelValues(job).Add(float64(count))
}

func (m *SchedulerMetrics) AddItemsFailed(job string, count int) {
	if m == nil || m.itemsFailed == nil || count <= 0 {
		return
	}
	m.itemsFailed.WithLabelValues(job).Add(float64(count))
}
