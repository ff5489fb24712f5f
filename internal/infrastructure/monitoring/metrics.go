// Package monitoring provides Prometheus metrics for the generation
// pipelines and the HTTP layer.
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline stage labels used by the failure counter
const (
	StageRetrieval  = "retrieval"
	StageCompletion = "completion"
	StageParsing    = "parsing"
	StagePersist    = "persist"
	StageExtraction = "extraction"
)

// Metrics holds the application's Prometheus collectors
type Metrics struct {
	registry *prometheus.Registry

	PlansGenerated   prometheus.Counter
	ReportsGenerated prometheus.Counter
	PipelineFailures *prometheus.CounterVec
	PlanDuration     prometheus.Histogram
	SummaryCacheHits prometheus.Counter

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the application collectors on a
// dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		PlansGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "nutricoach_meal_plans_generated_total",
			Help: "Total number of meal plans generated and stored",
		}),
		ReportsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "nutricoach_health_reports_generated_total",
			Help: "Total number of health report summaries generated",
		}),
		PipelineFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nutricoach_pipeline_failures_total",
			Help: "Total number of pipeline failures by stage",
		}, []string{"stage"}),
		PlanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "nutricoach_meal_plan_generation_seconds",
			Help:    "End-to-end meal plan generation latency",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		SummaryCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "nutricoach_summary_cache_hits_total",
			Help: "Total number of report summaries served from cache",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nutricoach_http_requests_total",
			Help: "Total number of HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nutricoach_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// Handler returns the scrape endpoint handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
