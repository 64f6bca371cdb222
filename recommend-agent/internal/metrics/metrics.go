package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	WorkflowRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_runs_total",
			Help: "Total number of recommendation workflow runs",
		},
		[]string{"status"},
	)
	WorkflowStepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "workflow_step_duration_seconds",
			Help: "Duration of individual workflow steps",
		},
		[]string{"step", "status"},
	)
	WebSearchFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "web_search_fallbacks_total",
			Help: "Total number of runs that fell back to web search",
		},
	)
	GradingVerdictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grading_verdicts_total",
			Help: "Total number of relevance verdicts by outcome",
		},
		[]string{"verdict"},
	)
	RecorderFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recorder_failures_total",
			Help: "Total number of messages that could not be recorded",
		},
		[]string{"sender"},
	)
	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "web_search_cache_hits_total",
			Help: "Total number of web search cache hits",
		},
	)
	CacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "web_search_cache_misses_total",
			Help: "Total number of web search cache misses",
		},
	)
	ExternalAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "external_api_calls_total",
			Help: "Total number of external API calls",
		},
		[]string{"provider", "status"},
	)
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of API requests",
		},
		[]string{"method", "endpoint"},
	)
)

func init() {
	prometheus.MustRegister(WorkflowRunsTotal)
	prometheus.MustRegister(WorkflowStepDuration)
	prometheus.MustRegister(WebSearchFallbacksTotal)
	prometheus.MustRegister(GradingVerdictsTotal)
	prometheus.MustRegister(RecorderFailuresTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(ExternalAPICallsTotal)
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
}

// Status is the label value used for success/error outcomes.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
