// Package metrics provides Prometheus observability metrics for the staffing
// planner. It covers demand loading, schedule computation, capacity shortfall
// and the HTTP front end.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// PARSER METRICS
// =============================================================================

// ParserErrorsTotal tracks parse errors by error type.
var ParserErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "errors_total",
	Help:      "Total parse errors by error type",
}, []string{"error_type"})

// ParserRecordsTotal tracks total demand rows successfully parsed.
var ParserRecordsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "records_total",
	Help:      "Total demand rows successfully parsed",
})

// ParserDurationSeconds tracks time to parse input files.
var ParserDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "parser",
	Name:      "duration_seconds",
	Help:      "Time taken to parse and validate demand input",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
})

// =============================================================================
// SCHEDULER METRICS
// =============================================================================

// SchedulerRunsTotal counts planning runs by result (success, invalid_input,
// error).
var SchedulerRunsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "scheduler",
	Name:      "runs_total",
	Help:      "Planning runs by result",
}, []string{"result"})

// SchedulerDurationSeconds tracks time to generate schedule.
var SchedulerDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "scheduler",
	Name:      "duration_seconds",
	Help:      "Time taken to generate the schedule",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
})

// SchedulerDemandsProcessed tracks number of demand rows per scheduling run.
var SchedulerDemandsProcessed = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "scheduler",
	Name:      "demands_processed",
	Help:      "Number of demand rows processed per scheduling run",
	Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
})

// AgentsDemandedTotal is the sum of agent-hours in the last computed grid.
var AgentsDemandedTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "agents_demanded_total",
	Help:      "Total number of agents demanded across all customers and hours in the last run",
})

// PeakHourAgents is the largest hourly total in the last computed grid.
var PeakHourAgents = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "peak_hour_agents",
	Help:      "Highest hourly agent total in the last run",
})

// HoursStaffed is the number of hours with any demand in the last run.
var HoursStaffed = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "hours_staffed",
	Help:      "Number of hours with at least one agent in the last run",
})

// AgentsUnmetTotal tracks total unmet agent demand across all hours.
// High values indicate capacity planning issues.
var AgentsUnmetTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "agents_unmet_total",
	Help:      "Total number of agents that could not be allocated due to capacity constraints",
})

// HoursWithUnmetDemand tracks number of hours where capacity was exceeded.
var HoursWithUnmetDemand = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "hours_with_unmet_demand",
	Help:      "Number of hours in the schedule where demand exceeded capacity",
})

// UnmetDemandByPriority tracks unmet agents by priority level.
var UnmetDemandByPriority = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "unmet_demand_by_priority",
	Help:      "Unmet agent demand broken down by priority level",
}, []string{"priority"})

// =============================================================================
// HTTP METRICS
// =============================================================================

// HTTPRequestsTotal counts served requests.
var HTTPRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "http",
	Name:      "requests_total",
	Help:      "HTTP requests by method, route and status code",
}, []string{"method", "route", "status"})

// HTTPRequestDurationSeconds tracks request latency.
var HTTPRequestDurationSeconds = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by method and route",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route"})

// =============================================================================
// Helper Functions
// =============================================================================

// ResetSchedulerGauges resets all scheduler gauges before a new scheduling run.
func ResetSchedulerGauges() {
	AgentsDemandedTotal.Set(0)
	PeakHourAgents.Set(0)
	HoursStaffed.Set(0)
	AgentsUnmetTotal.Set(0)
	HoursWithUnmetDemand.Set(0)
	UnmetDemandByPriority.Reset()
}

// ObserveUnmetPriority adds unmet agents to the gauge for a priority level.
func ObserveUnmetPriority(priority, unmet int) {
	UnmetDemandByPriority.WithLabelValues(strconv.Itoa(priority)).Add(float64(unmet))
}
