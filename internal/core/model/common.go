package model

// Format identifiers
const (
	FormatExtended = "extended"
	FormatLegacy   = "legacy"
)

// Metric identifiers
const (
	MetricAllocNodes      = "alloc_nodes"
	MetricJobsQueued      = "jobs_queued"
	MetricWaitingJobs     = "waiting_jobs"
	MetricWaitingJobNodes = "waiting_job_nodes"
)

// Chart labels
const (
	TimeAxisLabel = "Time"
	LegendTitle   = "Project"
)

// MetricDescription holds the fixed chart title and y-axis label of a metric.
type MetricDescription struct {
	Title  string
	YLabel string
}

var metricDescriptions = map[Metric]MetricDescription{
	MetricAllocNodes: {
		Title:  "Number of nodes allocated by project",
		YLabel: "Node count",
	},
	MetricJobsQueued: {
		Title:  "Number of jobs in queue by project",
		YLabel: "Job count",
	},
	MetricWaitingJobs: {
		Title:  "Number of jobs waiting in the queue by project",
		YLabel: "Job count",
	},
	MetricWaitingJobNodes: {
		Title:  "Number of nodes that waiting jobs in the queue could use by project",
		YLabel: "Node count",
	},
}

// Describe returns the title and axis label for a metric.
func Describe(m Metric) (MetricDescription, bool) {
	d, ok := metricDescriptions[m]
	return d, ok
}

// AllMetrics returns every metric known to any format, in display order.
func AllMetrics() []Metric {
	return []Metric{MetricAllocNodes, MetricJobsQueued, MetricWaitingJobs, MetricWaitingJobNodes}
}
