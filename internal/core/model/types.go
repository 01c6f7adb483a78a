package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Metric names one per-project counter in a breakdown snapshot.
type Metric = string

// Format selects the column layout of a breakdown file.
type Format string

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatExtended, FormatLegacy:
		return f, nil
	default:
		return "", &ConfigurationError{
			Option: "input_format",
			Value:  s,
			Reason: fmt.Sprintf("must be one of %s, %s", FormatExtended, FormatLegacy),
		}
	}
}

// Metrics returns the metrics carried by rows of this format.
func (f Format) Metrics() []Metric {
	if f == FormatLegacy {
		return []Metric{MetricAllocNodes, MetricJobsQueued}
	}
	return AllMetrics()
}

// Supports reports whether m is a column of this format.
func (f Format) Supports(m Metric) bool {
	for _, candidate := range f.Metrics() {
		if candidate == m {
			return true
		}
	}
	return false
}

// Fields returns the column names of a full row in file order.
func (f Format) Fields() []string {
	if f == FormatLegacy {
		return []string{"project", MetricAllocNodes, MetricJobsQueued, "time"}
	}
	return []string{"time", "project", MetricAllocNodes, MetricJobsQueued, MetricWaitingJobs, MetricWaitingJobNodes}
}

// Record is one parsed line of a breakdown file.
type Record struct {
	Line    int
	Time    time.Time
	Project string
	Values  map[Metric]int
}

// Threshold is a horizontal limit line associated with a project.
type Threshold struct {
	Project string
	Limit   float64
}

// ParseThreshold parses a "<project>,<limit>" value.
func ParseThreshold(s string) (Threshold, error) {
	project, limit, ok := strings.Cut(s, ",")
	if !ok {
		return Threshold{}, &ConfigurationError{
			Option: "hline",
			Value:  s,
			Reason: "expected <project>,<limit>",
		}
	}
	// Anything after a second comma is ignored.
	limit, _, _ = strings.Cut(limit, ",")
	v, err := strconv.ParseFloat(strings.TrimSpace(limit), 64)
	if err != nil {
		return Threshold{}, &ConfigurationError{
			Option: "hline",
			Value:  s,
			Reason: "limit is not a number",
			Err:    err,
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Threshold{}, &ConfigurationError{
			Option: "hline",
			Value:  s,
			Reason: "limit must be finite",
		}
	}
	return Threshold{Project: project, Limit: v}, nil
}

// ParseThresholds parses every value in order.
func ParseThresholds(values []string) ([]Threshold, error) {
	thresholds := make([]Threshold, 0, len(values))
	for _, v := range values {
		th, err := ParseThreshold(v)
		if err != nil {
			return nil, err
		}
		thresholds = append(thresholds, th)
	}
	return thresholds, nil
}
