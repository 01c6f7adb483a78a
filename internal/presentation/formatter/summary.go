package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/qbreakdown-plot/internal/core/model"
	"github.com/penwyp/qbreakdown-plot/internal/util"
)

// SummaryFormatter prints per-project statistics of the metric.
type SummaryFormatter struct {
	w io.Writer
}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter(w io.Writer) *SummaryFormatter {
	return &SummaryFormatter{w: w}
}

// ProjectSummary holds the statistics of one project column.
type ProjectSummary struct {
	Project string
	Peak    float64
	Mean    float64
	Last    float64
}

// Summarize computes peak, mean and last value per project.
func Summarize(data *MetricTable) []ProjectSummary {
	out := make([]ProjectSummary, len(data.Projects))
	for col, p := range data.Projects {
		s := ProjectSummary{Project: p}
		var total float64
		for row := range data.Values {
			v := data.Values[row][col]
			total += v
			if row == 0 || v > s.Peak {
				s.Peak = v
			}
		}
		if n := len(data.Values); n > 0 {
			s.Mean = total / float64(n)
			s.Last = data.Values[n-1][col]
		}
		out[col] = s
	}
	return out
}

// Format writes the summary report.
func (f *SummaryFormatter) Format(data *MetricTable) error {
	title := data.Metric
	if desc, ok := model.Describe(data.Metric); ok {
		title = desc.Title
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")

	switch n := len(data.Times); n {
	case 0:
		b.WriteString("No samples\n")
	default:
		first := data.timeLabel(0)
		last := data.timeLabel(n - 1)
		if first == last {
			fmt.Fprintf(&b, "Time Range: %s (%d sample)\n", first, n)
		} else {
			fmt.Fprintf(&b, "Time Range: %s to %s (%d samples)\n", first, last, n)
		}
	}
	b.WriteString("\n")

	summaries := Summarize(data)
	width := len("Project")
	for _, s := range summaries {
		width = max(width, util.GetDisplayWidth(s.Project))
	}

	fmt.Fprintf(&b, "%s %10s %10s %10s\n", util.PadDisplay("Project", width, true), "Peak", "Mean", "Last")
	b.WriteString(strings.Repeat("-", width+33) + "\n")
	for _, s := range summaries {
		fmt.Fprintf(&b, "%s %10s %10s %10s\n",
			util.PadDisplay(s.Project, width, true),
			util.FormatValue(s.Peak),
			util.FormatValue(s.Mean),
			util.FormatValue(s.Last))
	}

	_, err := io.WriteString(f.w, b.String())
	return err
}
