package chart

import (
	"fmt"
	"image/color"
	"time"

	"github.com/penwyp/qbreakdown-plot/internal/core/constants"
	"github.com/penwyp/qbreakdown-plot/internal/core/model"
	"github.com/penwyp/qbreakdown-plot/internal/presentation/style"
	"github.com/penwyp/qbreakdown-plot/internal/util"
	"gonum.org/v1/plot/vg"
)

// HighlightFactor multiplies the default line width of highlighted projects.
const HighlightFactor = 3

// NeutralColor is used for thresholds that name no drawn project.
var NeutralColor color.Color = color.Black

// ThresholdDashes is the on/off dash pattern of threshold lines.
var ThresholdDashes = []vg.Length{vg.Points(3), vg.Points(3)}

// Options selects what to draw.
type Options struct {
	Metric     model.Metric
	Highlight  []string
	Thresholds []model.Threshold
	Style      *style.Style
	Location   *time.Location
}

// Render builds the chart of one metric from a pivoted table.
func Render(table *model.Table, opts Options) (*Chart, error) {
	if !table.HasMetric(opts.Metric) {
		return nil, &model.ConfigurationError{
			Option: "plot_type",
			Value:  opts.Metric,
			Reason: fmt.Sprintf("not available for %s input (choose from %v)", table.Format(), table.Metrics()),
		}
	}
	desc, ok := model.Describe(opts.Metric)
	if !ok {
		return nil, &model.ConfigurationError{Option: "plot_type", Value: opts.Metric, Reason: "unknown metric"}
	}

	s := opts.Style
	if s == nil {
		s = style.Default()
	}
	loc := opts.Location
	if loc == nil {
		loc = util.GetTimeProvider().Location()
	}

	highlight := make(map[string]bool, len(opts.Highlight))
	for _, p := range opts.Highlight {
		highlight[p] = true
	}

	c := &Chart{
		Metric:       opts.Metric,
		Title:        desc.Title,
		XLabel:       model.TimeAxisLabel,
		YLabel:       desc.YLabel,
		LegendTitle:  model.LegendTitle,
		TimeFormat:   constants.TickTimeFormat,
		TickRotation: constants.TickLabelRotation,
		Location:     loc,
		style:        s,
	}

	// Projects() is sorted, which fixes the legend order.
	drawn := make(map[string]int, len(table.Projects()))
	for _, project := range table.Projects() {
		if project == "" {
			continue
		}
		idx := len(c.Series)
		width := s.LineWidth
		if highlight[project] {
			width *= HighlightFactor
		}
		c.Series = append(c.Series, Series{
			Project:     project,
			Times:       table.Times(),
			Values:      table.Series(opts.Metric, project),
			Width:       width,
			Color:       s.Color(idx),
			Highlighted: highlight[project],
			ColorIndex:  idx,
		})
		drawn[project] = idx
	}

	for p := range highlight {
		if _, ok := drawn[p]; !ok {
			util.LogWarnf("Highlighted project %q has no samples", p)
		}
	}

	for _, th := range opts.Thresholds {
		line := ThresholdLine{
			Project: th.Project,
			Limit:   th.Limit,
			Color:   NeutralColor,
			Dashes:  ThresholdDashes,
			Series:  -1,
		}
		if idx, ok := drawn[th.Project]; ok {
			line.Color = c.Series[idx].Color
			line.Series = idx
		}
		c.Thresholds = append(c.Thresholds, line)
	}

	util.LogDebugf("Rendered %s chart: %d series, %d thresholds, %d rows",
		opts.Metric, len(c.Series), len(c.Thresholds), table.Len())
	return c, nil
}
