package chart

import (
	"errors"
	"image/color"
	"time"

	"github.com/penwyp/qbreakdown-plot/internal/core/model"
	"github.com/penwyp/qbreakdown-plot/internal/presentation/style"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrClosed is returned when drawing a chart that has been released.
var ErrClosed = errors.New("chart has been closed")

// Series is one project line.
type Series struct {
	Project     string
	Times       []time.Time
	Values      []float64
	Width       vg.Length
	Color       color.Color
	Highlighted bool
	// position in the color cycle
	ColorIndex int
}

// ThresholdLine is a dashed horizontal limit.
type ThresholdLine struct {
	Project string
	Limit   float64
	Color   color.Color
	Dashes  []vg.Length
	// Series is the index of the line whose color was reused, or -1.
	Series int
}

// Chart is a renderable description of a breakdown chart. It is built by
// Render and drawn by the display sinks.
type Chart struct {
	Metric      model.Metric
	Title       string
	XLabel      string
	YLabel      string
	LegendTitle string
	TimeFormat  string
	// tick label rotation in degrees
	TickRotation float64
	Location     *time.Location

	Series     []Series
	Thresholds []ThresholdLine

	style  *style.Style
	plot   *plot.Plot
	lines  []*plotter.Line
	rules  []*plotter.Function
	closed bool
}

// Legend returns the legend entries in display order.
func (c *Chart) Legend() []string {
	names := make([]string, len(c.Series))
	for i, s := range c.Series {
		names[i] = s.Project
	}
	return names
}

// Empty reports whether the chart has no project lines.
func (c *Chart) Empty() bool {
	return len(c.Series) == 0
}

// TimeRange returns the first and last timestamp drawn. ok is false for an
// empty chart.
func (c *Chart) TimeRange() (first, last time.Time, ok bool) {
	for _, s := range c.Series {
		if len(s.Times) == 0 {
			continue
		}
		return s.Times[0], s.Times[len(s.Times)-1], true
	}
	return time.Time{}, time.Time{}, false
}

// Closed reports whether Close has been called.
func (c *Chart) Closed() bool {
	return c.closed
}

// Close releases the underlying plot. A closed chart cannot be drawn.
func (c *Chart) Close() error {
	c.plot = nil
	c.lines = nil
	c.rules = nil
	c.closed = true
	return nil
}
