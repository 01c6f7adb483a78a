package chart

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/penwyp/qbreakdown-plot/internal/core/model"
	"github.com/penwyp/qbreakdown-plot/internal/data/aggregator"
	"github.com/penwyp/qbreakdown-plot/internal/data/parser"
	"github.com/penwyp/qbreakdown-plot/internal/presentation/style"
	"github.com/penwyp/qbreakdown-plot/internal/testing/fixtures"
	"github.com/penwyp/qbreakdown-plot/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func loadTable(t *testing.T, format model.Format, input string) *model.Table {
	t.Helper()
	tp, err := util.NewTimeProvider("UTC")
	require.NoError(t, err)
	table, err := aggregator.Load(parser.NewParser(format, tp), strings.NewReader(input))
	require.NoError(t, err)
	return table
}

func scenarioTable(t *testing.T) *model.Table {
	return loadTable(t, model.FormatExtended, fixtures.ScenarioInput)
}

func TestRenderScenario(t *testing.T) {
	c, err := Render(scenarioTable(t), Options{Metric: model.MetricAllocNodes, Location: time.UTC})
	require.NoError(t, err)

	assert.Equal(t, "Number of nodes allocated by project", c.Title)
	assert.Equal(t, "Node count", c.YLabel)
	assert.Equal(t, "Time", c.XLabel)
	assert.Equal(t, "Project", c.LegendTitle)
	assert.Equal(t, []string{"A", "B"}, c.Legend())
	require.Len(t, c.Series, 2)

	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []time.Time{t1, t1.Add(time.Hour)}, c.Series[0].Times)
	assert.Equal(t, []float64{5, 7}, c.Series[0].Values)
	assert.Equal(t, []float64{0, 3}, c.Series[1].Values)
	assert.Empty(t, c.Thresholds)
}

func TestRenderLegendSortedAndStable(t *testing.T) {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	samples := fixtures.GenerateCluster([]string{"zoo", "Bio", "astro", "chem"}, start, 3, time.Hour)
	table := loadTable(t, model.FormatExtended, fixtures.Render("extended", samples))

	first, err := Render(table, Options{Metric: model.MetricJobsQueued})
	require.NoError(t, err)
	second, err := Render(table, Options{Metric: model.MetricJobsQueued})
	require.NoError(t, err)

	assert.Equal(t, []string{"Bio", "astro", "chem", "zoo"}, first.Legend())
	assert.Equal(t, first.Legend(), second.Legend())
	for i := range first.Series {
		assert.Equal(t, first.Series[i].Color, second.Series[i].Color)
	}
	assert.NotContains(t, first.Legend(), "")
}

func TestRenderSkipsEmptyProject(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	table := model.NewTable(model.FormatLegacy, []time.Time{t1}, []string{"", "A"})

	c, err := Render(table, Options{Metric: model.MetricAllocNodes})
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, c.Legend())
	assert.Equal(t, 0, c.Series[0].ColorIndex)
}

func TestRenderHighlightWidth(t *testing.T) {
	s := style.Default()
	c, err := Render(scenarioTable(t), Options{
		Metric:    model.MetricAllocNodes,
		Highlight: []string{"B", "NotThere"},
		Style:     s,
	})
	require.NoError(t, err)

	assert.Equal(t, s.LineWidth, c.Series[0].Width)
	assert.False(t, c.Series[0].Highlighted)
	assert.Equal(t, 3*s.LineWidth, c.Series[1].Width)
	assert.True(t, c.Series[1].Highlighted)
}

func TestRenderThresholdColors(t *testing.T) {
	c, err := Render(scenarioTable(t), Options{
		Metric: model.MetricAllocNodes,
		Thresholds: []model.Threshold{
			{Project: "B", Limit: 6},
			{Project: "NoSuchProject", Limit: 10},
			{Project: "B", Limit: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, c.Thresholds, 3)

	assert.Equal(t, c.Series[1].Color, c.Thresholds[0].Color)
	assert.Equal(t, 1, c.Thresholds[0].Series)
	assert.Equal(t, 6.0, c.Thresholds[0].Limit)

	assert.Equal(t, NeutralColor, c.Thresholds[1].Color)
	assert.Equal(t, -1, c.Thresholds[1].Series)

	assert.Equal(t, 2.0, c.Thresholds[2].Limit, "thresholds keep their order")
	for _, th := range c.Thresholds {
		assert.Equal(t, []vg.Length{vg.Points(3), vg.Points(3)}, th.Dashes)
	}
}

func TestRenderUnknownThresholdOnly(t *testing.T) {
	table := loadTable(t, model.FormatExtended, "2024-01-01T00:00 A 5 2 0 0\n")

	c, err := Render(table, Options{
		Metric:     model.MetricAllocNodes,
		Thresholds: []model.Threshold{{Project: "NoSuchProject", Limit: 10}},
	})
	require.NoError(t, err)

	require.Len(t, c.Thresholds, 1)
	assert.Equal(t, NeutralColor, c.Thresholds[0].Color)
	assert.Equal(t, 10.0, c.Thresholds[0].Limit)
	assert.Equal(t, []string{"A"}, c.Legend())
}

func TestRenderEmptyTable(t *testing.T) {
	table := loadTable(t, model.FormatExtended, "")

	c, err := Render(table, Options{Metric: model.MetricWaitingJobs})
	require.NoError(t, err)

	assert.True(t, c.Empty())
	assert.Empty(t, c.Legend())
	assert.Equal(t, "Job count", c.YLabel)
	_, _, ok := c.TimeRange()
	assert.False(t, ok)
}

func TestRenderMetricNotInFormat(t *testing.T) {
	table := loadTable(t, model.FormatLegacy, "A 1 2 2024-01-01T00:00\n")

	c, err := Render(table, Options{Metric: model.MetricWaitingJobNodes})

	assert.Nil(t, c)
	var cfgErr *model.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "plot_type", cfgErr.Option)
}

func TestRenderAllMetricDescriptions(t *testing.T) {
	table := scenarioTable(t)
	for _, m := range table.Metrics() {
		c, err := Render(table, Options{Metric: m})
		require.NoError(t, err)
		d, _ := model.Describe(m)
		assert.Equal(t, d.Title, c.Title)
		assert.Equal(t, d.YLabel, c.YLabel)
	}
}

func TestChartClose(t *testing.T) {
	c, err := Render(scenarioTable(t), Options{Metric: model.MetricAllocNodes})
	require.NoError(t, err)

	_, err = c.Plot()
	require.NoError(t, err)

	require.NoError(t, c.Close())
	assert.True(t, c.Closed())
	_, err = c.Plot()
	assert.ErrorIs(t, err, ErrClosed)
}
