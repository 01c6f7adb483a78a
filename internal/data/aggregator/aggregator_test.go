package aggregator

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/penwyp/qbreakdown-plot/internal/core/model"
	"github.com/penwyp/qbreakdown-plot/internal/data/parser"
	"github.com/penwyp/qbreakdown-plot/internal/testing/fixtures"
	"github.com/penwyp/qbreakdown-plot/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func record(ts time.Time, project string, alloc, queued int) model.Record {
	return model.Record{
		Time:    ts,
		Project: project,
		Values: map[model.Metric]int{
			model.MetricAllocNodes: alloc,
			model.MetricJobsQueued: queued,
		},
	}
}

func newParser(t *testing.T, format model.Format) *parser.Parser {
	t.Helper()
	tp, err := util.NewTimeProvider("UTC")
	require.NoError(t, err)
	return parser.NewParser(format, tp)
}

func TestPivotFillsMissingPairsWithZero(t *testing.T) {
	t1 := t0.Add(time.Hour)
	records := []model.Record{
		record(t0, "A", 5, 2),
		record(t1, "A", 7, 2),
		record(t1, "B", 3, 1),
	}

	table := NewAggregator(model.FormatLegacy).Pivot(records)

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []time.Time{t0, t1}, table.Times())
	assert.Equal(t, []string{"A", "B"}, table.Projects())
	assert.Equal(t, []float64{5, 7}, table.Series(model.MetricAllocNodes, "A"))
	assert.Equal(t, []float64{0, 3}, table.Series(model.MetricAllocNodes, "B"))
	assert.Equal(t, []float64{0, 1}, table.Series(model.MetricJobsQueued, "B"))
}

func TestPivotSortsRowsAndProjects(t *testing.T) {
	records := []model.Record{
		record(t0.Add(2*time.Hour), "zeta", 1, 0),
		record(t0, "alpha", 2, 0),
		record(t0.Add(time.Hour), "Mid", 3, 0),
		record(t0, "zeta", 4, 0),
	}

	table := NewAggregator(model.FormatLegacy).Pivot(records)

	assert.Equal(t, []string{"Mid", "alpha", "zeta"}, table.Projects())
	assert.Equal(t, []time.Time{t0, t0.Add(time.Hour), t0.Add(2 * time.Hour)}, table.Times())
	assert.Equal(t, []float64{4, 0, 1}, table.Series(model.MetricAllocNodes, "zeta"))
}

func TestPivotOneRowPerDistinctTimestamp(t *testing.T) {
	projects := []string{"a", "b", "c", "d"}
	samples := fixtures.GenerateCluster(projects, t0, 10, 15*time.Minute)
	// Drop every third sample so that some pairs are missing
	var kept []fixtures.Sample
	for i, s := range samples {
		if i%3 != 0 {
			kept = append(kept, s)
		}
	}

	table, err := Load(newParser(t, model.FormatExtended), strings.NewReader(fixtures.Render("extended", kept)))
	require.NoError(t, err)

	distinct := make(map[int64]bool)
	for _, s := range kept {
		distinct[s.Time.Unix()] = true
	}
	assert.Equal(t, len(distinct), table.Len())

	present := make(map[string]bool)
	for _, s := range kept {
		present[s.Time.Format(time.RFC3339)+"/"+s.Project] = true
	}
	for row, ts := range table.Times() {
		for _, p := range table.Projects() {
			if present[ts.Format(time.RFC3339)+"/"+p] {
				continue
			}
			for _, m := range table.Metrics() {
				assert.Zero(t, table.Value(m, row, p), "%s %s %s", ts, p, m)
			}
		}
	}
}

func TestPivotAveragesDuplicates(t *testing.T) {
	records := []model.Record{
		record(t0, "A", 4, 1),
		record(t0, "A", 6, 2),
	}

	table := NewAggregator(model.FormatLegacy).Pivot(records)

	assert.Equal(t, 1, table.Len())
	assert.Equal(t, 5.0, table.Value(model.MetricAllocNodes, 0, "A"))
	assert.Equal(t, 1.5, table.Value(model.MetricJobsQueued, 0, "A"))
}

func TestPivotDropsEmptyProject(t *testing.T) {
	records := []model.Record{
		record(t0, "", 9, 9),
		record(t0.Add(time.Hour), "A", 1, 1),
	}

	table := NewAggregator(model.FormatLegacy).Pivot(records)

	assert.Equal(t, []string{"A"}, table.Projects())
	assert.False(t, table.HasProject(""))
	// the blank-project timestamp keeps its row, zero-filled
	require.Equal(t, 2, table.Len())
	assert.Equal(t, []float64{0, 1}, table.Series(model.MetricAllocNodes, "A"))
}

func TestPivotTimestampsOutsideNanosecondRange(t *testing.T) {
	years := []int{1500, 1600, 9000, 9999}
	records := make([]model.Record, 0, 2*len(years))
	for i, y := range years {
		ts := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
		records = append(records, record(ts, "A", i+1, 0), record(ts, "A", i+1, 0))
	}
	// same instant in another zone shares the row
	records = append(records, record(time.Date(1500, 1, 1, 1, 0, 0, 0, time.FixedZone("CET", 3600)), "B", 7, 0))

	table := NewAggregator(model.FormatLegacy).Pivot(records)

	require.Equal(t, len(years), table.Len())
	for i, y := range years {
		assert.Equal(t, y, table.Times()[i].Year())
	}
	assert.Equal(t, []float64{1, 2, 3, 4}, table.Series(model.MetricAllocNodes, "A"))
	assert.Equal(t, []float64{7, 0, 0, 0}, table.Series(model.MetricAllocNodes, "B"))
}

func TestPivotEmpty(t *testing.T) {
	table := NewAggregator(model.FormatExtended).Pivot(nil)

	assert.Zero(t, table.Len())
	assert.Empty(t, table.Projects())
	assert.True(t, table.HasMetric(model.MetricWaitingJobs))
}

func TestLoadScenario(t *testing.T) {
	table, err := Load(newParser(t, model.FormatExtended), strings.NewReader(fixtures.ScenarioInput))

	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"A", "B"}, table.Projects())
	assert.Equal(t, []float64{5, 7}, table.Series(model.MetricAllocNodes, "A"))
	assert.Equal(t, []float64{0, 3}, table.Series(model.MetricAllocNodes, "B"))
	assert.Equal(t, []float64{0, 3}, table.Series(model.MetricWaitingJobNodes, "A"))
}

func TestLoadParseError(t *testing.T) {
	_, err := Load(newParser(t, model.FormatExtended), strings.NewReader("2024-01-01T00:00 A x 1 1 1\n"))

	var parseErr *model.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestLoadFile(t *testing.T) {
	gen := fixtures.NewTestDataGenerator(t.TempDir())
	path, err := gen.WriteSamples("legacy.txt", "legacy", fixtures.GenerateCluster([]string{"x", "y"}, t0, 3, time.Hour))
	require.NoError(t, err)

	table, err := LoadFile(newParser(t, model.FormatLegacy), path)

	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []float64{2, 4, 6}, table.Series(model.MetricAllocNodes, "y"))
	assert.False(t, table.HasMetric(model.MetricWaitingJobs))
}

func TestLoadFileEmpty(t *testing.T) {
	gen := fixtures.NewTestDataGenerator(t.TempDir())
	path, err := gen.WriteRaw("empty.txt", "")
	require.NoError(t, err)

	table, err := LoadFile(newParser(t, model.FormatExtended), path)

	require.NoError(t, err)
	assert.Zero(t, table.Len())
}
