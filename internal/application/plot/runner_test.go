package plot

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/qbreakdown-plot/internal/core/model"
	"github.com/penwyp/qbreakdown-plot/internal/presentation/chart"
	"github.com/penwyp/qbreakdown-plot/internal/testing/fixtures"
	"github.com/penwyp/qbreakdown-plot/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emitRecorder struct {
	chart *chart.Chart
	path  string
	calls int
}

func (e *emitRecorder) emit(c *chart.Chart, path string) error {
	e.chart = c
	e.path = path
	e.calls++
	return nil
}

func newTestRunner(t *testing.T, cfg *Config, interactive bool) (*Runner, *emitRecorder, *bytes.Buffer) {
	t.Helper()
	r, err := New(cfg)
	require.NoError(t, err)
	rec := &emitRecorder{}
	var out bytes.Buffer
	r.emit = rec.emit
	r.interactive = func() bool { return interactive }
	r.SetOutput(&out)
	return r, rec, &out
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path, err := fixtures.NewTestDataGenerator(t.TempDir()).WriteRaw("qbreakdown.txt", content)
	require.NoError(t, err)
	return path
}

func TestRunScenario(t *testing.T) {
	cfg := &Config{
		InputPath:  writeInput(t, fixtures.ScenarioInput),
		Timezone:   "UTC",
		Highlights: []string{"B"},
		HLines:     []string{"A,6", "NoSuchProject,10"},
	}
	r, rec, out := newTestRunner(t, cfg, true)

	require.NoError(t, r.Run())

	require.Equal(t, 1, rec.calls)
	assert.Empty(t, rec.path)
	assert.Equal(t, []string{"A", "B"}, rec.chart.Legend())
	assert.Equal(t, []float64{5, 7}, rec.chart.Series[0].Values)
	assert.Equal(t, []float64{0, 3}, rec.chart.Series[1].Values)
	assert.True(t, rec.chart.Series[1].Highlighted)
	require.Len(t, rec.chart.Thresholds, 2)
	assert.Equal(t, 0, rec.chart.Thresholds[0].Series)
	assert.Equal(t, -1, rec.chart.Thresholds[1].Series)
	assert.Empty(t, out.String())
}

func TestRunUsesConfiguredTimezone(t *testing.T) {
	cfg := &Config{
		InputPath:    writeInput(t, "2024-01-01T12:00 A 5 2 0 0\n"),
		Timezone:     "Europe/Oslo",
		PlotFilename: "chart.png",
	}
	r, rec, _ := newTestRunner(t, cfg, false)

	require.NoError(t, r.Run())

	assert.Equal(t, "Europe/Oslo", util.GetTimeProvider().Location().String())
	require.Len(t, rec.chart.Series, 1)
	assert.Equal(t, 11, rec.chart.Series[0].Times[0].UTC().Hour())
	assert.Equal(t, "Europe/Oslo", rec.chart.Location.String())
}

func TestRunWithDump(t *testing.T) {
	cfg := &Config{
		InputPath:    writeInput(t, fixtures.ScenarioInput),
		Timezone:     "UTC",
		PlotType:     model.MetricWaitingJobNodes,
		PlotFilename: "chart.svg",
		DumpTable:    "csv",
	}
	r, rec, out := newTestRunner(t, cfg, false)

	require.NoError(t, r.Run())

	assert.Equal(t, "chart.svg", rec.path)
	assert.Equal(t, "Time,A,B\n2024-01-01T00:00:00,0,0\n2024-01-01T01:00:00,3,0\n", out.String())
}

func TestRunLegacyFormat(t *testing.T) {
	samples := fixtures.GenerateCluster([]string{"chem", "phys"}, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 4, time.Hour)
	path, err := fixtures.NewTestDataGenerator(t.TempDir()).WriteSamples("legacy.txt", "legacy", samples)
	require.NoError(t, err)

	cfg := &Config{InputPath: path, InputFormat: "legacy", PlotType: model.MetricJobsQueued, Timezone: "UTC", PlotFilename: "out.png"}
	r, rec, _ := newTestRunner(t, cfg, false)

	require.NoError(t, r.Run())

	assert.Equal(t, []string{"chem", "phys"}, rec.chart.Legend())
	assert.Len(t, rec.chart.Series[0].Values, 4)
}

func TestRunSavesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "chart.png")
	cfg := &Config{
		InputPath:    writeInput(t, fixtures.ScenarioInput),
		Timezone:     "UTC",
		PlotFilename: out,
	}
	r, err := New(cfg)
	require.NoError(t, err)

	require.NoError(t, r.Run())

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRunWithStyleSheet(t *testing.T) {
	stylePath := filepath.Join(t.TempDir(), "thick.mplstyle")
	require.NoError(t, os.WriteFile(stylePath, []byte("lines.linewidth: 2\n"), 0o644))

	cfg := &Config{
		InputPath:    writeInput(t, fixtures.ScenarioInput),
		Timezone:     "UTC",
		PlotStyle:    stylePath,
		PlotFilename: "chart.png",
		Highlights:   []string{"A"},
	}
	r, rec, _ := newTestRunner(t, cfg, false)

	require.NoError(t, r.Run())

	assert.InDelta(t, 6.0, float64(rec.chart.Series[0].Width), 1e-9)
	assert.InDelta(t, 2.0, float64(rec.chart.Series[1].Width), 1e-9)
}

func TestRunErrors(t *testing.T) {
	t.Run("missing_file", func(t *testing.T) {
		cfg := &Config{InputPath: filepath.Join(t.TempDir(), "missing.txt"), PlotFilename: "x.png"}
		r, rec, _ := newTestRunner(t, cfg, false)

		err := r.Run()

		assert.True(t, errors.Is(err, fs.ErrNotExist))
		assert.Zero(t, rec.calls)
	})

	t.Run("malformed_row", func(t *testing.T) {
		cfg := &Config{InputPath: writeInput(t, "2024-01-01T00:00 A five 2 0 0\n"), PlotFilename: "x.png", DumpTable: "table"}
		r, rec, out := newTestRunner(t, cfg, false)

		err := r.Run()

		var parseErr *model.ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, 1, parseErr.Line)
		assert.Zero(t, rec.calls)
		assert.Empty(t, out.String())
	})

	t.Run("no_terminal", func(t *testing.T) {
		cfg := &Config{InputPath: writeInput(t, fixtures.ScenarioInput), DumpTable: "table"}
		r, rec, out := newTestRunner(t, cfg, false)

		err := r.Run()

		var cfgErr *model.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "plot_filename", cfgErr.Option)
		assert.Zero(t, rec.calls)
		assert.Empty(t, out.String())
	})

	t.Run("missing_style", func(t *testing.T) {
		cfg := &Config{
			InputPath:    writeInput(t, fixtures.ScenarioInput),
			PlotFilename: "x.png",
			PlotStyle:    filepath.Join(t.TempDir(), "none.mplstyle"),
		}
		r, rec, _ := newTestRunner(t, cfg, false)

		assert.Error(t, r.Run())
		assert.Zero(t, rec.calls)
	})
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(&Config{InputPath: "f", HLines: []string{"oops"}})

	var cfgErr *model.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "hline", cfgErr.Option)
}
