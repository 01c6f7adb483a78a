package plot

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/penwyp/qbreakdown-plot/internal/core/model"
	"github.com/penwyp/qbreakdown-plot/internal/data/aggregator"
	"github.com/penwyp/qbreakdown-plot/internal/data/parser"
	"github.com/penwyp/qbreakdown-plot/internal/presentation/chart"
	"github.com/penwyp/qbreakdown-plot/internal/presentation/display"
	"github.com/penwyp/qbreakdown-plot/internal/presentation/formatter"
	"github.com/penwyp/qbreakdown-plot/internal/presentation/style"
	"github.com/penwyp/qbreakdown-plot/internal/util"
)

// Runner loads a breakdown file, renders one metric and hands the chart
// to the output sink.
type Runner struct {
	config *Config
	out    io.Writer

	// sinks, replaceable in tests
	emit        func(c *chart.Chart, path string) error
	interactive func() bool
}

// New validates config and creates a Runner writing dumps to stdout.
func New(config *Config) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Runner{
		config:      config,
		out:         os.Stdout,
		emit:        display.Emit,
		interactive: display.IsInteractive,
	}, nil
}

// SetOutput redirects the table dump.
func (r *Runner) SetOutput(w io.Writer) {
	r.out = w
}

// Run executes the load, render, dump and emit phases.
func (r *Runner) Run() error {
	cfg := r.config

	if cfg.PlotFilename == "" && !r.interactive() {
		return &model.ConfigurationError{
			Option: "plot_filename",
			Reason: "no terminal available for interactive display; pass a file name to save the chart",
		}
	}

	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return err
	}
	times := util.GetTimeProvider()

	// Phase 1: Load style sheet
	styleStart := time.Now()
	s, err := r.loadStyle()
	if err != nil {
		return err
	}
	util.LogDebug(fmt.Sprintf("Phase 1 - Style load duration: %v", time.Since(styleStart)))

	// Phase 2: Parse and pivot
	loadStart := time.Now()
	table, err := aggregator.LoadFile(parser.NewParser(cfg.Format(), nil), cfg.InputPath)
	if err != nil {
		return err
	}
	util.LogDebug(fmt.Sprintf("Phase 2 - Load duration: %v, rows: %d, projects: %d",
		time.Since(loadStart), table.Len(), len(table.Projects())))

	// Phase 3: Render
	renderStart := time.Now()
	c, err := chart.Render(table, chart.Options{
		Metric:     cfg.PlotType,
		Highlight:  cfg.Highlights,
		Thresholds: cfg.Thresholds(),
		Style:      s,
		Location:   times.Location(),
	})
	if err != nil {
		return err
	}
	util.LogDebug(fmt.Sprintf("Phase 3 - Render duration: %v, lines: %d, thresholds: %d",
		time.Since(renderStart), len(c.Series), len(c.Thresholds)))

	// Phase 4: Optional table dump
	if cfg.DumpTable != "" {
		dumpStart := time.Now()
		if err := r.dump(table, times); err != nil {
			c.Close()
			return err
		}
		util.LogDebug(fmt.Sprintf("Phase 4 - Table dump duration: %v", time.Since(dumpStart)))
	}

	// Phase 5: Emit
	emitStart := time.Now()
	if err := r.emit(c, cfg.PlotFilename); err != nil {
		return err
	}
	util.LogDebug(fmt.Sprintf("Phase 5 - Emit duration: %v", time.Since(emitStart)))

	return nil
}

func (r *Runner) loadStyle() (*style.Style, error) {
	if r.config.PlotStyle == "" {
		return style.Bundled()
	}
	s, err := style.Load(r.config.PlotStyle)
	if err != nil {
		return nil, fmt.Errorf("failed to load plot style: %w", err)
	}
	util.LogDebugf("Loaded plot style from %s", r.config.PlotStyle)
	return s, nil
}

func (r *Runner) dump(table *model.Table, times *util.TimeProvider) error {
	f, err := formatter.New(r.config.DumpTable, r.out)
	if err != nil {
		return err
	}
	data, err := formatter.FromTable(table, r.config.PlotType, times.Location())
	if err != nil {
		return err
	}
	return f.Format(data)
}
