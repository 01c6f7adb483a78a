package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/penwyp/qbreakdown-plot/internal/application/plot"
	"github.com/penwyp/qbreakdown-plot/internal/core/model"
	"github.com/penwyp/qbreakdown-plot/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix namespaces the environment defaults, e.g. QBREAKDOWN_TIMEZONE.
const envPrefix = "QBREAKDOWN"

// Flags whose defaults may come from the environment.
var envBoundFlags = []string{"plot_style", "input_format", "timezone"}

type rootOptions struct {
	// Logging related
	debug     bool
	logFile   string
	logFormat string

	// Input
	inputFormat string

	// What to draw
	plotType   string
	highlights []string
	hlines     []string

	// Output related
	plotFilename string
	plotStyle    string
	dumpTable    string
	timezone     string
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "qbreakdown-plot <qbreakdown_file> [flags]",
		Short: "Plot per-project queue breakdowns over time",
		Long: `qbreakdown-plot reads a qbreakdown file, a log of periodic per-project
snapshots of a cluster's job queue, and draws one metric as a line per project.

Each line of the file is one snapshot:
  extended: <time> <project> <alloc_nodes> <jobs_queued> <waiting_jobs> <waiting_job_nodes>
  legacy:   <project> <alloc_nodes> <jobs_queued> <time>

Without --plot_filename the chart is shown in the terminal; press q to quit.

Examples:
  qbreakdown-plot qbreakdown.txt                                    # Show allocated nodes
  qbreakdown-plot qbreakdown.txt --plot_type waiting_jobs           # Show waiting jobs
  qbreakdown-plot qbreakdown.txt --highlight_project chem           # Bold line for one project
  qbreakdown-plot qbreakdown.txt --hline chem,64 --hline phys,32    # Draw project limits
  qbreakdown-plot old.txt --input_format legacy --plot_filename out.png
  qbreakdown-plot qbreakdown.txt --dump_table csv --plot_filename out.svg`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(opts, v, args[0])
		},
	}

	flags := cmd.Flags()

	// Input data configuration
	flags.StringVar(&opts.inputFormat, "input_format", string(model.FormatExtended),
		"Input file format (extended, legacy)")
	flags.StringVar(&opts.timezone, "timezone", "Local",
		"Timezone for timestamps without offset and tick labels (e.g., Europe/Oslo, UTC)")

	// Chart content
	flags.StringVar(&opts.plotType, "plot_type", model.MetricAllocNodes,
		"Metric to plot ("+strings.Join(model.AllMetrics(), ", ")+")")
	flags.StringArrayVar(&opts.highlights, "highlight_project", nil,
		"Draw this project's line bold (repeatable)")
	flags.StringArrayVar(&opts.hlines, "hline", nil,
		"Draw a dashed limit line, given as <project>,<limit> (repeatable)")

	// Output configuration
	flags.StringVar(&opts.plotFilename, "plot_filename", "",
		"Save the chart to this file (png, jpg, tiff, svg, pdf, eps) instead of showing it")
	flags.StringVar(&opts.plotStyle, "plot_style", "",
		"Style sheet (.mplstyle, yaml, json or toml); defaults to the bundled style")
	flags.StringVar(&opts.dumpTable, "dump_table", "",
		"Also print the pivoted table (table, csv, json, summary)")

	// System and debugging
	flags.BoolVar(&opts.debug, "debug", false,
		"Enable debug logging to stderr")
	flags.StringVar(&opts.logFile, "log_file", "",
		"Write log entries to this file")
	flags.StringVar(&opts.logFormat, "log_format", string(util.FormatText),
		"Log entry format (text, json)")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	for _, name := range envBoundFlags {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}

	return cmd
}

func runPlot(opts *rootOptions, v *viper.Viper, input string) error {
	// Determine log level based on debug flag
	logLevel := "info"
	if opts.debug {
		logLevel = "debug"
	}

	logFormat, err := util.ParseLogFormat(opts.logFormat)
	if err != nil {
		return &model.ConfigurationError{Option: "log_format", Value: opts.logFormat, Reason: "must be text or json", Err: err}
	}

	logFile := opts.logFile
	if logFile != "" {
		logFile = expandPath(logFile)
		if err := ensureDir(filepath.Dir(logFile)); err != nil {
			return err
		}
	}
	if err := util.InitLogger(logLevel, logFile, logFormat, opts.debug); err != nil {
		return err
	}
	defer util.CloseLogger()

	config := &plot.Config{
		InputPath:    input,
		InputFormat:  v.GetString("input_format"),
		PlotType:     opts.plotType,
		Highlights:   opts.highlights,
		HLines:       opts.hlines,
		PlotFilename: opts.plotFilename,
		PlotStyle:    v.GetString("plot_style"),
		DumpTable:    opts.dumpTable,
		Timezone:     v.GetString("timezone"),
	}
	if config.PlotFilename != "" {
		config.PlotFilename = expandPath(config.PlotFilename)
	}
	if config.PlotStyle != "" {
		config.PlotStyle = expandPath(config.PlotStyle)
	}

	util.LogDebug("Starting qbreakdown-plot",
		util.Field{Key: "input", Value: input},
		util.Field{Key: "format", Value: config.InputFormat},
		util.Field{Key: "plot_type", Value: config.PlotType},
		util.Field{Key: "timezone", Value: config.Timezone})

	runner, err := plot.New(config)
	if err == nil {
		err = runner.Run()
	}
	if err != nil {
		util.LogError("Plot failed", util.Field{Key: "error", Value: err.Error()})
	}
	return err
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
