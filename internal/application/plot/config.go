package plot

import (
	"fmt"
	"strings"

	"github.com/penwyp/qbreakdown-plot/internal/core/model"
	"github.com/penwyp/qbreakdown-plot/internal/presentation/display"
	"github.com/penwyp/qbreakdown-plot/internal/presentation/formatter"
	"github.com/penwyp/qbreakdown-plot/internal/util"
)

// Config contains configuration for one plot run
type Config struct {
	// Input
	InputPath   string
	InputFormat string

	// What to draw
	PlotType   string
	Highlights []string
	HLines     []string

	// Output
	PlotFilename string
	PlotStyle    string
	DumpTable    string

	// Display settings
	Timezone string

	// Filled by Validate
	format     model.Format
	thresholds []model.Threshold
}

// Validate applies defaults and checks every option before any data is read
func (c *Config) Validate() error {
	if c.InputFormat == "" {
		c.InputFormat = string(model.FormatExtended)
	}
	if c.PlotType == "" {
		c.PlotType = model.MetricAllocNodes
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}

	if c.InputPath == "" {
		return &model.ConfigurationError{Option: "qbreakdown_file", Reason: "an input file is required"}
	}

	format, err := model.ParseFormat(c.InputFormat)
	if err != nil {
		return err
	}
	c.format = format

	if _, ok := model.Describe(c.PlotType); !ok {
		return &model.ConfigurationError{
			Option: "plot_type",
			Value:  c.PlotType,
			Reason: fmt.Sprintf("must be one of %s", strings.Join(model.AllMetrics(), ", ")),
		}
	}
	if !format.Supports(c.PlotType) {
		return &model.ConfigurationError{
			Option: "plot_type",
			Value:  c.PlotType,
			Reason: fmt.Sprintf("not available for %s input (choose from %s)", format, strings.Join(format.Metrics(), ", ")),
		}
	}

	thresholds, err := model.ParseThresholds(c.HLines)
	if err != nil {
		return err
	}
	c.thresholds = thresholds

	if c.PlotFilename != "" {
		if _, err := display.ImageFormat(c.PlotFilename); err != nil {
			return err
		}
	}

	if c.DumpTable != "" {
		if _, err := formatter.New(c.DumpTable, nil); err != nil {
			return err
		}
	}

	if _, err := util.NewTimeProvider(c.Timezone); err != nil {
		return &model.ConfigurationError{Option: "timezone", Value: c.Timezone, Reason: "unknown time zone", Err: err}
	}
	return nil
}

// Format returns the validated input format.
func (c *Config) Format() model.Format {
	return c.format
}

// Thresholds returns the parsed --hline values.
func (c *Config) Thresholds() []model.Threshold {
	return c.thresholds
}
