package display

import (
	"fmt"
	"math"
	"os"
	"strings"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	"github.com/penwyp/qbreakdown-plot/internal/core/model"
	"github.com/penwyp/qbreakdown-plot/internal/presentation/chart"
	"github.com/penwyp/qbreakdown-plot/internal/util"
	"golang.org/x/term"
)

// termColor pairs a termui color with its markup name.
type termColor struct {
	color ui.Color
	name  string
}

// The terminal cannot show the chart's RGB palette, so series cycle
// through the basic ANSI colors in the same order.
var termPalette = []termColor{
	{ui.ColorBlue, "blue"},
	{ui.ColorYellow, "yellow"},
	{ui.ColorGreen, "green"},
	{ui.ColorRed, "red"},
	{ui.ColorMagenta, "magenta"},
	{ui.ColorCyan, "cyan"},
}

// neutral thresholds are drawn white; black would vanish on dark terminals
var termNeutral = termColor{ui.ColorWhite, "white"}

const legendPanelWidth = 28

// terminalView is the chart flattened into termui widget inputs.
type terminalView struct {
	title      string
	data       [][]float64
	colors     []ui.Color
	maxVal     float64
	legend     string
	footer     string
	hasSamples bool
}

func termColorFor(index int) termColor {
	return termPalette[index%len(termPalette)]
}

// buildTerminalView converts a chart into plot rows. Threshold lines
// become constant rows after the project rows.
func buildTerminalView(c *chart.Chart) terminalView {
	v := terminalView{title: c.Title}

	points := 0
	if len(c.Series) > 0 {
		points = len(c.Series[0].Values)
	}
	v.hasSamples = points > 0

	// termui line charts need two points per row
	width := points
	if width < 2 {
		width = 2
	}
	pad := func(values []float64) []float64 {
		row := make([]float64, width)
		copy(row, values)
		for i := len(values); i < width && len(values) > 0; i++ {
			row[i] = values[len(values)-1]
		}
		return row
	}

	var legend strings.Builder
	fmt.Fprintf(&legend, "%s [%s]\n", c.LegendTitle, strings.ToLower(c.YLabel))
	for _, s := range c.Series {
		tc := termColorFor(s.ColorIndex)
		v.data = append(v.data, pad(s.Values))
		v.colors = append(v.colors, tc.color)

		name := util.TruncateDisplay(s.Project, legendPanelWidth-6)
		mods := "fg:" + tc.name
		if s.Highlighted {
			mods += ",mod:bold"
			name += " *"
		}
		fmt.Fprintf(&legend, "[── %s](%s)\n", name, mods)
	}

	for _, th := range c.Thresholds {
		tc := termNeutral
		if th.Series >= 0 {
			tc = termColorFor(c.Series[th.Series].ColorIndex)
		}
		row := make([]float64, width)
		for i := range row {
			row[i] = th.Limit
		}
		v.data = append(v.data, row)
		v.colors = append(v.colors, tc.color)
		fmt.Fprintf(&legend, "[-- %s %s](fg:%s)\n", util.TruncateDisplay(th.Project, legendPanelWidth-12), util.FormatValue(th.Limit), tc.name)
	}
	v.legend = legend.String()

	for _, row := range v.data {
		for _, val := range row {
			v.maxVal = math.Max(v.maxVal, val)
		}
	}
	if v.maxVal <= 0 {
		v.maxVal = 1
	}

	if first, last, ok := c.TimeRange(); ok {
		v.footer = fmt.Sprintf("%s: %s → %s (%d samples)   q: quit",
			c.XLabel,
			first.In(c.Location).Format(c.TimeFormat),
			last.In(c.Location).Format(c.TimeFormat),
			points)
	} else {
		v.footer = "No samples   q: quit"
	}
	return v
}

// IsInteractive reports whether stdout is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Show displays the chart in the terminal and blocks until the user
// dismisses it. The chart is closed afterwards.
func Show(c *chart.Chart) error {
	if !IsInteractive() {
		return &model.ConfigurationError{
			Option: "plot_filename",
			Reason: "no terminal available for interactive display; pass a file name to save the chart",
		}
	}
	defer c.Close()

	view := buildTerminalView(c)

	if err := ui.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal display: %w", err)
	}
	defer ui.Close()

	plot := widgets.NewPlot()
	plot.Title = " " + view.title + " "
	plot.Marker = widgets.MarkerBraille
	plot.AxesColor = ui.ColorWhite
	plot.Data = view.data
	plot.LineColors = view.colors
	plot.MaxVal = view.maxVal

	empty := widgets.NewParagraph()
	empty.Title = " " + view.title + " "
	empty.Text = "No breakdown samples to plot."

	legend := widgets.NewParagraph()
	legend.Title = " " + c.LegendTitle + " "
	legend.Text = view.legend

	footer := widgets.NewParagraph()
	footer.Border = false
	footer.Text = view.footer

	layout := func(width, height int) {
		left := width - legendPanelWidth
		if left < width/2 {
			left = width / 2
		}
		plot.SetRect(0, 0, left, height-1)
		empty.SetRect(0, 0, left, height-1)
		legend.SetRect(left, 0, width, height-1)
		footer.SetRect(0, height-1, width, height)
	}
	render := func() {
		if len(view.data) > 0 && view.hasSamples {
			ui.Render(plot, legend, footer)
		} else {
			ui.Render(empty, legend, footer)
		}
	}

	layout(ui.TerminalDimensions())
	render()

	util.LogDebug("Interactive display started")
	for e := range ui.PollEvents() {
		switch e.ID {
		case "q", "<Escape>", "<C-c>":
			util.LogDebug("Interactive display dismissed")
			return nil
		case "<Resize>":
			payload := e.Payload.(ui.Resize)
			layout(payload.Width, payload.Height)
			ui.Clear()
			render()
		}
	}
	return nil
}
