package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// legend layout
var (
	legendPadding   = vg.Points(8)
	legendMinWidth  = vg.Points(60)
	legendTitleSkip = vg.Points(4)
)

// Plot returns the gonum plot of the chart area, built on first use. The
// legend is not part of it; Draw places the legend outside the axes.
func (c *Chart) Plot() (*plot.Plot, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if c.plot != nil {
		return c.plot, nil
	}

	p := plot.New()
	fontSize := c.style.FontSize
	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = fontSize * 1.2
	p.X.Label.Text = c.XLabel
	p.X.Label.TextStyle.Font.Size = fontSize
	p.Y.Label.Text = c.YLabel
	p.Y.Label.TextStyle.Font.Size = fontSize
	p.X.Tick.Label.Font.Size = fontSize * 0.9
	p.Y.Tick.Label.Font.Size = fontSize * 0.9

	loc := c.Location
	p.X.Tick.Marker = plot.TimeTicks{
		Format: c.TimeFormat,
		Time: func(t float64) time.Time {
			return time.Unix(int64(t), 0).In(loc)
		},
	}
	if c.TickRotation != 0 {
		p.X.Tick.Label.Rotation = c.TickRotation * math.Pi / 180
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}

	for _, s := range c.Series {
		xys := make(plotter.XYs, len(s.Times))
		for i, t := range s.Times {
			xys[i].X = float64(t.Unix())
			xys[i].Y = s.Values[i]
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", s.Project, err)
		}
		line.LineStyle.Width = s.Width
		line.LineStyle.Color = s.Color
		p.Add(line)
		c.lines = append(c.lines, line)
	}

	for _, th := range c.Thresholds {
		limit := th.Limit
		fn := plotter.NewFunction(func(float64) float64 { return limit })
		fn.LineStyle.Width = c.style.LineWidth
		fn.LineStyle.Color = th.Color
		fn.LineStyle.Dashes = th.Dashes
		p.Add(fn)
		c.rules = append(c.rules, fn)
		// Functions carry no data range; keep the limit in view.
		p.Y.Min = math.Min(p.Y.Min, limit)
		p.Y.Max = math.Max(p.Y.Max, limit)
	}

	c.plot = p
	return p, nil
}

// legend builds the outside legend for the drawn series.
func (c *Chart) legend() (plot.Legend, text.Style, error) {
	leg := plot.NewLegend()
	leg.TextStyle.Font.Size = c.style.FontSize
	leg.Top = true
	leg.Left = true

	for _, s := range c.Series {
		thumb, err := plotter.NewLine(plotter.XYs{})
		if err != nil {
			return leg, text.Style{}, err
		}
		thumb.LineStyle.Width = s.Width
		thumb.LineStyle.Color = s.Color
		leg.Add(s.Project, thumb)
	}

	title := leg.TextStyle
	title.XAlign = draw.XLeft
	title.YAlign = draw.YTop
	return leg, title, nil
}

func (c *Chart) legendWidth(leg plot.Legend, title text.Style) vg.Length {
	width := title.Width(c.LegendTitle)
	for _, s := range c.Series {
		if w := leg.TextStyle.Width(s.Project) + leg.ThumbnailWidth + legendPadding; w > width {
			width = w
		}
	}
	width += 2 * legendPadding
	if width < legendMinWidth {
		width = legendMinWidth
	}
	return width
}

// Draw draws the chart, with its legend to the right of the axes, onto dc.
func (c *Chart) Draw(dc draw.Canvas) error {
	p, err := c.Plot()
	if err != nil {
		return err
	}
	leg, title, err := c.legend()
	if err != nil {
		return err
	}

	dc.SetColor(color.White)
	dc.Fill(dc.Rectangle.Path())

	width := c.legendWidth(leg, title)
	total := dc.Max.X - dc.Min.X
	if width > total/2 {
		width = total / 2
	}

	plotArea := draw.Crop(dc, 0, -width, 0, 0)
	legendArea := draw.Crop(dc, total-width+legendPadding, -legendPadding, legendPadding, -legendPadding)

	p.Draw(plotArea)

	legendArea.FillText(title, vg.Point{X: legendArea.Min.X, Y: legendArea.Max.Y}, c.LegendTitle)
	titleHeight := title.Height(c.LegendTitle) + legendTitleSkip
	leg.Draw(draw.Crop(legendArea, 0, 0, 0, -titleHeight))
	return nil
}

// Raster formats honor the style DPI; the others go through gonum's
// formatted canvases.
func (c *Chart) canvas(format string) (vg.CanvasWriterTo, error) {
	w, h := c.style.Width, c.style.Height
	switch format {
	case "png", "jpg", "jpeg", "tif", "tiff":
		img := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(c.style.DPI))
		switch format {
		case "png":
			return vgimg.PngCanvas{Canvas: img}, nil
		case "jpg", "jpeg":
			return vgimg.JpegCanvas{Canvas: img}, nil
		default:
			return vgimg.TiffCanvas{Canvas: img}, nil
		}
	default:
		return draw.NewFormattedCanvas(w, h, format)
	}
}

// WriteTo renders the chart in the given image format ("png", "svg", ...)
// to w.
func (c *Chart) WriteTo(w io.Writer, format string) (int64, error) {
	if c.closed {
		return 0, ErrClosed
	}
	cw, err := c.canvas(format)
	if err != nil {
		return 0, err
	}
	if err := c.Draw(draw.New(cw)); err != nil {
		return 0, err
	}
	return cw.WriteTo(w)
}
