package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/qbreakdown-plot/internal/core/model"
	"github.com/penwyp/qbreakdown-plot/internal/util"
)

// minColumnWidth keeps narrow project columns readable.
const minColumnWidth = 6

type TableFormatter struct {
	w io.Writer
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{w: w}
}

func (f *TableFormatter) Format(data *MetricTable) error {
	headers := append([]string{model.TimeAxisLabel}, data.Projects...)

	rows := make([][]string, len(data.Times))
	for row := range data.Times {
		cells := make([]string, 0, len(headers))
		cells = append(cells, data.timeLabel(row))
		for _, v := range data.Values[row] {
			cells = append(cells, util.FormatValue(v))
		}
		rows[row] = cells
	}

	widths := f.calculateColumnWidths(headers, rows)

	var b strings.Builder
	f.printBorder(&b, widths, "top")
	f.printRow(&b, headers, widths)
	f.printBorder(&b, widths, "middle")
	for _, cells := range rows {
		f.printRow(&b, cells, widths)
	}
	f.printBorder(&b, widths, "bottom")

	_, err := io.WriteString(f.w, b.String())
	return err
}

// calculateColumnWidths measures every cell in terminal cells.
func (f *TableFormatter) calculateColumnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = max(util.GetDisplayWidth(h), minColumnWidth)
	}
	for _, cells := range rows {
		for i, c := range cells {
			widths[i] = max(widths[i], util.GetDisplayWidth(c))
		}
	}
	return widths
}

// printBorder writes table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(b *strings.Builder, widths []int, borderType string) {
	var left, middle, right string

	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	b.WriteString("\n")
}

// printRow writes one row. The time column is left-aligned, values right-aligned.
func (f *TableFormatter) printRow(b *strings.Builder, values []string, widths []int) {
	b.WriteString("│")
	for i, value := range values {
		fmt.Fprintf(b, " %s │", util.PadDisplay(value, widths[i], i == 0))
	}
	b.WriteString("\n")
}
