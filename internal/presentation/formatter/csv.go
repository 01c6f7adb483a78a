package formatter

import (
	"encoding/csv"
	"io"

	"github.com/penwyp/qbreakdown-plot/internal/core/model"
	"github.com/penwyp/qbreakdown-plot/internal/util"
)

type CSVFormatter struct {
	w io.Writer
}

func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{w: w}
}

func (f *CSVFormatter) Format(data *MetricTable) error {
	w := csv.NewWriter(f.w)

	headers := append([]string{model.TimeAxisLabel}, data.Projects...)
	if err := w.Write(headers); err != nil {
		return err
	}

	for row := range data.Times {
		record := make([]string, 0, len(data.Projects)+1)
		record = append(record, data.timeLabel(row))
		for _, v := range data.Values[row] {
			record = append(record, util.FormatValue(v))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
