package formatter

import (
	"io"

	"github.com/bytedance/sonic"
)

type JSONFormatter struct {
	w io.Writer
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{w: w}
}

type jsonRow struct {
	Time   string             `json:"time"`
	Values map[string]float64 `json:"values"`
}

type jsonTable struct {
	Metric   string    `json:"metric"`
	Projects []string  `json:"projects"`
	Rows     []jsonRow `json:"rows"`
}

func (f *JSONFormatter) Format(data *MetricTable) error {
	out := jsonTable{
		Metric:   data.Metric,
		Projects: data.Projects,
		Rows:     make([]jsonRow, len(data.Times)),
	}
	if out.Projects == nil {
		out.Projects = []string{}
	}
	for row := range data.Times {
		values := make(map[string]float64, len(data.Projects))
		for col, p := range data.Projects {
			values[p] = data.Values[row][col]
		}
		out.Rows[row] = jsonRow{Time: data.timeLabel(row), Values: values}
	}

	// ConfigStd sorts map keys so project order is stable.
	encoder := sonic.ConfigStd.NewEncoder(f.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
