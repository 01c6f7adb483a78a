package formatter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/penwyp/qbreakdown-plot/internal/core/constants"
	"github.com/penwyp/qbreakdown-plot/internal/core/model"
)

// Dump kinds accepted by --dump_table.
const (
	KindTable   = "table"
	KindCSV     = "csv"
	KindJSON    = "json"
	KindSummary = "summary"
)

// Kinds lists the supported dump kinds.
func Kinds() []string {
	return []string{KindTable, KindCSV, KindJSON, KindSummary}
}

// Formatter writes one metric of a pivoted table.
type Formatter interface {
	Format(data *MetricTable) error
}

// MetricTable is one metric of a pivoted table, ready to print.
type MetricTable struct {
	Metric   model.Metric
	Projects []string
	Times    []time.Time
	// Values[row][col] follows Times and Projects.
	Values   [][]float64
	Location *time.Location
}

// FromTable extracts metric m from table.
func FromTable(table *model.Table, m model.Metric, loc *time.Location) (*MetricTable, error) {
	if !table.HasMetric(m) {
		return nil, &model.ConfigurationError{
			Option: "plot_type",
			Value:  m,
			Reason: fmt.Sprintf("not available for %s input", table.Format()),
		}
	}
	if loc == nil {
		loc = time.Local
	}

	projects := make([]string, 0, len(table.Projects()))
	for _, p := range table.Projects() {
		if p != "" {
			projects = append(projects, p)
		}
	}

	values := make([][]float64, table.Len())
	for row := range values {
		values[row] = make([]float64, len(projects))
		for col, p := range projects {
			values[row][col] = table.Value(m, row, p)
		}
	}

	return &MetricTable{
		Metric:   m,
		Projects: projects,
		Times:    table.Times(),
		Values:   values,
		Location: loc,
	}, nil
}

func (t *MetricTable) timeLabel(row int) string {
	return t.Times[row].In(t.Location).Format(constants.TableTimeFormat)
}

// New returns the formatter for kind writing to w.
func New(kind string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(kind) {
	case KindTable:
		return NewTableFormatter(w), nil
	case KindCSV:
		return NewCSVFormatter(w), nil
	case KindJSON:
		return NewJSONFormatter(w), nil
	case KindSummary:
		return NewSummaryFormatter(w), nil
	}
	return nil, &model.ConfigurationError{
		Option: "dump_table",
		Value:  kind,
		Reason: fmt.Sprintf("must be one of %s", strings.Join(Kinds(), ", ")),
	}
}
