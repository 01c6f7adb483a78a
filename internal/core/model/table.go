package model

import "time"

// Table is the pivoted form of a breakdown file: one row per distinct
// timestamp and, for every metric of the format, one column per project.
// Every cell is populated; absent samples read as zero.
type Table struct {
	format   Format
	times    []time.Time
	projects []string
	index    map[string]int
	// values[metric][row][project]
	values map[Metric][][]float64
}

// NewTable allocates a zero-filled table. times and projects must already
// be sorted and free of duplicates.
func NewTable(format Format, times []time.Time, projects []string) *Table {
	t := &Table{
		format:   format,
		times:    times,
		projects: projects,
		index:    make(map[string]int, len(projects)),
		values:   make(map[Metric][][]float64),
	}
	for i, p := range projects {
		t.index[p] = i
	}
	for _, m := range format.Metrics() {
		rows := make([][]float64, len(times))
		for i := range rows {
			rows[i] = make([]float64, len(projects))
		}
		t.values[m] = rows
	}
	return t
}

// Format returns the input format the table was built from.
func (t *Table) Format() Format {
	return t.format
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.times)
}

// Times returns the row timestamps in increasing order.
func (t *Table) Times() []time.Time {
	return t.times
}

// Projects returns the project column names in lexicographic order.
func (t *Table) Projects() []string {
	return t.projects
}

// Metrics returns the metric column groups of the table.
func (t *Table) Metrics() []Metric {
	return t.format.Metrics()
}

// HasMetric reports whether m is a column group of the table.
func (t *Table) HasMetric(m Metric) bool {
	_, ok := t.values[m]
	return ok
}

// HasProject reports whether project has a column.
func (t *Table) HasProject(project string) bool {
	_, ok := t.index[project]
	return ok
}

// Value returns the cell for metric m at row for project. Unknown
// metrics or projects read as zero.
func (t *Table) Value(m Metric, row int, project string) float64 {
	rows, ok := t.values[m]
	if !ok || row < 0 || row >= len(rows) {
		return 0
	}
	col, ok := t.index[project]
	if !ok {
		return 0
	}
	return rows[row][col]
}

// Series returns the column of metric m for project, one value per row.
func (t *Table) Series(m Metric, project string) []float64 {
	series := make([]float64, len(t.times))
	rows, ok := t.values[m]
	col, found := t.index[project]
	if !ok || !found {
		return series
	}
	for i := range rows {
		series[i] = rows[i][col]
	}
	return series
}

// Set stores a cell. It is used while building the table.
func (t *Table) Set(m Metric, row, col int, v float64) {
	if rows, ok := t.values[m]; ok {
		rows[row][col] = v
	}
}
