package aggregator

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/penwyp/qbreakdown-plot/internal/core/model"
	"github.com/penwyp/qbreakdown-plot/internal/data/parser"
	"github.com/penwyp/qbreakdown-plot/internal/util"
)

// Aggregator pivots breakdown records into a per-project wide table.
type Aggregator struct {
	format model.Format
}

// timeKey identifies an instant independent of location for any year.
type timeKey struct {
	sec  int64
	nsec int
}

func keyOf(t time.Time) timeKey {
	return timeKey{sec: t.Unix(), nsec: t.Nanosecond()}
}

// NewAggregator creates an Aggregator for records of the given format.
func NewAggregator(format model.Format) *Aggregator {
	return &Aggregator{format: format}
}

// Pivot builds the dense table in two passes. The first pass collects the
// distinct timestamps and projects, the second fills a zero-initialised
// table. Duplicate (timestamp, project) samples are averaged. Records
// with an empty project name add no column but still add their row.
func (a *Aggregator) Pivot(records []model.Record) *model.Table {
	// Pass 1: distinct keys
	timeSet := make(map[timeKey]time.Time)
	projectSet := make(map[string]struct{})
	for _, rec := range records {
		key := keyOf(rec.Time)
		if _, ok := timeSet[key]; !ok {
			timeSet[key] = rec.Time
		}
		if rec.Project == "" {
			continue
		}
		projectSet[rec.Project] = struct{}{}
	}

	times := make([]time.Time, 0, len(timeSet))
	for _, t := range timeSet {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool {
		return times[i].Before(times[j])
	})

	projects := make([]string, 0, len(projectSet))
	for p := range projectSet {
		projects = append(projects, p)
	}
	sort.Strings(projects)

	table := model.NewTable(a.format, times, projects)
	if len(times) == 0 {
		return table
	}

	rowIndex := make(map[timeKey]int, len(times))
	for i, t := range times {
		rowIndex[keyOf(t)] = i
	}
	colIndex := make(map[string]int, len(projects))
	for i, p := range projects {
		colIndex[p] = i
	}

	// Pass 2: accumulate and fill
	type cell struct{ row, col int }
	sums := make(map[model.Metric]map[cell]float64, len(a.format.Metrics()))
	for _, m := range a.format.Metrics() {
		sums[m] = make(map[cell]float64)
	}
	counts := make(map[cell]int)
	duplicates := 0

	for _, rec := range records {
		if rec.Project == "" {
			continue
		}
		c := cell{row: rowIndex[keyOf(rec.Time)], col: colIndex[rec.Project]}
		counts[c]++
		if counts[c] == 2 {
			duplicates++
		}
		for _, m := range a.format.Metrics() {
			sums[m][c] += float64(rec.Values[m])
		}
	}

	for _, m := range a.format.Metrics() {
		for c, sum := range sums[m] {
			table.Set(m, c.row, c.col, sum/float64(counts[c]))
		}
	}

	if duplicates > 0 {
		util.LogWarnf("Averaged %d duplicate (timestamp, project) samples", duplicates)
	}
	util.LogDebugf("Pivoted %d records into %d rows x %d projects", len(records), len(times), len(projects))
	return table
}

// Load parses r with p and pivots the result.
func Load(p *parser.Parser, r io.Reader) (*model.Table, error) {
	records, err := p.Parse(r)
	if err != nil {
		return nil, err
	}
	return NewAggregator(p.Format()).Pivot(records), nil
}

// LoadFile parses the file at path with p and pivots the result.
func LoadFile(p *parser.Parser, path string) (*model.Table, error) {
	records, err := p.ParseFile(path)
	if err != nil {
		return nil, err
	}
	table := NewAggregator(p.Format()).Pivot(records)
	if table.Len() == 0 {
		util.LogWarn(fmt.Sprintf("No breakdown samples found in %s", path))
	}
	return table, nil
}
