package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/penwyp/qbreakdown-plot/internal/core/model"
	"github.com/penwyp/qbreakdown-plot/internal/util"
)

// Parser reads breakdown snapshot rows in one input format.
type Parser struct {
	format model.Format
	times  *util.TimeProvider
}

// column positions of a row layout
type layout struct {
	time    int
	project int
	metrics []model.Metric
	offsets []int
}

// NewParser creates a Parser. A nil time provider falls back to the
// global one.
func NewParser(format model.Format, times *util.TimeProvider) *Parser {
	if times == nil {
		times = util.GetTimeProvider()
	}
	return &Parser{
		format: format,
		times:  times,
	}
}

// Format returns the input format handled by the parser.
func (p *Parser) Format() model.Format {
	return p.format
}

func (p *Parser) layoutFor(fieldCount int) (layout, bool) {
	switch p.format {
	case model.FormatLegacy:
		if fieldCount == 4 {
			return layout{
				time:    3,
				project: 0,
				metrics: []model.Metric{model.MetricAllocNodes, model.MetricJobsQueued},
				offsets: []int{1, 2},
			}, true
		}
	default:
		switch fieldCount {
		case 6:
			return layout{
				time:    0,
				project: 1,
				metrics: model.AllMetrics(),
				offsets: []int{2, 3, 4, 5},
			}, true
		case 4:
			return layout{
				time:    0,
				project: 1,
				metrics: []model.Metric{model.MetricAllocNodes, model.MetricJobsQueued},
				offsets: []int{2, 3},
			}, true
		}
	}
	return layout{}, false
}

// ParseLine parses one line. Blank lines yield ok == false and no error.
func (p *Parser) ParseLine(lineNo int, line string) (rec model.Record, ok bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return model.Record{}, false, nil
	}

	l, found := p.layoutFor(len(fields))
	if !found {
		return model.Record{}, false, &model.ParseError{
			Line: lineNo,
			Text: strings.TrimSpace(line),
			Err:  fmt.Errorf("expected %s fields for %s format, got %d", p.expectedFields(), p.format, len(fields)),
		}
	}

	ts, err := p.times.Parse(fields[l.time])
	if err != nil {
		return model.Record{}, false, &model.ParseError{Line: lineNo, Field: "time", Text: fields[l.time], Err: err}
	}

	rec = model.Record{
		Line:    lineNo,
		Time:    ts,
		Project: fields[l.project],
		Values:  make(map[model.Metric]int, len(p.format.Metrics())),
	}
	for _, m := range p.format.Metrics() {
		rec.Values[m] = 0
	}
	for i, m := range l.metrics {
		raw := fields[l.offsets[i]]
		v, err := strconv.Atoi(raw)
		if err != nil {
			return model.Record{}, false, &model.ParseError{Line: lineNo, Field: m, Text: raw, Err: err}
		}
		rec.Values[m] = v
	}
	return rec, true, nil
}

func (p *Parser) expectedFields() string {
	if p.format == model.FormatLegacy {
		return "4"
	}
	return "6 or 4"
}

// Parse reads r to exhaustion and returns its records in file order.
func (p *Parser) Parse(r io.Reader) ([]model.Record, error) {
	var records []model.Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		rec, ok, err := p.ParseLine(lineNo, scanner.Text())
		if err != nil {
			util.LogDebugf("Rejecting line %d: %v", lineNo, err)
			return nil, err
		}
		if ok {
			records = append(records, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read breakdown data: %w", err)
	}

	util.LogDebugf("Parsed %d records from %d lines (%s format)", len(records), lineNo, p.format)
	return records, nil
}

// ParseFile parses the breakdown file at path.
func (p *Parser) ParseFile(path string) ([]model.Record, error) {
	util.LogDebug(fmt.Sprintf("Start parsing file: %s", path))

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open breakdown file: %w", err)
	}
	defer file.Close()

	records, err := p.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
