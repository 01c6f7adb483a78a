package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Sample is one breakdown snapshot row used to build test files.
type Sample struct {
	Time            time.Time
	Project         string
	AllocNodes      int
	JobsQueued      int
	WaitingJobs     int
	WaitingJobNodes int
}

const timeLayout = "2006-01-02T15:04:05"

// Line renders s in the named format ("extended" or "legacy").
func (s Sample) Line(format string) string {
	ts := s.Time.Format(timeLayout)
	if format == "legacy" {
		return fmt.Sprintf("%s %d %d %s", s.Project, s.AllocNodes, s.JobsQueued, ts)
	}
	return fmt.Sprintf("%s %s %d %d %d %d", ts, s.Project, s.AllocNodes, s.JobsQueued, s.WaitingJobs, s.WaitingJobNodes)
}

// Render joins the samples into file content, one line each.
func Render(format string, samples []Sample) string {
	var b strings.Builder
	for _, s := range samples {
		b.WriteString(s.Line(format))
		b.WriteByte('\n')
	}
	return b.String()
}

// TestDataGenerator writes breakdown files below a base directory
type TestDataGenerator struct {
	baseDir string
}

// NewTestDataGenerator creates a new test data generator
func NewTestDataGenerator(baseDir string) *TestDataGenerator {
	return &TestDataGenerator{
		baseDir: baseDir,
	}
}

// WriteRaw writes content verbatim and returns the file path.
func (g *TestDataGenerator) WriteRaw(name, content string) (string, error) {
	if err := os.MkdirAll(g.baseDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(g.baseDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// WriteSamples writes samples in the given format and returns the file path.
func (g *TestDataGenerator) WriteSamples(name, format string, samples []Sample) (string, error) {
	return g.WriteRaw(name, Render(format, samples))
}

// GenerateCluster produces steps snapshots spaced by interval for every
// project. Values are deterministic: project i at step j allocates
// (i+1)*(j+1) nodes and queues i+j jobs.
func GenerateCluster(projects []string, start time.Time, steps int, interval time.Duration) []Sample {
	samples := make([]Sample, 0, len(projects)*steps)
	for j := 0; j < steps; j++ {
		ts := start.Add(time.Duration(j) * interval)
		for i, p := range projects {
			samples = append(samples, Sample{
				Time:            ts,
				Project:         p,
				AllocNodes:      (i + 1) * (j + 1),
				JobsQueued:      i + j,
				WaitingJobs:     j,
				WaitingJobNodes: 2 * j,
			})
		}
	}
	return samples
}

// ScenarioInput is a small extended-format file with two projects where
// B is missing from the first snapshot.
const ScenarioInput = "2024-01-01T00:00 A 5 2 0 0\n2024-01-01T01:00 A 7 2 1 3\n2024-01-01T01:00 B 3 0 0 0\n"
