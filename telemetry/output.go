package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/subterra/config"
)

// OutputManager writes run output as CSV files in one directory.
type OutputManager struct {
	dir       string
	traceFile *os.File
	perfFile  *os.File
	runsFile  *os.File

	// Track if headers have been written
	traceHeaderWritten bool
	perfHeaderWritten  bool
	runsHeaderWritten  bool
}

// NewOutputManager creates the output directory and its files.
// Returns nil if dir is empty (output disabled); every method is a no-op on
// a nil manager. trace.csv is only created when trace is set.
func NewOutputManager(dir string, trace bool) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.perfFile, err = os.Create(filepath.Join(dir, "perf.csv")); err != nil {
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	if om.runsFile, err = os.Create(filepath.Join(dir, "runs.csv")); err != nil {
		om.Close()
		return nil, fmt.Errorf("creating runs.csv: %w", err)
	}
	if trace {
		if om.traceFile, err = os.Create(filepath.Join(dir, "trace.csv")); err != nil {
			om.Close()
			return nil, fmt.Errorf("creating trace.csv: %w", err)
		}
	}
	return om, nil
}

// WriteConfig saves the configuration in effect as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteFrame writes a row to trace.csv, if tracing is enabled.
func (om *OutputManager) WriteFrame(r FrameRecord) error {
	if om == nil || om.traceFile == nil {
		return nil
	}
	if err := writeRow(om.traceFile, []FrameRecord{r}, &om.traceHeaderWritten); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int) error {
	if om == nil {
		return nil
	}
	if err := writeRow(om.perfFile, []PerfStatsCSV{stats.ToCSV(windowEnd)}, &om.perfHeaderWritten); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteRun writes an attempt summary to runs.csv.
func (om *OutputManager) WriteRun(r RunRecord) error {
	if om == nil {
		return nil
	}
	if err := writeRow(om.runsFile, []RunRecord{r}, &om.runsHeaderWritten); err != nil {
		return fmt.Errorf("writing run: %w", err)
	}
	return nil
}

// writeRow writes records with a header on the first call only.
func writeRow[T any](w io.Writer, records []T, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, w); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, w)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, f := range []*os.File{om.traceFile, om.perfFile, om.runsFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
