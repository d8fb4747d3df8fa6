package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/subterra/config"
)

func TestNilOutputManager(t *testing.T) {
	om, err := NewOutputManager("", true)
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}
	if err := om.WriteRun(RunRecord{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("nil manager has no dir")
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	om, err := NewOutputManager(dir, true)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 3; i++ {
		if err := om.WriteFrame(FrameRecord{Attempt: 1, Tick: i, DT: 0.5}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteRun(RunRecord{Attempt: 1, Level: "demo", Outcome: OutcomeFinish, Ticks: 3}); err != nil {
		t.Fatal(err)
	}
	if err := om.WritePerf(PerfStats{AvgTickDuration: time.Millisecond}, 60); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	trace := readLines(t, filepath.Join(dir, "trace.csv"))
	if len(trace) != 4 || !strings.HasPrefix(trace[0], "attempt,tick,dt,") {
		t.Errorf("trace.csv = %q", trace)
	}
	runs := readLines(t, filepath.Join(dir, "runs.csv"))
	if len(runs) != 2 || !strings.Contains(runs[1], "demo,finish,3") {
		t.Errorf("runs.csv = %q", runs)
	}
	perf := readLines(t, filepath.Join(dir, "perf.csv"))
	if len(perf) != 2 || !strings.HasPrefix(perf[1], "60,1000,") {
		t.Errorf("perf.csv = %q", perf)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml: %v", err)
	}
}

func TestTraceDisabled(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()
	if err := om.WriteFrame(FrameRecord{Tick: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "trace.csv")); !os.IsNotExist(err) {
		t.Errorf("trace.csv should not exist: %v", err)
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}
