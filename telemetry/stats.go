package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RunSummary holds distribution statistics of one attempt.
type RunSummary struct {
	Frames int

	MeanDT float64
	StdDT  float64
	P95DT  float64
	MaxDT  float64

	MeanSpeed float64
	StdSpeed  float64
	P50Speed  float64
	MaxSpeed  float64
}

// Summarize computes frame time and speed statistics. dts and speeds are
// per-frame samples and are not modified.
func Summarize(dts, speeds []float64) RunSummary {
	s := RunSummary{Frames: len(dts)}
	if len(dts) > 0 {
		sorted := sortedCopy(dts)
		s.MeanDT, s.StdDT = stat.MeanStdDev(sorted, nil)
		s.P95DT = stat.Quantile(0.95, stat.Empirical, sorted, nil)
		s.MaxDT = floats.Max(sorted)
	}
	if len(speeds) > 0 {
		sorted := sortedCopy(speeds)
		s.MeanSpeed, s.StdSpeed = stat.MeanStdDev(sorted, nil)
		s.P50Speed = stat.Quantile(0.5, stat.Empirical, sorted, nil)
		s.MaxSpeed = floats.Max(sorted)
	}
	// MeanStdDev reports NaN for a single sample.
	if len(dts) == 1 {
		s.StdDT = 0
	}
	if len(speeds) == 1 {
		s.StdSpeed = 0
	}
	return s
}

func sortedCopy(x []float64) []float64 {
	out := append([]float64(nil), x...)
	sort.Float64s(out)
	return out
}

// LogValue implements slog.LogValuer for structured logging.
func (s RunSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frames", s.Frames),
		slog.Float64("mean_dt_ms", s.MeanDT*1000),
		slog.Float64("p95_dt_ms", s.P95DT*1000),
		slog.Float64("max_dt_ms", s.MaxDT*1000),
		slog.Float64("mean_speed", s.MeanSpeed),
		slog.Float64("max_speed", s.MaxSpeed),
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (r RunRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("attempt", r.Attempt),
		slog.String("level", r.Level),
		slog.String("outcome", r.Outcome),
		slog.Int("ticks", r.Ticks),
		slog.Float64("seconds", r.Seconds),
		slog.Int("jumps", r.Jumps),
		slog.Int("double_jumps", r.DoubleJumps),
		slog.Int("slides", r.Slides),
		slog.Int("teleports", r.Teleports),
		slog.Float64("max_speed", r.MaxSpeed),
	)
}
