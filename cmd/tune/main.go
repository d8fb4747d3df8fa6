// Package main fits the jump physics to target apex heights, airtime and
// reach with Nelder-Mead, and writes the best config found.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/subterra/config"
)

// EvalRecord is one row of tune_log.csv.
type EvalRecord struct {
	Eval              int     `csv:"eval"`
	Loss              float64 `csv:"loss"`
	JumpImpulse       float64 `csv:"jump_impulse"`
	DoubleJumpImpulse float64 `csv:"double_jump_impulse"`
	Gravity           float64 `csv:"gravity"`
	MoveSpeed         float64 `csv:"move_speed"`
	Metrics
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	apex := flag.Float64("apex", 160, "Target single jump height in pixels (0 = ignore)")
	doubleApex := flag.Float64("double-apex", 250, "Target double jump height in pixels (0 = ignore)")
	airtime := flag.Float64("airtime", 0.8, "Target single jump airtime in seconds (0 = ignore)")
	distance := flag.Float64("distance", 110, "Target running jump reach in pixels (0 = ignore)")
	maxEvals := flag.Int("max-evals", 400, "Maximum number of evaluations")
	outputDir := flag.String("output", "", "Output directory for the log and best config (empty = print only)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()
	targets := Targets{Apex: *apex, DoubleApex: *doubleApex, Airtime: *airtime, Distance: *distance}
	evaluator := NewFitnessEvaluator(params, baseCfg, targets)

	start := params.FromConfig(baseCfg)
	startLoss, startMetrics := evaluator.Evaluate(start)
	slog.Info("starting point", "loss", startLoss, "metrics", fmt.Sprintf("%+v", startMetrics))

	var (
		records   []EvalRecord
		bestLoss  = startLoss
		bestRaw   = start
		startTime = time.Now()
	)
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			loss, m := evaluator.Evaluate(raw)
			records = append(records, EvalRecord{
				Eval:              len(records) + 1,
				Loss:              loss,
				JumpImpulse:       raw[0],
				DoubleJumpImpulse: raw[1],
				Gravity:           raw[2],
				MoveSpeed:         raw[3],
				Metrics:           m,
			})
			if loss < bestLoss {
				bestLoss = loss
				bestRaw = raw
			}
			return loss
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-9,
			Iterations: 50,
		},
	}
	method := &optimize.NelderMead{InitialSize: 0.2}

	slog.Info("starting Nelder-Mead", "params", params.Dim(), "max_evals", *maxEvals)
	if _, err := optimize.Minimize(problem, params.Normalize(start), settings, method); err != nil {
		slog.Warn("optimization ended", "error", err)
	}

	_, best := evaluator.Evaluate(bestRaw)
	slog.Info("optimization complete",
		"evals", len(records),
		"elapsed", time.Since(startTime).Round(time.Millisecond).String(),
		"loss", bestLoss,
		"metrics", fmt.Sprintf("%+v", best),
	)

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to reload config", "error", err)
		os.Exit(1)
	}
	params.ApplyToConfig(bestCfg, bestRaw)

	fmt.Println("physics:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.1f\n", strings.TrimPrefix(spec.Path, "physics."), bestRaw[i])
	}

	if *outputDir == "" {
		return
	}
	if err := writeResults(*outputDir, bestCfg, records); err != nil {
		slog.Error("failed to write results", "error", err)
		os.Exit(1)
	}
	slog.Info("results written", "dir", *outputDir)
}

func writeResults(dir string, cfg *config.Config, records []EvalRecord) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "tune_log.csv"))
	if err != nil {
		return fmt.Errorf("creating log: %w", err)
	}
	defer f.Close()
	if err := gocsv.Marshal(records, f); err != nil {
		return fmt.Errorf("writing log: %w", err)
	}
	return cfg.WriteYAML(filepath.Join(dir, "best_config.yaml"))
}
