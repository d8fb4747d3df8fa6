package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/subterra/config"
	"github.com/pthm-cable/subterra/game"
	"github.com/pthm-cable/subterra/input"
	"github.com/pthm-cable/subterra/level"
	"github.com/pthm-cable/subterra/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	levelPath := flag.String("level", "", "Path to a level YAML file (empty = built-in demo)")
	headless := flag.Bool("headless", false, "Run an input script without graphics")
	scriptPath := flag.String("script", "", "Input script to replay in headless mode")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	logEvents := flag.Bool("log-events", false, "Log every movement event and perf window")
	autoRestart := flag.Bool("auto-restart", false, "Respawn right after death or finish")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logLevel := slog.LevelInfo
	if *logEvents {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	lvl, err := level.Load(*levelPath)
	if err != nil {
		slog.Error("failed to load level", "path", *levelPath, "error", err)
		os.Exit(1)
	}

	opts := game.Options{
		Config:      cfg,
		Level:       lvl,
		OutputDir:   *outputDir,
		AutoRestart: *autoRestart || *headless,
		LogEvents:   *logEvents,
	}

	if *headless {
		os.Exit(runHeadless(opts, *scriptPath, *maxTicks))
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Subterra")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	// Escape is a pause key, not a quit key.
	rl.SetExitKey(0)

	g, err := game.New(opts)
	if err != nil {
		slog.Error("failed to start game", "error", err)
		return
	}
	defer closeGame(g)

	app, err := ui.NewApp(g)
	if err != nil {
		slog.Error("failed to bind keys", "error", err)
		return
	}
	app.Run(*maxTicks)
}

// runHeadless replays an input script with a fixed frame time. It returns
// the process exit code.
func runHeadless(opts game.Options, scriptPath string, maxTicks int) int {
	if scriptPath == "" {
		slog.Error("headless mode needs -script")
		return 2
	}
	script, err := input.LoadScript(scriptPath)
	if err != nil {
		slog.Error("failed to load script", "path", scriptPath, "error", err)
		return 1
	}

	g, err := game.New(opts)
	if err != nil {
		slog.Error("failed to start game", "error", err)
		return 1
	}
	slog.Info("starting headless run",
		"level", g.Level().Name,
		"script", scriptPath,
		"max_ticks", maxTicks,
	)
	g.RunScript(script, maxTicks)
	closeGame(g)

	for _, r := range g.Runs() {
		slog.Info("run", "run", r)
	}
	return 0
}

func closeGame(g *game.Game) {
	if err := g.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
