package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/l1jgo/entitysync/internal/binding"
	"github.com/l1jgo/entitysync/internal/component"
	"github.com/l1jgo/entitysync/internal/config"
	"github.com/l1jgo/entitysync/internal/core/ecs"
	"github.com/l1jgo/entitysync/internal/core/event"
	coresys "github.com/l1jgo/entitysync/internal/core/system"
	"github.com/l1jgo/entitysync/internal/data"
	"github.com/l1jgo/entitysync/internal/scripting"
	"github.com/l1jgo/entitysync/internal/system"
	"github.com/l1jgo/entitysync/internal/view"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            entitysync  v0.1.0             \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config; a missing default file falls back to built-in defaults
	cfgPath := "config/entitysync.toml"
	explicit := false
	if p := os.Getenv("ENTITYSYNC_CONFIG"); p != "" {
		cfgPath = p
		explicit = true
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = config.Default()
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 3. ECS world, bus and coordinator
	bus := event.NewBus()
	defer bus.Close()
	world := ecs.NewWorld(bus)
	ecs.Register[component.Position](world)
	ecs.Register[component.Velocity](world)
	ecs.Register[component.Sprite](world)
	ecs.Register[component.Synced](world)

	coord := binding.NewCoordinator(bus, log)
	defer coord.Close()

	// 4. Scripts
	printSection("Scripts")
	lua, err := scripting.NewEngine(cfg.Binding.ScriptDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer lua.Close()
	lua.SetSeed(cfg.Simulation.Seed)
	if cfg.Binding.Script != "" {
		if err := lua.LoadFile(cfg.Binding.Script); err != nil {
			return fmt.Errorf("lua engine: %w", err)
		}
	}
	printStat("Components", len(world.Registry().Names()))

	// 5. Views
	views, err := data.LoadViewTable(cfg.Binding.ViewsFile, system.ComponentResolver(world))
	if err != nil {
		return fmt.Errorf("load view table: %w", err)
	}
	printStat("Views", views.Count())
	fmt.Println()

	presenters := make([]*view.Presenter, 0, views.Count())
	for _, v := range views.All() {
		presenters = append(presenters, view.NewPresenter(v.Name, coord, v.Query, v.Freshness, os.Stdout, log))
	}
	defer func() {
		for _, p := range presenters {
			p.Close()
		}
	}()

	// 6. Systems
	runner := coresys.NewRunner()
	syncSys := system.NewSyncSystem(world, coord, bus, log)
	defer syncSys.Close()
	runner.Register(system.NewScriptSystem(world, lua, log))
	runner.Register(system.NewMovementSystem(world))
	runner.Register(system.NewOrientSystem(world))
	runner.Register(syncSys)
	runner.Register(system.NewCleanupSystem(world, log))
	runner.Register(system.NewSignalSystem(coord, log))

	// 7. Tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	printSection("Running")
	printReady(fmt.Sprintf("tick loop started (tick: %s)", cfg.Simulation.TickRate))
	fmt.Println()

	// Initial frame subscribes the always-fresh views.
	renderAll(presenters, true)

	for {
		select {
		case <-ticker.C:
			n := runner.Tick(cfg.Simulation.TickRate)
			force := cfg.Binding.OnDemandEvery > 0 && n%cfg.Binding.OnDemandEvery == 0
			renderAll(presenters, force)
			if cfg.Simulation.MaxTicks > 0 && n >= cfg.Simulation.MaxTicks {
				log.Info("tick limit reached",
					zap.Uint64("ticks", n),
					zap.Int("entities", world.Len()),
					zap.Int("staged", syncSys.Staged()),
				)
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			return nil
		}
	}
}

// renderAll draws every dirty view. force additionally redraws the
// on-demand views, which never receive ticks.
func renderAll(presenters []*view.Presenter, force bool) {
	for _, p := range presenters {
		p.Render(force && p.Freshness() == binding.OnDemand)
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
