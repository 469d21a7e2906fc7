// Command geosim runs the geopolitical simulation engine: create or
// load a session, advance it, and report what happened.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/geosim/internal/api"
	"github.com/talgya/geosim/internal/config"
	"github.com/talgya/geosim/internal/domain"
	"github.com/talgya/geosim/internal/engine"
	"github.com/talgya/geosim/internal/metrics"
	"github.com/talgya/geosim/internal/persistence"
	"github.com/talgya/geosim/internal/scenario"
)

func main() {
	var (
		dbPath       = flag.String("db", "data/geosim.db", "path to the SQLite store")
		configPath   = flag.String("config", "", "optional YAML rule overrides")
		scenarioFlag = flag.String("scenario", "demo", "starting world: demo, gen, or a JSON file path")
		name         = flag.String("name", "geosim", "session name")
		seed         = flag.Int64("seed", 42, "session PRNG seed")
		ticks        = flag.Int("ticks", 10, "ticks to advance")
		loadID       = flag.String("load", "", "session id to resume instead of creating one")
		loadTick     = flag.Int64("tick", -1, "tick to load at (with -load, -1 = latest)")
		servePort    = flag.Int("serve", 0, "serve the observation API on this port after stepping (0 = off)")
		verbose      = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	cfg := config.Defaults()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	if dir := filepath.Dir(*dbPath); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	store, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	eng := engine.New(store, cfg)

	if *loadID != "" {
		var target *int64
		if *loadTick >= 0 {
			target = loadTick
		}
		if err := eng.LoadSession(*loadID, target); err != nil {
			slog.Error("failed to load session", "session", *loadID, "error", err)
			os.Exit(1)
		}
	} else {
		world, err := buildWorld(*scenarioFlag, *seed)
		if err != nil {
			slog.Error("failed to build scenario", "error", err)
			os.Exit(1)
		}
		if _, err := eng.CreateSession(*name, *seed); err != nil {
			slog.Error("failed to create session", "error", err)
			os.Exit(1)
		}
		if err := eng.InitializeWorld(world); err != nil {
			slog.Error("failed to initialize world", "error", err)
			os.Exit(1)
		}
	}

	if *ticks > 0 {
		events, err := eng.Step(*ticks)
		if err != nil {
			slog.Error("step failed", "error", err)
			os.Exit(1)
		}
		for _, ev := range events {
			fmt.Println(ev)
		}
	}

	printReport(eng)

	if *servePort > 0 {
		srv := (&api.Server{Eng: eng, Port: *servePort}).Start()
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		srv.Close()
	}
}

func buildWorld(spec string, seed int64) (*domain.World, error) {
	switch spec {
	case "demo":
		return scenario.Demo(), nil
	case "gen":
		gen := scenario.DefaultGenConfig()
		gen.Seed = seed
		return scenario.Generate(gen), nil
	default:
		data, err := os.ReadFile(spec)
		if err != nil {
			return nil, fmt.Errorf("read scenario file: %w", err)
		}
		return scenario.FromJSON(data)
	}
}

func printReport(eng *engine.Engine) {
	world := eng.World()
	if world == nil {
		return
	}

	report, err := eng.Metrics()
	if err != nil {
		return
	}

	fmt.Printf("\nSession %s at tick %d\n", eng.SessionID(), eng.CurrentTick())
	fmt.Printf("World: power %.1f, HHI %.3f, gini %.3f, tension %.1f, avg legitimacy %.1f\n",
		report.World.TotalPower, report.World.HegemonyHHI, report.World.PowerGini,
		report.World.GlobalTension, report.World.AvgLegitimacy)

	fmt.Println("\nPower rankings:")
	for i, row := range metrics.PowerRankings(world) {
		f := world.Factions[row.ID]
		var pop int64
		for _, rid := range f.Regions.Members() {
			if r := world.GetRegion(rid); r != nil {
				pop += r.Population
			}
		}
		fmt.Printf("  %d. %-20s cpi=%7.1f  regions=%d  population=%s\n",
			i+1, row.Name, row.Score, len(f.Regions), humanize.Comma(pop))
	}
}
