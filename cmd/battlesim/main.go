package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/udisondev/monbattle/internal/config"
	"github.com/udisondev/monbattle/internal/data"
)

const ConfigPath = "config/battlesim.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("BATTLESIM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSimulation(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("battlesim starting",
		"config", cfgPath,
		"battles", cfg.Battles,
		"workers", cfg.Workers,
		"seed", cfg.Seed)

	table, reg, err := loadData(cfg)
	if err != nil {
		return err
	}

	sim, err := newSimulator(cfg, table, reg)
	if err != nil {
		return err
	}

	t, err := sim.run(ctx)
	if err != nil {
		return err
	}

	slog.Info("battlesim finished",
		"team1", t.team1,
		"team2", t.team2,
		"draw", t.draw,
		"unfinished", t.unfinished)
	return nil
}

// loadData reads the effectiveness table and species registry, falling
// back to the embedded defaults for empty paths.
func loadData(cfg config.Simulation) (*data.Effectiveness, *data.Registry, error) {
	var (
		table *data.Effectiveness
		reg   *data.Registry
		err   error
	)

	if cfg.EffectivenessPath != "" {
		table, err = data.LoadEffectiveness(cfg.EffectivenessPath)
	} else {
		table, err = data.DefaultEffectiveness()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading effectiveness table: %w", err)
	}

	if cfg.SpeciesPath != "" {
		reg, err = data.LoadSpecies(cfg.SpeciesPath)
	} else {
		reg, err = data.DefaultSpecies()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading species: %w", err)
	}

	if err := reg.CheckElements(table); err != nil {
		return nil, nil, fmt.Errorf("checking species elements: %w", err)
	}

	slog.Info("data loaded", "elements", table.Len(), "species", reg.Len())
	return table, reg, nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
