// Package main provides the skirmish binary that plays a scenario match on the
// command line, printing each round's narration and the map.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/scenario"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/simulation"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	scenarioPath := flag.String("scenario", "", "path to scenario YAML; overrides simulation.scenario")
	rounds := flag.Int("rounds", -1, "number of rounds to play; overrides simulation.rounds when >= 0")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *scenarioPath != "" {
		cfg.Simulation.Scenario = *scenarioPath
	}
	if *rounds >= 0 {
		cfg.Simulation.Rounds = *rounds
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	sc, err := scenario.Load(cfg.Simulation.Scenario)
	if err != nil {
		logger.Fatal("loading scenario", zap.Error(err))
	}
	logger.Info("scenario loaded",
		zap.String("path", cfg.Simulation.Scenario),
		zap.String("name", sc.Name),
		zap.Int("characters", len(sc.Characters)),
	)

	src := dice.NewLoggedSource(dice.NewSource(cfg.Match.Seed), logger)

	ctx, stop := simulation.NotifyContext(context.Background())
	defer stop()

	runner := simulation.NewRunner(combat.NewEngine(), os.Stdout, logger)
	out, err := runner.Run(ctx, uuid.NewString(), cfg.Match, sc, cfg.Simulation.Rounds, src)
	if err != nil {
		logger.Fatal("running match", zap.Error(err))
	}

	logger.Info("simulation complete",
		zap.String("match", out.MatchID),
		zap.Int("rounds", out.Rounds),
		zap.Uint64("draws", src.Draws()),
		zap.Duration("elapsed", time.Since(start)),
	)
}
