// Command dobon hosts an interactive Dobon match against three CPUs, or
// simulates batches of unattended matches with --sim.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jason-s-yu/dobon/service/internal/config"
	"github.com/jason-s-yu/dobon/service/internal/logging"
	"github.com/jason-s-yu/dobon/service/internal/sim"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML config file")
	envFile := pflag.String("env", "", "env file to load instead of ./.env")
	simulate := pflag.Bool("sim", false, "simulate matches with every seat on autopilot and print the tally")
	games := pflag.IntP("games", "n", 0, "matches to simulate (overrides sim_games)")
	workers := pflag.IntP("workers", "w", 0, "simulation goroutines (overrides sim_workers)")
	seed := pflag.Uint64("seed", 0, "deal seed; interactive deals use seed, seed+1, ... (overrides seed)")
	verbose := pflag.BoolP("verbose", "v", false, "log at debug level")
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load config
	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(*configPath, envFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dobon: %v\n", err)
		os.Exit(2)
	}
	flags := pflag.CommandLine
	if flags.Changed("games") {
		cfg.SimGames = *games
	}
	if flags.Changed("workers") {
		cfg.SimWorkers = *workers
	}
	if flags.Changed("seed") {
		cfg.Seed = *seed
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "dobon: %v\n", err)
		os.Exit(2)
	}

	// 2. Init logger
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dobon: %v\n", err)
		os.Exit(2)
	}

	// 3. Run
	if *simulate {
		err = runSim(ctx, cfg, logger)
	} else {
		err = runInteractive(ctx, cfg, logger, os.Stdin, os.Stdout)
	}
	if err != nil && ctx.Err() == nil {
		logger.WithError(err).Fatal("dobon exited with an error")
	}
}

func runSim(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	seats, err := cfg.SimSeats()
	if err != nil {
		return err
	}
	rep, err := sim.Run(ctx, sim.Options{
		Games:   cfg.SimGames,
		Workers: cfg.SimWorkers,
		Seed:    cfg.Seed,
		Rules:   cfg.Rules(),
		Seats:   seats,
		Logger:  logger,
		Verbose: logger.IsLevelEnabled(logrus.DebugLevel),
	})
	if err != nil {
		return err
	}
	printReport(os.Stdout, rep, seats)
	return nil
}
