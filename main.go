package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"chessagent/config"
	"chessagent/experiments"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "Tournament YAML file, defaults to the built-in line-up")
	games := flag.Int("games", 0, "Games per pairing, overrides the config")
	parallel := flag.Int("parallel", 0, "Games played at once, overrides the config")
	output := flag.String("output", "", "Directory for CSV records, overrides the config")
	verbose := flag.Bool("v", false, "Log every move")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}
	}
	if *games > 0 {
		cfg.Games = *games
	}
	if *parallel > 0 {
		cfg.Parallel = *parallel
	}
	if *output != "" {
		cfg.Output = *output
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := experiments.Run(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("tournament failed")
	}
	experiments.Print(color.Output, experiments.Summarize(results))

	if cfg.Output == "" {
		return
	}
	dir, err := experiments.Store(cfg.Output, results)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to store results")
	}
	log.Info().Msgf("results written to %s", dir)
}
