package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"tickettoride/internal/cli"
	"tickettoride/internal/config"
	"tickettoride/internal/engine"
	"tickettoride/internal/lobby"
	"tickettoride/internal/loader"
	"tickettoride/internal/qrcode"
	"tickettoride/internal/server"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "config file")
	tv := flag.Bool("tv", false, "serve the spectator feed")
	addr := flag.String("addr", "", "spectator feed listen address (overrides config)")
	seed := flag.Uint64("seed", 0, "shuffle seed, 0 for random (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *tv {
		cfg.TV.Enabled = true
	}
	if *addr != "" {
		cfg.TV.Addr = *addr
	}
	if *seed != 0 {
		cfg.Game.Seed = *seed
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil && !errors.Is(err, cli.ErrQuit) {
		logger.Fatal("game aborted", zap.Error(err))
	}
}

func newLogger(c config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc.Level = level
	return zc.Build()
}

func run(cfg config.Config, logger *zap.Logger) error {
	data, err := loader.New(logger).LoadAll(loader.Files{
		Cities:       cfg.Data.Cities,
		Routes:       cfg.Data.Routes,
		TrainCards:   cfg.Data.TrainCards,
		Destinations: cfg.Data.Destinations,
	})
	if err != nil {
		return err
	}

	ui := cli.New(os.Stdin, os.Stdout, logger)

	if cfg.TV.Enabled {
		srv := server.New(cfg.TV.Addr, cfg.TV.PublicURL, logger)
		go func() {
			if err := srv.Start(); err != nil {
				logger.Error("tv feed stopped", zap.Error(err))
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
		ui.SetPublisher(srv.Hub())

		host := cfg.TV.Addr
		if strings.HasPrefix(host, ":") {
			host = "localhost" + host
		}
		url := srv.URL(host)
		if code, err := qrcode.Terminal(url); err == nil {
			fmt.Printf("Spectators: %s\n%s\n", url, code)
		}
	}

	lob := lobby.NewLobby(cfg.Game.MinPlayers, cfg.Game.MaxPlayers)
	infos, err := ui.Register(lob)
	if err != nil {
		return err
	}

	var trainRng, destRng *rand.Rand
	if cfg.Game.Seed != 0 {
		trainRng = engine.NewRand(cfg.Game.Seed)
		destRng = engine.NewRand(cfg.Game.Seed + 1)
	}
	trains := engine.NewTrainCardSupply(data.TrainCards, trainRng, logger)
	dests := engine.NewDestinationCardSupply(data.Destinations, destRng)

	rules := cfg.EngineConfig()
	players := make([]*engine.Player, len(infos))
	for i, info := range infos {
		p, err := engine.NewPlayer(info.ID, info.Name, rules.StartingTrains, data.Map, trains)
		if err != nil {
			return err
		}
		players[i] = p
	}

	game := engine.NewGame(players, rules, data.Map, trains, dests, logger)
	return ui.Play(game)
}
