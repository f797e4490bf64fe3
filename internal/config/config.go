package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tickettoride/internal/engine"
)

// DefaultPath is read when no -config flag is given.
const DefaultPath = "tickettoride.yaml"

// Config is the tickettoride.yaml file.
type Config struct {
	Data DataConfig `yaml:"data"`
	Game GameConfig `yaml:"game"`
	TV   TVConfig   `yaml:"tv"`
	Log  LogConfig  `yaml:"log"`
}

// DataConfig names the map and card files.
type DataConfig struct {
	Cities       string `yaml:"cities"`
	Routes       string `yaml:"routes"`
	TrainCards   string `yaml:"train_cards"`
	Destinations string `yaml:"destinations"`
}

// GameConfig holds the rules knobs. Zero values take the defaults.
type GameConfig struct {
	MinPlayers           int    `yaml:"min_players"`
	MaxPlayers           int    `yaml:"max_players"`
	StartingTrains       int    `yaml:"starting_trains"`
	StartingHand         int    `yaml:"starting_hand"`
	StartingDestinations int    `yaml:"starting_destinations"`
	StartingKeep         int    `yaml:"starting_keep"`
	DestinationDraw      int    `yaml:"destination_draw"`
	DestinationKeep      int    `yaml:"destination_keep"`
	FinalRoundTrains     int    `yaml:"final_round_trains"`
	Seed                 uint64 `yaml:"seed"` // 0 picks a random seed
}

// TVConfig controls the read-only spectator feed.
type TVConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	// PublicURL is encoded in the QR code; empty derives it from Addr.
	PublicURL string `yaml:"public_url"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	rules := engine.DefaultConfig()
	return Config{
		Data: DataConfig{
			Cities:       "data/cities.txt",
			Routes:       "data/routes.csv",
			TrainCards:   "data/train_cards.csv",
			Destinations: "data/destinations.csv",
		},
		Game: GameConfig{
			MinPlayers:           2,
			MaxPlayers:           5,
			StartingTrains:       rules.StartingTrains,
			StartingHand:         rules.StartingHand,
			StartingDestinations: rules.StartingDestinations,
			StartingKeep:         rules.StartingKeep,
			DestinationDraw:      rules.DestinationDraw,
			DestinationKeep:      rules.DestinationKeep,
			FinalRoundTrains:     rules.FinalRoundTrains,
		},
		TV: TVConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a config file and fills in defaults. A missing file at the
// default path is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	f, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && path == DefaultPath:
		return cfg, nil
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(f, &file); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.merge(file)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) merge(o Config) {
	str := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	num := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}

	str(&c.Data.Cities, o.Data.Cities)
	str(&c.Data.Routes, o.Data.Routes)
	str(&c.Data.TrainCards, o.Data.TrainCards)
	str(&c.Data.Destinations, o.Data.Destinations)

	num(&c.Game.MinPlayers, o.Game.MinPlayers)
	num(&c.Game.MaxPlayers, o.Game.MaxPlayers)
	num(&c.Game.StartingTrains, o.Game.StartingTrains)
	num(&c.Game.StartingHand, o.Game.StartingHand)
	num(&c.Game.StartingDestinations, o.Game.StartingDestinations)
	num(&c.Game.StartingKeep, o.Game.StartingKeep)
	num(&c.Game.DestinationDraw, o.Game.DestinationDraw)
	num(&c.Game.DestinationKeep, o.Game.DestinationKeep)
	num(&c.Game.FinalRoundTrains, o.Game.FinalRoundTrains)
	if o.Game.Seed != 0 {
		c.Game.Seed = o.Game.Seed
	}

	c.TV.Enabled = c.TV.Enabled || o.TV.Enabled
	str(&c.TV.Addr, o.TV.Addr)
	str(&c.TV.PublicURL, o.TV.PublicURL)

	str(&c.Log.Level, o.Log.Level)
	c.Log.Development = c.Log.Development || o.Log.Development
}

// Validate checks the rules section for values the engine cannot run with.
func (c Config) Validate() error {
	g := c.Game
	switch {
	case g.MinPlayers < 2:
		return fmt.Errorf("config: min_players must be at least 2, got %d", g.MinPlayers)
	case g.MaxPlayers < g.MinPlayers:
		return fmt.Errorf("config: max_players %d is below min_players %d", g.MaxPlayers, g.MinPlayers)
	case g.StartingTrains <= 0:
		return fmt.Errorf("config: starting_trains must be positive, got %d", g.StartingTrains)
	case g.StartingKeep > g.StartingDestinations:
		return fmt.Errorf("config: starting_keep %d exceeds starting_destinations %d", g.StartingKeep, g.StartingDestinations)
	case g.DestinationKeep > g.DestinationDraw:
		return fmt.Errorf("config: destination_keep %d exceeds destination_draw %d", g.DestinationKeep, g.DestinationDraw)
	}
	return nil
}

// EngineConfig returns the rules section in the engine's terms.
func (c Config) EngineConfig() engine.GameConfig {
	return engine.GameConfig{
		StartingTrains:       c.Game.StartingTrains,
		StartingHand:         c.Game.StartingHand,
		StartingDestinations: c.Game.StartingDestinations,
		StartingKeep:         c.Game.StartingKeep,
		DestinationDraw:      c.Game.DestinationDraw,
		DestinationKeep:      c.Game.DestinationKeep,
		FinalRoundTrains:     c.Game.FinalRoundTrains,
	}
}
