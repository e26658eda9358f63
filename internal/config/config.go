// Package config assembles runtime settings from a .env file, BOMBERMAN_*
// environment variables and command-line flags, in increasing priority.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/amalg/bomb-arena/internal/game"
)

// Config holds the settings of a local game session.
type Config struct {
	MapPath  string // Empty means a generated map
	Humans   int
	Bots     int
	Seed     int64 // 0 means time based
	Tick     time.Duration
	Fuse     time.Duration
	LogFile  string // Empty discards logs
	Debug    bool
	FeedAddr string // Empty disables the spectator feed
}

// Default returns the built-in settings.
func Default() Config {
	d := game.DefaultConfig()
	return Config{
		Humans: 1,
		Bots:   1,
		Tick:   d.TickStep,
		Fuse:   d.Defaults.Fuse,
	}
}

// LoadEnv loads the given .env files into the process environment. Missing
// files are skipped.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load builds a Config from the environment and then parses args with a
// flag set named name.
func Load(name string, args []string) (Config, error) {
	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	fset := flag.NewFlagSet(name, flag.ContinueOnError)
	fset.StringVar(&cfg.MapPath, "map", cfg.MapPath, "Map file (default: generated classic arena)")
	fset.IntVar(&cfg.Humans, "humans", cfg.Humans, "Number of human players (0-2)")
	fset.IntVar(&cfg.Bots, "bots", cfg.Bots, "Number of bot players")
	fset.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0: time based)")
	fset.DurationVar(&cfg.Tick, "tick", cfg.Tick, "Simulation tick step")
	fset.DurationVar(&cfg.Fuse, "fuse", cfg.Fuse, "Default bomb fuse")
	fset.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Log file path (default: discard logs)")
	fset.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Log at debug level")
	fset.StringVar(&cfg.FeedAddr, "feed", cfg.FeedAddr, "Spectator feed listen address, e.g. :8080")
	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings for a playable session.
func (c Config) Validate() error {
	if c.Humans < 0 || c.Humans > 2 {
		return fmt.Errorf("humans must be between 0 and 2, got %d", c.Humans)
	}
	if c.Bots < 0 {
		return fmt.Errorf("bots must not be negative, got %d", c.Bots)
	}
	if c.Humans+c.Bots < 2 {
		return fmt.Errorf("need at least 2 players, got %d", c.Humans+c.Bots)
	}
	if c.Tick <= 0 {
		return fmt.Errorf("tick must be positive, got %v", c.Tick)
	}
	if c.Fuse <= 0 {
		return fmt.Errorf("fuse must be positive, got %v", c.Fuse)
	}
	return nil
}

// GameConfig returns the simulation config with the session overrides.
func (c Config) GameConfig() game.GameConfig {
	g := game.DefaultConfig()
	g.TickStep = c.Tick
	g.Defaults.Fuse = c.Fuse
	return g
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("BOMBERMAN_MAP"); ok {
		c.MapPath = v
	}
	if v, ok := os.LookupEnv("BOMBERMAN_LOG_FILE"); ok {
		c.LogFile = v
	}
	if v, ok := os.LookupEnv("BOMBERMAN_FEED_ADDR"); ok {
		c.FeedAddr = v
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"BOMBERMAN_HUMANS", &c.Humans},
		{"BOMBERMAN_BOTS", &c.Bots},
	}
	for _, it := range ints {
		v, ok := os.LookupEnv(it.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", it.key, err)
		}
		*it.dst = n
	}
	if v, ok := os.LookupEnv("BOMBERMAN_DEBUG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("BOMBERMAN_DEBUG: %w", err)
		}
		c.Debug = b
	}
	if v, ok := os.LookupEnv("BOMBERMAN_SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("BOMBERMAN_SEED: %w", err)
		}
		c.Seed = n
	}
	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"BOMBERMAN_TICK", &c.Tick},
		{"BOMBERMAN_FUSE", &c.Fuse},
	}
	for _, it := range durations {
		v, ok := os.LookupEnv(it.key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", it.key, err)
		}
		*it.dst = d
	}
	return nil
}
