package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/amalg/bomb-arena/internal/config"
	"github.com/amalg/bomb-arena/internal/feed"
	"github.com/amalg/bomb-arena/internal/game"
	"github.com/amalg/bomb-arena/internal/level"
	"github.com/amalg/bomb-arena/internal/logging"
	"github.com/amalg/bomb-arena/internal/ui"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(os.Args[0], os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Nothing may write to stdout or stderr once the TUI owns the terminal.
	log := logging.New(cfg.LogFile, cfg.Debug)
	defer logging.Sync(log)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	rows, err := loadMap(cfg.MapPath, rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load map: %v\n", err)
		os.Exit(1)
	}

	gameCfg := cfg.GameConfig()
	match := game.NewMatch(gameCfg, game.WithRand(rng), game.WithLogger(log.Named("match")))
	engine := game.NewEngine(match, log.Named("engine"))
	if err := engine.Start(cfg.Humans, cfg.Bots, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start round: %v\n", err)
		os.Exit(1)
	}
	log.Infow("session configured", "seed", seed, "map", cfg.MapPath, "tick", cfg.Tick)

	frames := make(chan game.Frame, 64)
	var hub *feed.Hub
	var srv *http.Server
	if cfg.FeedAddr != "" {
		hub = feed.NewHub(log.Named("feed"))
		srv = &http.Server{Addr: cfg.FeedAddr, Handler: feed.NewHandler(hub, engine)}
		go serveFeed(srv, log)
	}

	engine.OnTick(func(f game.Frame) {
		if hub != nil {
			hub.Publish(f)
		}
		select {
		case frames <- f:
		default:
			// The TUI fell behind, it catches up with the next frame.
		}
	})
	go engine.Run()

	shutdown := func() {
		engine.Stop()
		if srv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
			hub.Close()
		}
	}

	// Handle OS signals for clean shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		shutdown()
		logging.Sync(log)
		os.Exit(0)
	}()

	round := ui.Round{Humans: cfg.Humans, Bots: cfg.Bots, Rows: rows}
	p := tea.NewProgram(ui.NewModel(engine, frames, round, gameCfg.TileSize), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		shutdown()
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
	shutdown()
}

// loadMap reads the map file at path, or generates the classic arena when
// path is empty.
func loadMap(path string, rng *rand.Rand) ([][]int, error) {
	if path != "" {
		return level.ReadFile(path)
	}
	return level.Generate(level.DefaultOptions(), rng)
}

func serveFeed(srv *http.Server, log *zap.SugaredLogger) {
	log.Infow("spectator feed listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorw("spectator feed stopped", "error", err)
	}
}
