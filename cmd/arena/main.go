package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zeusync/arena/internal/arena"
	"github.com/zeusync/arena/internal/config"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/injector"
	"github.com/zeusync/arena/internal/server"
	"github.com/zeusync/arena/internal/tui"
)

type flags struct {
	config    string
	tui       bool
	ticks     uint64
	logLevel  string
	spectator bool
}

func main() {
	var f flags
	flag.StringVar(&f.config, "config", "", "path to a YAML config file (defaults are used when empty)")
	flag.BoolVar(&f.tui, "tui", false, "draw the arena in the terminal and steer with the arrow keys")
	flag.Uint64Var(&f.ticks, "ticks", 0, "stop after this many ticks (0 runs until interrupted)")
	flag.StringVar(&f.logLevel, "log-level", "", "override the configured log level")
	flag.BoolVar(&f.spectator, "spectator", false, "serve the websocket spectator feed")
	flag.Parse()

	if err := run(f); err != nil {
		fmt.Fprintln(os.Stderr, "arena:", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}
	switch {
	case f.logLevel != "":
		cfg.LogLevel = f.logLevel
	case f.tui:
		// keep stderr quiet while the screen is owned by the view
		cfg.LogLevel = "error"
	}
	if f.spectator {
		cfg.Spectator.Enabled = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var (
		input arena.Input = arena.NoInput{}
		term  *tui.Terminal
	)
	if f.tui {
		if term, err = tui.Open(nil, cfg.Arena.HalfSize); err != nil {
			return err
		}
		defer term.Close()
		input = term.Input()
	}

	session, cleanup, err := injector.InitializeSession(cfg, input)
	if err != nil {
		return err
	}
	defer cleanup()
	logger := log.Provide()
	defer func() { _ = logger.Sync() }()

	if term != nil {
		if err := term.Attach(session.Events()); err != nil {
			return err
		}
		term.Listen(ctx, cancel)
	}

	if cfg.Spectator.Enabled {
		spectator, err := server.NewSpectator(server.ConfigFrom(cfg.Spectator), session, logger)
		if err != nil {
			return err
		}
		if err := spectator.Attach(session.Events()); err != nil {
			return err
		}
		if err := spectator.Start(ctx); err != nil {
			return err
		}
		defer func() {
			stopCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			if err := spectator.Stop(stopCtx); err != nil && !errors.Is(err, server.ErrServerNotRunning) {
				logger.Warn("spectator shutdown", log.Error(err))
			}
		}()
	}

	logger.Info("arena session starting",
		log.String("session", session.ID()),
		log.Int("tick_rate", cfg.TickRate),
		log.Uint64("ticks", f.ticks),
	)
	if err := session.Run(ctx, f.ticks); err != nil {
		return err
	}
	snap := session.Snapshot()
	logger.Info("arena session over", log.Uint64("score", snap.Score), log.Uint64("frames", snap.Frame))
	return nil
}
