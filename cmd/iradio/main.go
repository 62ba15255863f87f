package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mmcdole/iradio/internal/adapter"
	"github.com/mmcdole/iradio/internal/adapter/archive"
	"github.com/mmcdole/iradio/internal/adapter/mpv"
	"github.com/mmcdole/iradio/internal/service"
	"github.com/mmcdole/iradio/internal/session"
	"github.com/mmcdole/iradio/internal/store"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("iradio %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, logFile, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		defer logFile.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting iradio", "version", Version)

	streams, err := openStore(&cfg.Cache, logger)
	if err != nil {
		return err
	}
	defer streams.Close()

	client := archive.NewClient(cfg.Archive.BaseURL, cfg.Archive.Timeout, cfg.Archive.UserAgent, streams, logger)

	launcher := adapter.NewLauncher(cfg.Player.Command, cfg.Player.Args, logger)
	player := mpv.NewPlayer(cfg.Player.Socket, launcher, logger)
	defer func() {
		if err := player.Close(); err != nil {
			logger.Warn("player shutdown failed", "error", err)
		}
	}()

	stations, err := service.NewStationRegistry(cfg.Catalog(), cfg.DefaultStations, logger)
	if err != nil {
		return fmt.Errorf("invalid station list: %w", err)
	}
	searchSvc := service.NewSearchService(client, logger)
	playbackSvc := service.NewPlaybackController(player, logger)

	fmt.Println("Press h for help, q to quit")

	s := session.New(adapter.NewTerminal(os.Stdin, logger), os.Stdout, stations, searchSvc, playbackSvc, logger)
	if err := s.Run(context.Background()); err != nil {
		logger.Error("session error", "error", err)
		return err
	}

	logger.Info("shutting down")
	return nil
}

// openStore opens the playlist cache and drops entries older than the
// configured age
func openStore(cfg *adapter.CacheConfig, logger *slog.Logger) (*store.StreamStore, error) {
	path, err := adapter.ExpandHome(cfg.File)
	if err != nil {
		return nil, err
	}

	streams, err := store.NewStreamStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	if cfg.MaxAge > 0 {
		removed, err := streams.Prune(time.Now().Add(-cfg.MaxAge))
		if err != nil {
			logger.Warn("cache prune failed", "error", err)
		} else if removed > 0 {
			logger.Info("pruned cache", "removed", removed)
		}
	}
	return streams, nil
}
