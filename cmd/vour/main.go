// Command vour runs a tour headless: it loads a world, ticks every system on
// the simulated media engine and takes a scripted list of teleports.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/Faultbox/vour/internal/assets"
	"github.com/Faultbox/vour/internal/config"
	"github.com/Faultbox/vour/internal/logger"
	"github.com/Faultbox/vour/internal/media"
	"github.com/Faultbox/vour/internal/media/sim"
	"github.com/Faultbox/vour/internal/metrics"
	"github.com/Faultbox/vour/internal/viewer"
	"github.com/Faultbox/vour/internal/world"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Log.Error("tour failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Log.Info("tour closed normally")
}

func run(cfg *config.Config) error {
	log := logger.Log
	log.Debug("config", zap.Any("config", cfg))

	images := assets.NewManager()
	for _, dir := range cfg.World.AssetDirs {
		if err := images.AddRoot(dir); err != nil {
			return err
		}
	}
	loader := world.NewLoader(images, logger.Named("world"))

	w, err := loader.Load(cfg.World.Path)
	if err != nil {
		return err
	}
	if cfg.World.Start != "" {
		if err := w.SetStart(cfg.World.Start); err != nil {
			return err
		}
	}

	engine := sim.New()
	engine.LocalLatency = cfg.Media.LocalLatency.Seconds()
	engine.RemoteLatency = cfg.Media.RemoteLatency.Seconds()
	if cfg.Media.LoadingTexture != "" {
		tex, err := media.ProbeImage(cfg.Media.LoadingTexture)
		if err != nil {
			log.Warn("loading texture not found, using placeholder", zap.Error(err))
		} else {
			engine.SetLoadingTexture(tex)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if cfg.Metrics.Listen != "" {
		go func() {
			if err := metrics.Serve(cfg.Metrics.Listen, reg, logger.Named("metrics")); err != nil {
				log.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	v, err := viewer.New(viewer.Options{
		Config:     cfg,
		World:      w,
		Loader:     loader,
		Engine:     engine,
		Overlay:    engine.Overlay,
		Scenes:     engine.Scenes,
		UI:         engine.UI,
		Registerer: reg,
		Log:        logger.Named("viewer"),
	})
	if err != nil {
		return err
	}
	if err := v.Start(); err != nil {
		return err
	}
	defer v.Close()

	opts := viewer.RunOptions{
		TickRate:    cfg.Runner.TickRate,
		MaxDuration: cfg.Runner.MaxDuration,
		Realtime:    true,
	}
	if len(cfg.Runner.Tour) > 0 {
		if opts.Tour, err = viewer.NewTour(w, cfg.Runner.Tour, cfg.Runner.Dwell); err != nil {
			return err
		}
	}
	if cfg.World.Watch {
		watcher, err := world.NewWatcher(cfg.World.Path)
		if err != nil {
			return fmt.Errorf("watching world: %w", err)
		}
		defer watcher.Close()
		opts.Changes = watcher.Events
		go func() {
			for err := range watcher.Errors {
				log.Warn("world watcher", zap.Error(err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := v.Run(ctx, opts); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
