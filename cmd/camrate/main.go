package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"
	"github.com/valerio/go-camrate/camrate"
	"github.com/valerio/go-camrate/camrate/backend"
	"github.com/valerio/go-camrate/camrate/backend/headless"
	"github.com/valerio/go-camrate/camrate/backend/terminal"
	"github.com/valerio/go-camrate/camrate/config"
	"github.com/valerio/go-camrate/camrate/stats"
	"github.com/valerio/go-camrate/camrate/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "camrate"
	app.Description = "Per-camera refresh rate throttling driven by one master tick"
	app.Usage = "camrate [options]"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "Path to a YAML config file (default: one camera at 120 fps)",
		},
		cli.IntFlag{
			Name:  "rate",
			Usage: "Target refresh rate for every camera, 0 or less renders every tick",
		},
		cli.BoolFlag{
			Name:  "request-mode",
			Usage: "Render cameras through on-demand render requests",
		},
		cli.Float64Flag{
			Name:  "master-fps",
			Usage: "Rate of the master tick",
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Frame pacing: none, ticker, adaptive or rate",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a terminal UI on simulated time",
		},
		cli.IntFlag{
			Name:  "ticks",
			Usage: "Number of ticks to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save PNG snapshots of the selected camera every N ticks in headless mode (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save snapshots (default: temp directory)",
		},
		cli.StringFlag{
			Name:  "redis-addr",
			Usage: "Also record render stats in Redis at this address",
		},
		cli.BoolFlag{
			Name:  "watch",
			Usage: "Reload the config file when it changes",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
		},
	}
	app.Action = run

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running camrate", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []camrate.Option
	var b backend.Backend

	if c.Bool("headless") {
		ticks := c.Int("ticks")
		if ticks <= 0 {
			return errors.New("headless mode requires --ticks option with a positive value")
		}

		snapshotConfig, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"))
		if err != nil {
			return err
		}

		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		slog.SetDefault(slog.New(handler))

		b = headless.New(ticks, snapshotConfig)
		opts = append(opts, camrate.WithSimulatedClock(), camrate.WithLimiter(timing.NewNoOpLimiter()))
	} else {
		b = terminal.New()
	}

	if addr := cfg.Stats.RedisAddr; addr != "" {
		rdb, err := stats.DialRedis(ctx, addr)
		if err != nil {
			slog.Warn("Redis stats disabled", "error", err)
		} else {
			defer rdb.Close()
			opts = append(opts, camrate.WithStore(stats.NewRedisStore(rdb, stats.WithPrefix(cfg.Stats.Prefix))))
			slog.Info("Recording stats to redis", "addr", addr, "prefix", cfg.Stats.Prefix)
		}
	}

	engine, err := camrate.New(cfg, opts...)
	if err != nil {
		return err
	}

	if path := c.String("config"); c.Bool("watch") && path != "" {
		go func() {
			err := config.Watch(ctx, path, func(reloaded config.Config) {
				engine.QueueConfig(applyFlags(c, reloaded))
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("Config watch stopped", "path", path, "error", err)
			}
		}()
	}

	return engine.Run(ctx, b)
}

// loadConfig reads --config, or the defaults, and applies flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	cfg = applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}

// applyFlags overrides config values with the flags given on the command
// line. Reloaded configs go through it too so flags keep winning.
func applyFlags(c *cli.Context, cfg config.Config) config.Config {
	cameras := make([]config.Camera, len(cfg.Cameras))
	copy(cameras, cfg.Cameras)
	cfg.Cameras = cameras

	for i := range cfg.Cameras {
		if c.IsSet("rate") {
			cfg.Cameras[i].RefreshRate = c.Int("rate")
		}
		if c.IsSet("request-mode") {
			cfg.Cameras[i].SendRenderRequest = c.Bool("request-mode")
		}
	}
	if c.IsSet("master-fps") {
		cfg.MasterFPS = c.Float64("master-fps")
	}
	if c.IsSet("limiter") {
		cfg.Limiter = c.String("limiter")
	}
	if c.IsSet("redis-addr") {
		cfg.Stats.RedisAddr = c.String("redis-addr")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	return cfg
}
