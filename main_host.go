//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"deskmon/app"
	"deskmon/hal"
	"deskmon/internal/buildinfo"
	"deskmon/internal/settings"
)

func main() {
	var (
		headless    hal.HeadlessConfig
		configPath  string
		showVersion bool
	)
	flag.BoolVar(&headless.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&headless.Hz, "hz", 0, "Tick rate (0 = from the settings tick_ms).")
	flag.Uint64Var(&headless.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.Float64Var(&headless.DistanceCM, "distance", 150, "Initial simulated distance in cm.")
	flag.StringVar(&configPath, "config", "", "Settings YAML (default: user config dir).")
	flag.BoolVar(&showVersion, "version", false, "Print the build identifier and exit.")
	flag.Parse()

	if showVersion {
		fmt.Println(buildinfo.String())
		return
	}

	if configPath == "" {
		p, err := settings.DefaultPath()
		if err != nil {
			slog.Warn("no user config dir, using defaults", "err", err)
		}
		configPath = p
	}
	cfg, err := settings.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if headless.Hz <= 0 {
		headless.Hz = int(time.Second / cfg.TickInterval)
	}

	newApp := func(h hal.HAL) (func() error, error) {
		m, err := app.New(h, cfg)
		if err != nil {
			return nil, err
		}
		return m.Step, nil
	}

	if headless.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, headless); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(newApp, hal.WindowConfig{Hz: headless.Hz, DistanceCM: headless.DistanceCM}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
