// Command focuslog captures the desk monitor's serial events into a CSV file.
//
// Settings come from FOCUSLOG_PORT, FOCUSLOG_BAUD and FOCUSLOG_CSV, or a
// .env file in the working directory.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"deskmon/internal/focuslog"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("focuslog stopped", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg := focuslog.LoadConfig()

	sink, err := focuslog.OpenCSV(cfg.CSV)
	if err != nil {
		return err
	}
	defer sink.Close()

	port, err := focuslog.OpenSerial(cfg.Port, cfg.Baud)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		port.Close()
	}()

	log.Info("listening", "port", cfg.Port, "baud", cfg.Baud, "csv", cfg.CSV)
	err = focuslog.Run(ctx, port, sink, nil, log)
	if ctx.Err() != nil || errors.Is(err, os.ErrClosed) {
		log.Info("logging stopped")
		return nil
	}
	return err
}
