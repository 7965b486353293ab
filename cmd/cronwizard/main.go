package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cronwizard/internal/api"
	"cronwizard/internal/cli"
	"cronwizard/internal/config"
	"cronwizard/internal/core"
	"cronwizard/internal/crontab"
	"cronwizard/internal/logging"
	cronwizardmcp "cronwizard/internal/mcp"
	"cronwizard/internal/store"
	"cronwizard/internal/wizard"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, os.Stderr)

	baseCtx := context.Background()
	storeInst, err := store.Open(baseCtx, cfg.StateDir)
	if err != nil {
		logger.Error("open store", "err", err)
		os.Exit(1)
	}
	defer storeInst.Close()

	location := cfg.Location()
	crontabSink := crontab.New(crontab.Options{
		User:      cfg.Crontab.User,
		BackupDir: cfg.Crontab.BackupDir,
	}, logger)
	sink := buildSink(cfg, crontabSink, storeInst)

	ctx, stop := signal.NotifyContext(baseCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var runErr error
	switch cfg.Mode {
	case config.ModeWizard:
		runErr = runWizardMode(ctx, cfg, sink, crontabSink, logger, location)
	case config.ModeHTTP:
		runErr = runHTTPMode(ctx, cfg, storeInst, sink, logger, location)
	case config.ModeMCP:
		runErr = runMCPMode(storeInst, sink, logger, location)
	}
	if runErr != nil {
		stop()
		storeInst.Close()
		os.Exit(1)
	}
}

// buildSink chains the configured sinks in the order crontab, store.
func buildSink(cfg *config.Config, crontabSink *crontab.Sink, storeInst *store.Store) core.JobSink {
	var sinks []core.JobSink
	if cfg.HasSink(config.SinkCrontab) {
		sinks = append(sinks, crontabSink)
	}
	if cfg.HasSink(config.SinkStore) {
		sinks = append(sinks, storeInst)
	}
	if len(sinks) == 0 {
		return &core.NoOpSink{}
	}
	return core.NewMultiSink(sinks...)
}

// runWizardMode walks the user through one job on the terminal.
func runWizardMode(ctx context.Context, cfg *config.Config, sink core.JobSink, crontabSink *crontab.Sink, logger *slog.Logger, location *time.Location) error {
	console := wizard.NewTerminal(os.Stdin, os.Stdout, cfg.TypeDelay)
	opts := cli.Options{
		Console:  console,
		Sink:     sink,
		BinDir:   cfg.Job.BinDir,
		LogDir:   cfg.Job.LogDir,
		Location: location,
		Logger:   logger,
	}
	if cfg.HasSink(config.SinkCrontab) {
		opts.Backup = crontabSink
	}

	_, err := cli.New(opts).Run(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, io.EOF):
		console.Blank()
		fmt.Fprintln(os.Stderr, "Aborted, nothing was written.")
	default:
		logger.Error("wizard", "err", err)
	}
	return err
}

// runHTTPMode serves the HTTP API until a signal arrives.
func runHTTPMode(ctx context.Context, cfg *config.Config, storeInst *store.Store, sink core.JobSink, logger *slog.Logger, location *time.Location) error {
	server := api.NewServer(cfg.Server.Addr, cfg.Server.AuthToken, storeInst, sink, logger, location)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("received signal, shutting down")
	case runErr = <-serverErr:
		logger.Error("server error", "err", runErr)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "err", err)
	}
	logger.Info("shutdown complete")
	return runErr
}

// runMCPMode serves the MCP tools on stdio.
func runMCPMode(storeInst *store.Store, sink core.JobSink, logger *slog.Logger, location *time.Location) error {
	mcpServer := cronwizardmcp.NewMCPServer(storeInst, sink, logger, location)
	if err := mcpServer.Run(); err != nil {
		logger.Error("mcp server error", "err", err)
		return err
	}
	return nil
}
