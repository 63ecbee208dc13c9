package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"tmapmcp/internal/config"
	"tmapmcp/internal/mcpserver"
	"tmapmcp/internal/server"
	"tmapmcp/internal/storage"
	"tmapmcp/internal/tmap"
	"tmapmcp/internal/tools"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg := config.Load()

	// CLI flags
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn or error (overrides TMAP_LOG_LEVEL)")
	retention := flag.Duration("history-retention", 0, "Drop journaled calls older than this at startup (0 keeps everything)")
	flag.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "Serve streamable HTTP on this address instead of stdio, e.g. :8080")
	flag.StringVar(&cfg.HistoryDB, "history", cfg.HistoryDB, "SQLite file for the tool call journal (empty disables it)")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Tmap API base URL")
	flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Per-request upstream timeout")
	flag.Parse()
	if *logLevel != "" {
		cfg.LogLevel = config.ParseLevel(*logLevel)
	}

	// stdout carries the stdio transport, so logs go to stderr
	logger := cfg.Logger()

	client, err := tmap.New(cfg.Tmap(logger))
	if err != nil {
		logger.Error("invalid configuration", "error", err, "hint", "set TMAP_APP_KEY")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		db      *storage.DB
		journal tools.Journal
	)
	if cfg.HistoryDB != "" {
		db, err = storage.Open(cfg.HistoryDB, logger)
		if err != nil {
			logger.Error("failed to open history database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		journal = db

		if err := db.SetMetadata(ctx, "last_started_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
			logger.Warn("recording start time", "error", err)
		}
		if *retention > 0 {
			if _, err := db.PruneCalls(ctx, time.Now().Add(-*retention)); err != nil {
				logger.Warn("pruning call history", "error", err)
			}
		}
	}

	rt := mcpserver.New(&mcp.Implementation{Name: "Tmap API Server", Version: version}, &mcpserver.Options{
		Logger:       logger,
		Instructions: tools.Instructions,
	})
	tools.New(client, journal, logger).Register(rt)

	if cfg.HTTPAddr != "" {
		srv := server.New(cfg, rt, db, version, logger)
		if err := srv.ListenAndServe(ctx); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		logger.Info("shut down")
		return
	}

	if err := rt.ServeStdio(ctx); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}
