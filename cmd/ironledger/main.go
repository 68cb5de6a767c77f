package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/ironledger/internal/config"
	"github.com/claude/ironledger/internal/ledger"
	ilmcp "github.com/claude/ironledger/internal/mcp"
	"github.com/claude/ironledger/internal/server"
	"github.com/claude/ironledger/internal/storage"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	mcpStdio := flag.Bool("mcp", false, "serve MCP over stdio instead of HTTP")
	mcpRemote := flag.String("mcp-remote", "", "serve MCP over stdio against a remote IronLedger URL")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("ironledger", Version)
		return
	}

	// stdout carries the MCP protocol in stdio modes
	logOut := os.Stdout
	if *mcpStdio || *mcpRemote != "" {
		logOut = os.Stderr
	}
	log := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("IronLedger starting", "version", Version)

	if *mcpRemote != "" {
		serveMCP(ilmcp.NewHTTPClient(*mcpRemote), log)
		return
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Open storage
	ctx := context.Background()
	kv, err := storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		log.Error("failed to open storage", "driver", cfg.Storage.Driver, "path", cfg.Storage.Path, "error", err)
		os.Exit(1)
	}
	defer kv.Close()
	log.Info("storage opened", "driver", cfg.Storage.Driver, "path", cfg.Storage.Path)

	store := ledger.New(ctx, kv, ledger.Options{
		Key:       cfg.Storage.Key,
		Templates: config.SeedTemplates(cfg.TemplatesFile, log),
		Log:       log,
	})

	if *mcpStdio {
		serveMCP(ilmcp.LocalSource{Store: store}, log)
		return
	}

	srv := server.New(store, server.Options{
		APIKey:      cfg.Auth.APIKey,
		ExtendBy:    time.Duration(cfg.Timer.ExtendSeconds) * time.Second,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, log)

	tickCtx, stopTicker := context.WithCancel(ctx)
	defer stopTicker()
	go srv.Timer().Run(tickCtx, time.Second)

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := cfg.Server.Addr()
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "local (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)
	stopTicker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	if _, ok := store.Active(); ok {
		log.Warn("an unfinished session was not saved")
	}
	log.Info("server stopped")
}

func serveMCP(ds ilmcp.DataSource, log *slog.Logger) {
	s := ilmcp.New(ds, Version, log)
	log.Info("serving MCP over stdio")
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
