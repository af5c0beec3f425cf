package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"omnichat/chat"
	"omnichat/config"
	"omnichat/ollama"
	"omnichat/server"
	"omnichat/storage"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	store, err := storage.NewChatStorage(cfg.DataDir)
	if err != nil {
		logger.Error("failed to open chat storage", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Best-effort local daemon setup; the app serves cloud providers
	// regardless of the outcome.
	if cfg.Settings.Ollama.AutoStart {
		go func() {
			client, err := ollama.NewClient(cfg.OllamaURL())
			if err != nil {
				logger.Warn("invalid ollama URL", "err", err)
				return
			}
			config.InitializeOllama(ctx, cfg.Registry, client)
		}()
	}

	service := chat.NewService(cfg.CredentialStore, cfg.OllamaURL())
	srv := server.New(cfg, service, store, logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "err", err)
		}
	}()

	logger.Info("omnichat listening", "addr", cfg.Settings.ListenAddr)
	if err := srv.Start(cfg.Settings.ListenAddr); err != nil {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
