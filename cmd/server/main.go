package main

import (
	"log/slog"
	"os"

	"go-society-manager/internal/app"
	"go-society-manager/internal/config"
	"go-society-manager/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	_, noColor := os.LookupEnv("NO_COLOR")
	slog.SetDefault(slog.New(logger.New(os.Stdout, cfg.LogFormat, logger.ParseLevel(cfg.LogLevel), noColor)))

	application, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
