package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/litovel-minicup/matchlive/internal/config"
	"github.com/litovel-minicup/matchlive/internal/logging"
	"github.com/litovel-minicup/matchlive/internal/server"
)

const appVersion = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("invalid configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "matchlive",
		Version: appVersion,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(cfg, logger)
	if err != nil {
		logging.Error(logger, "startup failed", err)
		os.Exit(1)
	}
	srv.Run(ctx, stop)
}
