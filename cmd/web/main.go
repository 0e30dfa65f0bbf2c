package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"budgetweb/internal/backend"
	"budgetweb/internal/buildinfo"
	"budgetweb/internal/config"
	"budgetweb/internal/logging"
	"budgetweb/internal/web"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	cfg := config.LoadConfig()
	logger := logging.NewDefault()

	client := backend.NewHTTPClient(cfg.BackendBaseURL, cfg.SessionCookieName, logger)

	app, err := web.NewApp(cfg, client, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
