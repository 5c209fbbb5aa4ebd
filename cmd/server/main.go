package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/polycollide/internal/config"
	"github.com/zeusync/polycollide/internal/core/observability/log"
	"github.com/zeusync/polycollide/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config (defaults when empty)")
	flag.Parse()

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	app, err := injector.InitializeApp(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error building server:", err)
		os.Exit(1)
	}
	defer func() { _ = app.Logger.Sync() }()

	if _, err = injector.LogCollisions(app.Bus, app.Logger); err != nil {
		app.Logger.Fatal("Failed to subscribe to collisions", log.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = app.Run(ctx); err != nil {
		app.Logger.Error("Server exited", log.Error(err))
		os.Exit(1)
	}
}
