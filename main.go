package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

func main() {
	config_file := flag.String("config", "", "config file (default $CITYROUTES_CONFIG or ./config.yaml)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file: " + err.Error())
	}

	path := *config_file
	if path == "" {
		path = os.Getenv("CITYROUTES_CONFIG")
	}
	if path == "" {
		path = "./config.yaml"
	}
	config, err := ReadConfig(path)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	if err := SetupLogging(os.Stderr, config.LogLevel); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx, config); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
