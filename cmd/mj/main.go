package main

import (
	"fmt"
	"os"

	"github.com/vladlyt/mj/internal/app"
	"github.com/vladlyt/mj/internal/cli"
	"github.com/vladlyt/mj/internal/config"
	"github.com/vladlyt/mj/internal/logger"
	"github.com/vladlyt/mj/internal/output"
)

func main() {
	if err := run(); err != nil {
		formatter := output.NewFormatter(os.Stderr)
		formatter.Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	loggerClient := logger.New(cfg.LevelOr("warn"), cfg.PrettyLog)
	defer func() { _ = loggerClient.Sync() }()

	application, err := app.New(cfg, loggerClient)
	if err != nil {
		return fmt.Errorf("initializing app: %w", err)
	}

	deps := &cli.Dependencies{
		App:    application,
		Config: cfg,
	}

	return cli.NewRootCmd(deps).Execute()
}
