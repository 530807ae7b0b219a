package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"fyne.io/fyne/v2/app"

	"craftcalc/calculator"
	"craftcalc/cli"
	"craftcalc/config"
	"craftcalc/data"
	"craftcalc/logger"
	"craftcalc/session"
	"craftcalc/ui"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.InitLogger(logger.NewConfig(cfg.LogLevel, cfg.LogFormat, cfg.Environment,
		strings.EqualFold(cfg.LogLevel, logger.LogLevelDebug)))

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	policy, err := calculator.ParsePolicy(cfg.BatchPolicy)
	if err != nil {
		store.Close()
		return err
	}
	sess, err := session.Open(ctx, store, session.Options{
		FuzzyCutoff: cfg.FuzzyCutoff,
		Policy:      policy,
	})
	if err != nil {
		store.Close()
		return err
	}
	defer sess.Close()

	launchGUI := func() error {
		a := app.NewWithID("craftcalc")
		ui.BuildUI(a, sess).ShowAndRun()
		return nil
	}
	return cli.NewApp(sess, os.Stdout, launchGUI).Dispatch(ctx, args)
}

func openStore(ctx context.Context, cfg *config.Config) (data.Store, error) {
	if cfg.Store == config.StoreMySQL {
		slog.Debug("Using MySQL store", "host", cfg.DBHost, "database", cfg.DBName)
		return data.OpenMySQL(ctx, cfg.MySQLDSN())
	}
	slog.Debug("Using file store", "recipes", cfg.RecipesPath, "inventory", cfg.InventoryPath)
	return data.NewFileStore(cfg.RecipesPath, cfg.InventoryPath), nil
}
