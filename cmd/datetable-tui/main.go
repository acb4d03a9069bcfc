package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/datetable/internal/config"
	"github.com/JonMunkholm/datetable/internal/core"
	"github.com/JonMunkholm/datetable/internal/dataset"
	"github.com/JonMunkholm/datetable/internal/locale"
	"github.com/JonMunkholm/datetable/internal/logging"
	"github.com/JonMunkholm/datetable/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "datetable:", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment and defaults still apply.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The alternate screen owns stdout, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logging.SetupWriter(logOut, cfg.Logging.Level, cfg.Logging.Format)

	ctx := context.Background()
	src, err := dataset.Open(cfg.Dataset)
	if err != nil {
		return err
	}
	records, err := dataset.Load(ctx, src, cfg.Dataset.LoadTimeout)
	if err != nil {
		return err
	}

	labels, err := locale.Load(cfg.Table.Locale, cfg.Table.LabelsFile)
	if err != nil {
		return err
	}

	service, err := core.NewService(records, labels, core.Options{
		PageSize:       cfg.Table.PageSize,
		PageSizes:      cfg.Table.PageSizes,
		MaxMultiSort:   cfg.Table.MaxMultiSort,
		SearchDebounce: cfg.Table.SearchDebounce,
		KeepDiacritics: cfg.Table.SearchKeepAccents,
	})
	if err != nil {
		return err
	}
	defer service.Close()

	sess, err := service.NewSession(ctx)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(tui.New(service, sess), tea.WithAltScreen()).Run()
	return err
}
