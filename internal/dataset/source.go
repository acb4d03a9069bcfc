package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JonMunkholm/datetable/internal/config"
)

// ErrUnknownSource is returned by Open for an unsupported DATASET_SOURCE.
var ErrUnknownSource = errors.New("unknown dataset source")

// Source loads the full set of records.
type Source interface {
	// Name identifies the source in logs ("embedded", "postgres", ...).
	Name() string
	// Load returns every record in display order.
	Load(ctx context.Context) ([]Record, error)
}

// Open builds the Source selected by cfg.
func Open(cfg config.DatasetConfig) (Source, error) {
	switch strings.ToLower(cfg.Source) {
	case "", config.SourceEmbedded:
		return EmbeddedSource{}, nil
	case config.SourceFile:
		return FileSource{Path: cfg.Path}, nil
	case config.SourcePostgres:
		return &PostgresSource{URL: cfg.PostgresURL, Table: cfg.Table, MaxConns: cfg.MaxConns}, nil
	case config.SourceMySQL:
		return &MySQLSource{DSN: cfg.MySQLDSN, Table: cfg.Table, MaxConns: cfg.MaxConns}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source)
	}
}

// Load reads all records from src, bounded by timeout.
func Load(ctx context.Context, src Source, timeout time.Duration) ([]Record, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	records, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset from %s: %w", src.Name(), err)
	}

	slog.Info("dataset loaded",
		"source", src.Name(),
		"rows", len(records),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return records, nil
}
