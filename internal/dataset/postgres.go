package dataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSource reads records from a PostgreSQL table (see schema.sql).
type PostgresSource struct {
	URL      string
	Table    string
	MaxConns int
}

// pgQuerier is the part of *pgxpool.Pool that queryPostgres uses.
type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Name implements Source.
func (s *PostgresSource) Name() string { return "postgres" }

// Load implements Source.
func (s *PostgresSource) Load(ctx context.Context) ([]Record, error) {
	poolConfig, err := pgxpool.ParseConfig(s.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if s.MaxConns > 0 {
		poolConfig.MaxConns = int32(s.MaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	return queryPostgres(ctx, pool, s.Table)
}

func queryPostgres(ctx context.Context, q pgQuerier, table string) ([]Record, error) {
	rows, err := q.Query(ctx, postgresSelect(table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		var r Record
		err := row.Scan(&r.Name, &r.LastName, &r.Age, &r.Status)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}
	return records, nil
}

func postgresSelect(table string) string {
	return fmt.Sprintf("SELECT name, last_name, age, status FROM %s ORDER BY id", quoteIdentifier(table))
}

// quoteIdentifier quotes a PostgreSQL identifier.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
