package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQLSource reads records from a MySQL table (see schema.sql).
type MySQLSource struct {
	DSN      string
	Table    string
	MaxConns int
}

// Name implements Source.
func (s *MySQLSource) Name() string { return "mysql" }

// Load implements Source.
func (s *MySQLSource) Load(ctx context.Context) ([]Record, error) {
	cfg, err := mysql.ParseDSN(s.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse MYSQL_DSN: %w", err)
	}
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["charset"]; !ok {
		cfg.Params["charset"] = "utf8mb4"
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}

	db := sql.OpenDB(connector)
	defer db.Close()

	if s.MaxConns > 0 {
		db.SetMaxOpenConns(s.MaxConns)
		db.SetMaxIdleConns(s.MaxConns)
	}
	db.SetConnMaxLifetime(10 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	return queryMySQL(ctx, db, s.Table)
}

func queryMySQL(ctx context.Context, db *sql.DB, table string) ([]Record, error) {
	rows, err := db.QueryContext(ctx, mysqlSelect(table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Name, &r.LastName, &r.Age, &r.Status); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return records, nil
}

func mysqlSelect(table string) string {
	return fmt.Sprintf("SELECT name, last_name, age, status FROM %s ORDER BY id", quoteMySQLIdentifier(table))
}

func quoteMySQLIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
