package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var ErrUnsupportedDriver = errors.New("records: unsupported storage driver")

// OpenDB opens a bun database for the given driver and DSN.
func OpenDB(driver, dsn string) (*bun.DB, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverSQLite, "sqlite3":
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("records: open sqlite: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case DriverPostgres, "pgx":
		sqlDB, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("records: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
}

// EnsureSchema creates the record and schema tables when missing.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*ResourceSchema)(nil),
		(*Record)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("records: create table: %w", err)
		}
	}
	_, err := db.NewCreateIndex().
		Model((*Record)(nil)).
		Index("idx_console_records_resource").
		Column("resource").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("records: create index: %w", err)
	}
	return nil
}
