package testsupport

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// SQLiteMemoryDSN names a private in-memory sqlite database. Connections that
// share the DSN see the same tables.
func SQLiteMemoryDSN(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "console"
	}
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}

// NewBunSQLite opens the in-memory database called name behind a bun sqlite
// dialect. The handle is closed when the test ends.
func NewBunSQLite(tb testing.TB, name string) *bun.DB {
	tb.Helper()
	sqlDB, err := sql.Open("sqlite3", SQLiteMemoryDSN(name))
	if err != nil {
		tb.Fatalf("open sqlite %q: %v", name, err)
	}
	// a second connection to a shared memory db deadlocks on schema writes
	sqlDB.SetMaxOpenConns(1)

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	tb.Cleanup(func() { _ = db.Close() })
	return db
}
