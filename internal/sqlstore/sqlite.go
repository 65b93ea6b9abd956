package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/formsmith/pkg/types"
)

// DatabaseFile is the name of the sqlite database inside the data directory.
const DatabaseFile = "forms.db"

// MemoryDataDir selects a private in-memory database instead of a file.
const MemoryDataDir = ":memory:"

var sqliteDialect = dialect{
	name:           types.BackendSQLite,
	placeholder:    placeholderQuestion,
	identityColumn: "INTEGER PRIMARY KEY AUTOINCREMENT",
	trueDefault:    "1",
	nowDefault:     "(strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))",
	tablesQuery: `SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\'`,
	columnsQuery: `SELECT name FROM pragma_table_info(?) ORDER BY cid`,
}

// sqliteDSN builds the connection string for driver. The two drivers spell
// their pragmas differently.
func sqliteDSN(driver, path string) string {
	if driver == types.DriverMattn {
		if path == MemoryDataDir {
			return "file::memory:?_busy_timeout=5000"
		}
		return "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL"
	}
	if path == MemoryDataDir {
		return ":memory:?_pragma=busy_timeout(5000)"
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// openSQLite opens the database file under cfg.DataDir, creating the
// directory if needed.
func openSQLite(ctx context.Context, cfg types.Config) (*sql.DB, string, error) {
	path := MemoryDataDir
	if cfg.DataDir != MemoryDataDir {
		dataDir := cfg.DataDir
		if dataDir == "" {
			dataDir = "."
		}
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, "", fmt.Errorf("create data dir: %w", err)
		}
		path = filepath.Join(dataDir, DatabaseFile)
	}

	driver := cfg.GetSQLiteDriver()
	db, err := sql.Open(driver, sqliteDSN(driver, path))
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", driver, err)
	}
	if path == MemoryDataDir {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, path, nil
}
