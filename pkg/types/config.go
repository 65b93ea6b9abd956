package types

import "errors"

// Config holds backend selection and parameters for opening a Store.
type Config struct {
	Backend        string `json:"backend" yaml:"backend"`
	DataDir        string `json:"data_dir" yaml:"data_dir"`
	SQLiteDriver   string `json:"sqlite_driver" yaml:"sqlite_driver"`
	PostgresDSN    string `json:"postgres_dsn" yaml:"postgres_dsn"`
	PostgresSchema string `json:"postgres_schema" yaml:"postgres_schema"`

	// Concurrency bounds how many storage units directory enumeration
	// inspects at once. Zero selects DefaultConcurrency.
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// Supported backend names.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Supported database/sql driver names for the sqlite backend.
const (
	DriverModernc = "sqlite"  // modernc.org/sqlite, pure Go
	DriverMattn   = "sqlite3" // github.com/mattn/go-sqlite3, cgo
)

// Defaults applied by the getters below.
const (
	DefaultConcurrency    = 8
	DefaultPostgresSchema = "public"
)

// Config validation errors.
var (
	ErrBackendEmpty       = errors.New("backend must not be empty")
	ErrBackendUnknown     = errors.New("unknown backend")
	ErrDriverUnknown      = errors.New("unknown sqlite driver")
	ErrDSNEmpty           = errors.New("postgres dsn must not be empty")
	ErrConcurrencyInvalid = errors.New("concurrency must not be negative")
)

var knownBackends = map[string]bool{
	BackendSQLite:   true,
	BackendPostgres: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	switch c.Backend {
	case BackendSQLite:
		if c.SQLiteDriver != "" && c.SQLiteDriver != DriverModernc && c.SQLiteDriver != DriverMattn {
			return ErrDriverUnknown
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return ErrDSNEmpty
		}
	}
	if c.Concurrency < 0 {
		return ErrConcurrencyInvalid
	}
	return nil
}

// GetSQLiteDriver returns the configured driver or the pure-Go default.
func (c Config) GetSQLiteDriver() string {
	if c.SQLiteDriver == "" {
		return DriverModernc
	}
	return c.SQLiteDriver
}

// GetPostgresSchema returns the configured schema or "public".
func (c Config) GetPostgresSchema() string {
	if c.PostgresSchema == "" {
		return DefaultPostgresSchema
	}
	return c.PostgresSchema
}

// GetConcurrency returns the configured fan-out width or the default.
func (c Config) GetConcurrency() int {
	if c.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return c.Concurrency
}
