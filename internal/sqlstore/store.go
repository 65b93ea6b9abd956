// Package sqlstore implements types.Store over database/sql. One Store
// serves either sqlite (modernc.org/sqlite or mattn/go-sqlite3) or postgres
// (pgx); the statements that differ live in a dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/mesh-intelligence/formsmith/pkg/types"
)

// Store is a relational types.Store.
type Store struct {
	db     *sql.DB
	d      dialect
	logger *log.Logger
}

var _ types.Store = (*Store)(nil)

// Open validates cfg and connects to the configured backend. The caller owns
// the returned Store and must Close it. A nil logger discards output.
func Open(ctx context.Context, cfg types.Config, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		db    *sql.DB
		where string
		err   error
		d     dialect
	)
	switch cfg.Backend {
	case types.BackendSQLite:
		d = sqliteDialect
		db, where, err = openSQLite(ctx, cfg)
	case types.BackendPostgres:
		d = postgresDialect
		db, where, err = openPostgres(ctx, cfg)
	}
	if err != nil {
		return nil, err
	}
	logger.Printf("store: opened %s at %s", d.name, where)
	return &Store{db: db, d: d, logger: logger}, nil
}

// Dialect returns the backend name.
func (s *Store) Dialect() string { return s.d.name }

// DB exposes the underlying pool.
func (s *Store) DB() *sql.DB { return s.db }

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool. The Store must not be used afterwards.
func (s *Store) Close() error {
	return s.db.Close()
}

// Tables returns the names of all base tables, sorted. On postgres only the
// configured schema is listed.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	names, err := s.queryStrings(ctx, s.d.tablesQuery)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Columns returns the column names of table in ordinal order. A missing
// table yields an empty slice, not an error.
func (s *Store) Columns(ctx context.Context, table string) ([]string, error) {
	names, err := s.queryStrings(ctx, s.d.columnsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("list columns of %s: %w", table, err)
	}
	return names, nil
}

// queryStrings runs query and collects its single string column.
func (s *Store) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// EnsureSchemaTable creates the schema-record table if it does not exist.
func (s *Store) EnsureSchemaTable(ctx context.Context, table string) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s %s,
	%s TEXT NOT NULL,
	%s BOOLEAN NOT NULL DEFAULT %s
)`,
		quoteIdent(table),
		quoteIdent(types.ColumnID), s.d.identityColumn,
		quoteIdent(types.ColumnJSONData),
		quoteIdent(types.ColumnIsActive), s.d.trueDefault,
	)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}
	return nil
}

// EnsureResponseTable creates the response table described by layout if it
// does not exist. An existing table is left as is.
func (s *Store) EnsureResponseTable(ctx context.Context, layout types.Layout) error {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", quoteIdent(layout.ResponseTable))
	fmt.Fprintf(&b, "\t%s %s,\n", quoteIdent(types.ColumnID), s.d.identityColumn)
	fmt.Fprintf(&b, "\t%s TEXT NOT NULL DEFAULT %s,\n", quoteIdent(types.ColumnSubmittedAt), s.d.nowDefault)
	fmt.Fprintf(&b, "\t%s TEXT", quoteIdent(types.ColumnExtra))
	for _, c := range layout.Columns {
		fmt.Fprintf(&b, ",\n\t%s TEXT", quoteIdent(c.Name))
	}
	b.WriteString("\n)")
	if _, err := s.db.ExecContext(ctx, b.String()); err != nil {
		return fmt.Errorf("create %s: %w", layout.ResponseTable, err)
	}
	return nil
}

// InsertSchemaRecord appends blob to table and returns the new row id. New
// records are active.
func (s *Store) InsertSchemaRecord(ctx context.Context, table string, blob []byte) (int64, error) {
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		quoteIdent(table), quoteIdent(types.ColumnJSONData), s.d.arg(1), quoteIdent(types.ColumnID))
	var id int64
	if err := s.db.QueryRowContext(ctx, q, string(blob)).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert into %s: %w", table, err)
	}
	return id, nil
}

// SchemaRecords returns every record of table in ascending id order.
func (s *Store) SchemaRecords(ctx context.Context, table string) ([]types.SchemaRecord, error) {
	q := fmt.Sprintf("SELECT %s, %s, %s FROM %s ORDER BY %s",
		quoteIdent(types.ColumnID), quoteIdent(types.ColumnJSONData), quoteIdent(types.ColumnIsActive),
		quoteIdent(table), quoteIdent(types.ColumnID))
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	defer rows.Close()

	var out []types.SchemaRecord
	for rows.Next() {
		var (
			rec  types.SchemaRecord
			blob string
		)
		if err := rows.Scan(&rec.ID, &blob, &rec.IsActive); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		rec.Blob = []byte(blob)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	return out, nil
}

// SetActive sets is_active on every row of table and returns the number of
// rows updated.
func (s *Store) SetActive(ctx context.Context, table string, active bool) (int64, error) {
	q := fmt.Sprintf("UPDATE %s SET %s = %s", quoteIdent(table), quoteIdent(types.ColumnIsActive), s.d.arg(1))
	res, err := s.db.ExecContext(ctx, q, active)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", table, err)
	}
	return n, nil
}

// InsertResponse writes one submission and returns its id. values maps
// column names to stored text; submittedAt is written as RFC 3339 UTC.
func (s *Store) InsertResponse(ctx context.Context, table string, values map[string]string, submittedAt time.Time) (int64, error) {
	cols := make([]string, 0, len(values))
	for c := range values {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	names := []string{quoteIdent(types.ColumnSubmittedAt)}
	marks := []string{s.d.arg(1)}
	args := []any{submittedAt.UTC().Format(time.RFC3339)}
	for _, c := range cols {
		names = append(names, quoteIdent(c))
		args = append(args, values[c])
		marks = append(marks, s.d.arg(len(args)))
	}

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		quoteIdent(table), strings.Join(names, ", "), strings.Join(marks, ", "), quoteIdent(types.ColumnID))
	var id int64
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert into %s: %w", table, err)
	}
	return id, nil
}

// Responses returns every submission in table in ascending id order. Null
// columns are left out of Fields.
func (s *Store) Responses(ctx context.Context, table string) ([]types.ResponseRecord, error) {
	q := fmt.Sprintf("SELECT * FROM %s ORDER BY %s", quoteIdent(table), quoteIdent(types.ColumnID))
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}

	var out []types.ResponseRecord
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		var id int64
		dest := make([]any, len(cols))
		for i, c := range cols {
			if c == types.ColumnID {
				dest[i] = &id
			} else {
				dest[i] = &vals[i]
			}
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}

		rec := types.ResponseRecord{ID: id, Fields: make(map[string]string, len(cols))}
		for i, c := range cols {
			switch {
			case c == types.ColumnID || !vals[i].Valid:
			case c == types.ColumnSubmittedAt:
				at, err := time.Parse(time.RFC3339, vals[i].String)
				if err != nil {
					return nil, fmt.Errorf("parse %s of %s row %d: %w", c, table, id, err)
				}
				rec.SubmittedAt = at
			default:
				rec.Fields[c] = vals[i].String
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	return out, nil
}
