package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/mesh-intelligence/formsmith/pkg/types"
)

var postgresDialect = dialect{
	name:           types.BackendPostgres,
	placeholder:    placeholderDollar,
	identityColumn: "BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY",
	trueDefault:    "TRUE",
	nowDefault:     `(to_char(now() AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS"Z"'))`,
	tablesQuery: `SELECT table_name FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'`,
	columnsQuery: `SELECT column_name FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position`,
}

var schemaNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// openPostgres connects once to create the target schema, then reconnects
// with search_path pinned to it so every unqualified table lands there.
func openPostgres(ctx context.Context, cfg types.Config) (*sql.DB, string, error) {
	schema := cfg.GetPostgresSchema()
	if !schemaNameRe.MatchString(schema) {
		return nil, "", fmt.Errorf("invalid postgres schema name %q (must match %s)", schema, schemaNameRe)
	}

	cfg0, err := pgx.ParseConfig(cfg.PostgresDSN)
	if err != nil {
		return nil, "", fmt.Errorf("parse dsn: %w", err)
	}
	db0 := stdlib.OpenDB(*cfg0)
	if err := db0.PingContext(ctx); err != nil {
		_ = db0.Close()
		return nil, "", fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db0.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+quoteIdent(schema)); err != nil {
		_ = db0.Close()
		return nil, "", fmt.Errorf("create schema %s: %w", schema, err)
	}
	_ = db0.Close()

	pcfg, err := pgx.ParseConfig(cfg.PostgresDSN)
	if err != nil {
		return nil, "", fmt.Errorf("parse dsn: %w", err)
	}
	if pcfg.RuntimeParams == nil {
		pcfg.RuntimeParams = make(map[string]string)
	}
	pcfg.RuntimeParams["search_path"] = quoteIdent(schema)

	db := stdlib.OpenDB(*pcfg)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping postgres: %w", err)
	}
	return db, fmt.Sprintf("%s:%d/%s", pcfg.Host, pcfg.Port, schema), nil
}
