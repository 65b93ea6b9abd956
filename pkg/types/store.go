package types

import (
	"context"
	"time"
)

// SchemaRecord is one row of a schema-record structure.
type SchemaRecord struct {
	ID       int64
	Blob     []byte
	IsActive bool
}

// ResponseRecord is one stored submission. Fields maps normalized keys to
// their stored text: every non-null question column plus any pass-through
// keys.
type ResponseRecord struct {
	ID          int64             `json:"id"`
	SchemaRef   string            `json:"schemaRef"`
	SubmittedAt time.Time         `json:"submittedAt"`
	Fields      map[string]string `json:"fields"`
}

// DirectoryEntry is the listing projection of one provisioned schema.
type DirectoryEntry struct {
	Title      string `json:"title"`
	Identifier string `json:"identifier"`
	IsActive   bool   `json:"isActive"`
}

// Store is the narrow relational interface the form engine persists
// through. Implementations return raw engine errors; the engine decides how
// they surface. Table names passed in are already validated identifiers.
type Store interface {
	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Tables lists every table in the store, sorted by name.
	Tables(ctx context.Context) ([]string, error)

	// Columns lists the columns of table. A missing table yields an empty
	// slice and no error.
	Columns(ctx context.Context, table string) ([]string, error)

	// EnsureSchemaTable creates the schema-record structure if it does not
	// exist and leaves an existing one untouched.
	EnsureSchemaTable(ctx context.Context, table string) error

	// EnsureResponseTable creates the response structure for layout if it
	// does not exist and leaves an existing one untouched.
	EnsureResponseTable(ctx context.Context, layout Layout) error

	// InsertSchemaRecord appends a schema-record row, active by default,
	// and returns its identity.
	InsertSchemaRecord(ctx context.Context, table string, blob []byte) (int64, error)

	// SchemaRecords returns every row of a schema-record structure in
	// identity order.
	SchemaRecords(ctx context.Context, table string) ([]SchemaRecord, error)

	// SetActive sets the activation flag on every row of table and returns
	// the number of rows changed.
	SetActive(ctx context.Context, table string, active bool) (int64, error)

	// InsertResponse appends one response row. values maps column names to
	// text and may include ColumnExtra; submittedAt fills the timestamp
	// column.
	InsertResponse(ctx context.Context, table string, values map[string]string, submittedAt time.Time) (int64, error)

	// Responses returns every row of a response structure in identity
	// order. Fields is keyed by column name, ColumnExtra included when set;
	// null columns are omitted and SchemaRef is left empty.
	Responses(ctx context.Context, table string) ([]ResponseRecord, error)

	// Close releases the backend.
	Close() error
}
