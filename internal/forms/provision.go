package forms

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/formsmith/pkg/types"
)

// newSchemaID returns a UUID v7 for a new schema.
func newSchemaID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// CreateSchema validates draft, assigns it an id when it has none, and
// provisions its storage. It returns the storage identifier.
//
// Creating a schema whose title is already provisioned appends a new record,
// which becomes the current definition. A different title that maps to the
// same identifier is a conflict.
func (s *Service) CreateSchema(ctx context.Context, draft types.Schema) (string, error) {
	const op = "create schema"

	schema, err := types.NewSchema(draft)
	if err != nil {
		return "", withOp(err, op)
	}
	identifier := schema.Identifier()

	if schema.ID == "" {
		id, err := s.newID()
		if err != nil {
			return "", s.storageError(op, identifier, fmt.Errorf("generate id: %w", err))
		}
		schema.ID = id
	}

	if err := s.provision(ctx, op, schema); err != nil {
		return "", err
	}
	s.logger.Printf("%s %s: provisioned schema %s", op, identifier, schema.ID)
	return identifier, nil
}

// Provision ensures both storage structures of schema exist and appends the
// schema as a new record. It is safe to repeat and completes a previous call
// that failed half way.
func (s *Service) Provision(ctx context.Context, schema types.Schema) error {
	canonical, err := types.NewSchema(schema)
	if err != nil {
		return withOp(err, "provision")
	}
	return s.provision(ctx, "provision", canonical)
}

// ProvisionAndStore is Provision.
func (s *Service) ProvisionAndStore(ctx context.Context, schema types.Schema) error {
	return s.Provision(ctx, schema)
}

func (s *Service) provision(ctx context.Context, op string, schema *types.Schema) error {
	layout := types.LayoutFor(schema)
	identifier := layout.SchemaTable

	blob, err := schema.MarshalBlob()
	if err != nil {
		return s.storageError(op, identifier, fmt.Errorf("encode schema: %w", err))
	}

	cols, err := s.store.Columns(ctx, layout.SchemaTable)
	if err != nil {
		return s.storageError(op, identifier, err)
	}
	if len(cols) > 0 && !isSchemaTable(cols) {
		return conflict(op, identifier, "a table named %s exists and does not hold schemas", identifier)
	}
	if len(cols) > 0 {
		if err := s.checkTitle(ctx, op, schema); err != nil {
			return err
		}
	}
	if err := s.store.EnsureSchemaTable(ctx, layout.SchemaTable); err != nil {
		return s.storageError(op, identifier, err)
	}

	cols, err = s.store.Columns(ctx, layout.ResponseTable)
	if err != nil {
		return s.storageError(op, identifier, err)
	}
	if len(cols) > 0 {
		if missing := missingColumns(layout, cols); len(missing) > 0 {
			e := conflict(op, identifier, "response table %s lacks columns for", layout.ResponseTable)
			e.Fields = missing
			return e
		}
	} else if err := s.store.EnsureResponseTable(ctx, layout); err != nil {
		return s.storageError(op, identifier, err)
	}

	if _, err := s.store.InsertSchemaRecord(ctx, layout.SchemaTable, blob); err != nil {
		return s.storageError(op, identifier, err)
	}
	return nil
}

// checkTitle rejects schema when the latest stored record of its identifier
// carries a different title.
func (s *Service) checkTitle(ctx context.Context, op string, schema *types.Schema) error {
	identifier := schema.Identifier()
	records, err := s.store.SchemaRecords(ctx, identifier)
	if err != nil {
		return s.storageError(op, identifier, err)
	}
	if len(records) == 0 {
		return nil
	}
	current, err := types.UnmarshalBlob(records[len(records)-1].Blob)
	if err != nil {
		return withIdentifier(err, op, identifier)
	}
	if strings.TrimSpace(current.Title) != schema.Title {
		return conflict(op, identifier, "title %q maps to the same storage as %q", schema.Title, current.Title)
	}
	return nil
}

// isSchemaTable reports whether cols are those of a schema-record structure.
func isSchemaTable(cols []string) bool {
	return hasColumn(cols, types.ColumnJSONData) && hasColumn(cols, types.ColumnIsActive)
}

// missingColumns returns the question texts of layout columns absent from
// cols, plus any reserved response column that is absent.
func missingColumns(layout types.Layout, cols []string) []string {
	var missing []string
	for _, c := range []string{types.ColumnID, types.ColumnSubmittedAt, types.ColumnExtra} {
		if !hasColumn(cols, c) {
			missing = append(missing, c)
		}
	}
	for _, c := range layout.Columns {
		if !hasColumn(cols, c.Name) {
			missing = append(missing, c.Question)
		}
	}
	return missing
}

func hasColumn(cols []string, name string) bool {
	return slices.Contains(cols, name)
}

func conflict(op, identifier, format string, args ...any) *types.Error {
	return &types.Error{
		Kind:       types.ErrSchemaConflict,
		Op:         op,
		Identifier: identifier,
		Message:    fmt.Sprintf(format, args...),
	}
}

// withOp stamps op onto a kinded error that has none.
func withOp(err error, op string) error {
	return withIdentifier(err, op, "")
}

func withIdentifier(err error, op, identifier string) error {
	e, ok := err.(*types.Error)
	if !ok {
		return err
	}
	out := *e
	if out.Op == "" {
		out.Op = op
	}
	if out.Identifier == "" {
		out.Identifier = identifier
	}
	return &out
}
