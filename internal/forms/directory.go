package forms

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/mesh-intelligence/formsmith/pkg/types"
)

// unit is the directory projection of one schema-record structure, taken
// from its most recent record.
type unit struct {
	identifier string
	title      string
	isActive   bool
}

// scan inspects every table concurrently and returns the schema-record
// structures among them, sorted by identifier. Only the table listing itself
// is fatal: a table that fails inspection is logged and left out.
func (s *Service) scan(ctx context.Context, op string) ([]unit, error) {
	tables, err := s.store.Tables(ctx)
	if err != nil {
		return nil, s.storageError(op, "", err)
	}

	p := pool.NewWithResults[*unit]().WithMaxGoroutines(s.concurrency)
	for _, table := range tables {
		p.Go(func() *unit {
			u, err := s.inspect(ctx, table)
			if err != nil {
				s.logger.Printf("%s %s: skipped: %v", op, table, err)
				return nil
			}
			return u
		})
	}

	var units []unit
	for _, u := range p.Wait() {
		if u != nil {
			units = append(units, *u)
		}
	}
	sort.Slice(units, func(i, j int) bool { return units[i].identifier < units[j].identifier })
	return units, nil
}

// inspect returns nil, nil for tables that are not schema-record structures
// or hold no record yet.
func (s *Service) inspect(ctx context.Context, table string) (*unit, error) {
	cols, err := s.store.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	if !isSchemaTable(cols) {
		return nil, nil
	}
	records, err := s.store.SchemaRecords(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	rec := records[len(records)-1]
	schema, err := types.UnmarshalBlob(rec.Blob)
	if err != nil {
		return nil, err
	}
	return &unit{identifier: table, title: schema.Title, isActive: rec.IsActive}, nil
}

// List returns one entry per provisioned form, sorted by identifier.
func (s *Service) List(ctx context.Context) ([]types.DirectoryEntry, error) {
	units, err := s.scan(ctx, "list")
	if err != nil {
		return nil, err
	}
	entries := make([]types.DirectoryEntry, len(units))
	for i, u := range units {
		entries[i] = types.DirectoryEntry{Title: u.title, Identifier: u.identifier, IsActive: u.isActive}
	}
	return entries, nil
}

// SetActive sets the activation flag of every form whose current title is
// exactly title, ignoring surrounding whitespace. It returns the identifiers
// updated.
func (s *Service) SetActive(ctx context.Context, title string, active bool) ([]string, error) {
	const op = "set active"
	want := strings.TrimSpace(title)

	units, err := s.scan(ctx, op)
	if err != nil {
		return nil, err
	}

	var updated []string
	for _, u := range units {
		if strings.TrimSpace(u.title) != want {
			continue
		}
		if _, err := s.store.SetActive(ctx, u.identifier, active); err != nil {
			return updated, s.storageError(op, u.identifier, err)
		}
		s.logger.Printf("%s %s: is_active=%t", op, u.identifier, active)
		updated = append(updated, u.identifier)
	}
	if len(updated) == 0 {
		return nil, &types.Error{Kind: types.ErrSchemaNotFound, Op: op, Message: fmt.Sprintf("no form titled %q", want)}
	}
	return updated, nil
}

// ResponseTables lists the response structures in the store, sorted.
func (s *Service) ResponseTables(ctx context.Context) ([]string, error) {
	tables, err := s.store.Tables(ctx)
	if err != nil {
		return nil, s.storageError("response tables", "", err)
	}
	out := []string{}
	for _, t := range tables {
		if strings.HasSuffix(t, types.ResponseSuffix) && t != types.ResponseSuffix {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out, nil
}
