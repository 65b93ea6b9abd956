package forms

import (
	"context"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/formsmith/pkg/render"
	"github.com/mesh-intelligence/formsmith/pkg/types"
)

// Submit validates raw answers against the current definition of an active
// form and appends them as one response. It returns the new record's id.
//
// Keys are normalized the way question text is. Keys that match no question
// are kept with the record rather than rejected. Nothing is written when any
// check fails.
func (s *Service) Submit(ctx context.Context, identifier string, raw map[string]any) (int64, error) {
	const op = "submit"

	schema, err := s.current(ctx, op, identifier)
	if err != nil {
		return 0, err
	}
	if !schema.IsActive {
		return 0, &types.Error{Kind: types.ErrFormInactive, Op: op, Identifier: identifier}
	}

	values := normalizeValues(raw)

	var missing []string
	for _, q := range schema.Required() {
		if strings.TrimSpace(values[q.Column()]) == "" {
			missing = append(missing, q.Text)
		}
	}
	if len(missing) > 0 {
		return 0, &types.Error{Kind: types.ErrMissingRequiredField, Op: op, Identifier: identifier, Fields: missing}
	}

	row := make(map[string]string, len(values))
	var (
		invalid []string
		reasons []string
	)
	for _, q := range schema.Questions {
		col := q.Column()
		v, ok := values[col]
		if !ok {
			continue
		}
		delete(values, col)
		if strings.TrimSpace(v) == "" {
			row[col] = v
			continue
		}
		coerced, err := render.Resolve(q).Coerce(v)
		if err != nil {
			invalid = append(invalid, q.Text)
			reasons = append(reasons, fmt.Sprintf("%s: %v", q.Text, err))
			continue
		}
		row[col] = coerced
	}
	if len(invalid) > 0 {
		return 0, &types.Error{
			Kind:       types.ErrInvalidFieldValue,
			Op:         op,
			Identifier: identifier,
			Message:    strings.Join(reasons, "; "),
			Fields:     invalid,
		}
	}

	if len(values) > 0 {
		extra, err := encodeExtra(values)
		if err != nil {
			return 0, s.storageError(op, identifier, fmt.Errorf("encode extra: %w", err))
		}
		row[types.ColumnExtra] = extra
	}

	id, err := s.store.InsertResponse(ctx, types.ResponseTableName(identifier), row, s.now().UTC())
	if err != nil {
		return 0, s.storageError(op, identifier, err)
	}
	return id, nil
}

// Responses returns every stored response of a form in submission order,
// whether or not the form is active.
func (s *Service) Responses(ctx context.Context, identifier string) ([]types.ResponseRecord, error) {
	const op = "responses"

	if _, err := s.current(ctx, op, identifier); err != nil {
		return nil, err
	}
	table := types.ResponseTableName(identifier)
	cols, err := s.store.Columns(ctx, table)
	if err != nil {
		return nil, s.storageError(op, identifier, err)
	}
	if len(cols) == 0 {
		return []types.ResponseRecord{}, nil
	}

	records, err := s.store.Responses(ctx, table)
	if err != nil {
		return nil, s.storageError(op, identifier, err)
	}
	for i := range records {
		records[i].SchemaRef = identifier
		if err := mergeExtra(records[i].Fields); err != nil {
			s.logger.Printf("%s %s: record %d: undecodable %s: %v", op, identifier, records[i].ID, types.ColumnExtra, err)
		}
	}
	if records == nil {
		records = []types.ResponseRecord{}
	}
	return records, nil
}
