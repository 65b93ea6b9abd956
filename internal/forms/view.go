package forms

import (
	"context"

	"github.com/mesh-intelligence/formsmith/pkg/render"
	"github.com/mesh-intelligence/formsmith/pkg/types"
)

// current loads the most recent schema record of identifier. The returned
// schema's IsActive mirrors that record's flag.
func (s *Service) current(ctx context.Context, op, identifier string) (*types.Schema, error) {
	if !types.ValidIdentifier(identifier) {
		return nil, &types.Error{Kind: types.ErrSchemaNotFound, Op: op, Identifier: identifier}
	}
	cols, err := s.store.Columns(ctx, identifier)
	if err != nil {
		return nil, s.storageError(op, identifier, err)
	}
	if !isSchemaTable(cols) {
		return nil, &types.Error{Kind: types.ErrSchemaNotFound, Op: op, Identifier: identifier}
	}
	records, err := s.store.SchemaRecords(ctx, identifier)
	if err != nil {
		return nil, s.storageError(op, identifier, err)
	}
	if len(records) == 0 {
		return nil, &types.Error{Kind: types.ErrSchemaNotFound, Op: op, Identifier: identifier}
	}
	rec := records[len(records)-1]
	schema, err := types.UnmarshalBlob(rec.Blob)
	if err != nil {
		s.logger.Printf("%s %s: record %d: %v", op, identifier, rec.ID, err)
		return nil, withIdentifier(err, op, identifier)
	}
	schema.IsActive = rec.IsActive
	return schema, nil
}

// GetSchema returns the current definition of an active form.
func (s *Service) GetSchema(ctx context.Context, identifier string) (*types.Schema, error) {
	const op = "get schema"
	schema, err := s.current(ctx, op, identifier)
	if err != nil {
		return nil, err
	}
	if !schema.IsActive {
		return nil, &types.Error{Kind: types.ErrFormInactive, Op: op, Identifier: identifier}
	}
	return schema, nil
}

// Render returns the client view of an active form.
func (s *Service) Render(ctx context.Context, identifier string) (render.FormView, error) {
	schema, err := s.GetSchema(ctx, identifier)
	if err != nil {
		return render.FormView{}, err
	}
	return render.View(schema), nil
}
