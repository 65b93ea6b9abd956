package types

// Column is one question column of a response structure.
type Column struct {
	Name     string // Normalized identifier.
	Question string // Question text as authored.
}

// Layout is the physical storage derived from a Schema: the schema-record
// structure, the response structure and its question columns. Every
// question column stores text; the identity, submission timestamp and
// pass-through columns are implied by the backend.
type Layout struct {
	SchemaTable   string
	ResponseTable string
	Columns       []Column
}

// LayoutFor derives the storage layout of a validated schema.
func LayoutFor(s *Schema) Layout {
	id := s.Identifier()
	l := Layout{
		SchemaTable:   id,
		ResponseTable: ResponseTableName(id),
		Columns:       make([]Column, 0, len(s.Questions)),
	}
	for _, q := range s.Questions {
		l.Columns = append(l.Columns, Column{Name: q.Column(), Question: q.Text})
	}
	return l
}

// ColumnNames returns the question column names in schema order.
func (l Layout) ColumnNames() []string {
	names := make([]string, len(l.Columns))
	for i, c := range l.Columns {
		names[i] = c.Name
	}
	return names
}
