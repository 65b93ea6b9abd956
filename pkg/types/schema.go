package types

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Schema is the definition of one form. IsActive is not part of the
// serialized blob; it mirrors the activation flag of the record the schema
// was read from.
type Schema struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Postscript  string     `json:"postscript"`
	Questions   []Question `json:"questions"`
	IsActive    bool       `json:"-"`
}

// Identifier returns the storage identifier derived from the title.
func (s *Schema) Identifier() string { return Identifier(s.Title) }

// Required returns the questions marked required, in schema order.
func (s *Schema) Required() []Question {
	var out []Question
	for _, q := range s.Questions {
		if q.Required {
			out = append(out, q)
		}
	}
	return out
}

// rawSchema defers decoding of questions so a non-array value can be
// reported as an authoring error rather than a JSON type error.
type rawSchema struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Postscript  string          `json:"postscript"`
	Questions   json.RawMessage `json:"questions"`
}

// ParseSchema decodes raw author input and returns the canonical Schema.
// All failures wrap ErrInvalidSchema.
func ParseSchema(data []byte) (*Schema, error) {
	var raw rawSchema
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, Invalid("decode: %v", err)
	}
	q := bytes.TrimSpace(raw.Questions)
	if len(q) == 0 || bytes.Equal(q, []byte("null")) {
		return nil, Invalid("questions are required")
	}
	if q[0] != '[' {
		return nil, Invalid("questions must be an array")
	}
	var questions []Question
	if err := json.Unmarshal(q, &questions); err != nil {
		return nil, Invalid("decode questions: %v", err)
	}
	return NewSchema(Schema{
		ID:          raw.ID,
		Title:       raw.Title,
		Description: raw.Description,
		Postscript:  raw.Postscript,
		Questions:   questions,
	})
}

// NewSchema validates a draft and returns its canonical form: title, text
// and options trimmed, empty options dropped. The draft is not modified.
func NewSchema(draft Schema) (*Schema, error) {
	s := &Schema{
		ID:          strings.TrimSpace(draft.ID),
		Title:       strings.TrimSpace(draft.Title),
		Description: draft.Description,
		Postscript:  draft.Postscript,
		IsActive:    draft.IsActive,
	}
	if s.Title == "" {
		return nil, Invalid("title is required")
	}
	id := Identifier(s.Title)
	if !ValidIdentifier(id) || !ValidIdentifier(ResponseTableName(id)) {
		return nil, Invalid("title %q does not map to a valid storage identifier", s.Title)
	}
	if IsReservedTable(id) {
		return nil, Invalid("title %q maps to reserved storage name %s", s.Title, id)
	}
	if len(draft.Questions) == 0 {
		return nil, Invalid("at least one question is required")
	}

	seen := make(map[string]bool, len(draft.Questions))
	s.Questions = make([]Question, 0, len(draft.Questions))
	for i, dq := range draft.Questions {
		q := Question{
			Text:     strings.TrimSpace(dq.Text),
			Type:     dq.Type,
			Required: dq.Required,
		}
		if q.Text == "" {
			return nil, Invalid("question %d: text is required", i+1)
		}
		col := q.Column()
		if !ValidIdentifier(col) {
			return nil, Invalid("question %d: %q does not map to a valid column", i+1, q.Text)
		}
		if IsReservedColumn(col) {
			return nil, Invalid("question %d: %q is a reserved column name", i+1, q.Text)
		}
		key := strings.ToLower(col)
		if seen[key] {
			return nil, Invalid("question %d: duplicate question %q", i+1, q.Text)
		}
		seen[key] = true

		for _, opt := range dq.Options {
			if opt = strings.TrimSpace(opt); opt != "" {
				q.Options = append(q.Options, opt)
			}
		}
		kind := q.Kind()
		if kind.HasOptions() && len(q.Options) == 0 {
			return nil, Invalid("question %d: %s question %q needs options", i+1, kind, q.Text)
		}
		if kind == KindMultipleTick {
			for _, opt := range q.Options {
				if strings.Contains(opt, ",") {
					return nil, Invalid("question %d: option %q must not contain a comma", i+1, opt)
				}
			}
		}
		s.Questions = append(s.Questions, q)
	}
	return s, nil
}

// MarshalBlob serializes the schema into the stored blob form.
func (s *Schema) MarshalBlob() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalBlob parses a stored blob. A blob that does not decode, or that
// lacks a title or questions, wraps ErrCorruptSchema.
func UnmarshalBlob(blob []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(blob, &s); err != nil {
		return nil, &Error{Kind: ErrCorruptSchema, Message: err.Error()}
	}
	if strings.TrimSpace(s.Title) == "" {
		return nil, &Error{Kind: ErrCorruptSchema, Message: "stored schema has no title"}
	}
	if len(s.Questions) == 0 {
		return nil, &Error{Kind: ErrCorruptSchema, Message: "stored schema has no questions"}
	}
	return &s, nil
}
