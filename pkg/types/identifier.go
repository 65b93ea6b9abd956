package types

import (
	"strings"
	"unicode"
)

// Identifier rules for the storage names derived from titles and question text.
const (
	// IdentifierSeparator replaces every run of whitespace.
	IdentifierSeparator = "_"

	// MaxIdentifierLength is the longest identifier accepted, in bytes.
	// It matches the postgres limit so names are never silently truncated.
	MaxIdentifierLength = 63

	// ResponseSuffix is appended to a schema identifier to name its
	// response structure.
	ResponseSuffix = "_responses"
)

// Reserved response columns. Question identifiers may not use these names.
const (
	ColumnID          = "id"
	ColumnSubmittedAt = "submitted_at"
	ColumnExtra       = "_extra"
)

// Schema-record columns.
const (
	ColumnJSONData = "json_data"
	ColumnIsActive = "is_active"
)

var reservedColumns = map[string]bool{
	ColumnID:          true,
	ColumnSubmittedAt: true,
	ColumnExtra:       true,
}

// Identifier derives a storage identifier from authored text: each run of
// whitespace becomes a single separator, everything else is left as authored.
// Leading and trailing runs are kept.
func Identifier(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteString(IdentifierSeparator)
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// ResponseTableName returns the response structure name for a schema identifier.
func ResponseTableName(identifier string) string {
	return identifier + ResponseSuffix
}

// ValidIdentifier reports whether id can be used as a quoted storage
// identifier on every supported backend.
func ValidIdentifier(id string) bool {
	if id == "" || len(id) > MaxIdentifierLength {
		return false
	}
	for _, r := range id {
		if r == '"' || r == '`' || r == 0 || unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// reservedTablePrefix is the name space sqlite keeps for its own tables.
const reservedTablePrefix = "sqlite_"

// IsReservedTable reports whether id falls in a table name space a backend
// reserves for itself.
func IsReservedTable(id string) bool {
	return strings.HasPrefix(strings.ToLower(id), reservedTablePrefix)
}

// IsReservedColumn reports whether name collides with a response column the
// engine manages itself.
func IsReservedColumn(name string) bool {
	return reservedColumns[strings.ToLower(name)]
}
