package sqlstore

import (
	"strconv"
	"strings"
)

// placeholderStyle selects how bind parameters are written.
type placeholderStyle int

const (
	placeholderQuestion placeholderStyle = iota
	placeholderDollar
)

// dialect holds the statements that differ between engines. Everything else
// in Store is shared SQL.
type dialect struct {
	name        string
	placeholder placeholderStyle

	identityColumn string // DDL for the autogenerated primary key.
	trueDefault    string // Literal used as the is_active default.
	nowDefault     string // Expression producing RFC 3339 UTC text.

	tablesQuery  string // Lists base tables of the current database or schema.
	columnsQuery string // Lists column names of one table, in ordinal order.
}

// arg returns the n-th (1-based) bind placeholder.
func (d dialect) arg(n int) string {
	if d.placeholder == placeholderDollar {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// quoteIdent wraps ident in double quotes, doubling any embedded quote.
// Both engines accept double-quoted identifiers.
func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
