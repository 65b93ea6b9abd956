// Package types defines the Schema, Question and ResponseRecord entities, the
// Store interface the form engine reaches storage through, identifier
// derivation, and the standard error kinds for formsmith.
package types
