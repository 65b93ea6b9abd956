package types

import (
	"strings"
	"testing"
)

func TestIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Feedback Form", "Feedback_Form"},
		{"Feedback   Form", "Feedback_Form"},
		{"Feedback\t\nForm", "Feedback_Form"},
		{" padded ", "_padded_"},
		{"already_snake", "already_snake"},
		{"Café Survey", "Café_Survey"},
		{"no-break\u00a0space", "no-break_space"},
		{"What's your name?", "What's_your_name?"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Identifier(tt.in); got != tt.want {
			t.Errorf("Identifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIdentifierIsIdempotent(t *testing.T) {
	for _, s := range []string{"Feedback Form", "a  b\tc", " x "} {
		once := Identifier(s)
		if twice := Identifier(once); twice != once {
			t.Errorf("Identifier(Identifier(%q)) = %q, want %q", s, twice, once)
		}
	}
}

func TestResponseTableName(t *testing.T) {
	if got := ResponseTableName("Feedback_Form"); got != "Feedback_Form_responses" {
		t.Errorf("ResponseTableName = %q", got)
	}
}

func TestValidIdentifier(t *testing.T) {
	valid := []string{"Feedback_Form", "a", "Café", "x?y", strings.Repeat("a", MaxIdentifierLength)}
	for _, id := range valid {
		if !ValidIdentifier(id) {
			t.Errorf("ValidIdentifier(%q) = false, want true", id)
		}
	}
	invalid := []string{"", `quo"te`, "back`tick", "nul\x00", "bell\a", strings.Repeat("a", MaxIdentifierLength+1)}
	for _, id := range invalid {
		if ValidIdentifier(id) {
			t.Errorf("ValidIdentifier(%q) = true, want false", id)
		}
	}
}

func TestIsReservedColumn(t *testing.T) {
	for _, name := range []string{"id", "ID", "submitted_at", "_extra"} {
		if !IsReservedColumn(name) {
			t.Errorf("IsReservedColumn(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"Rating", "ident", "timestamp"} {
		if IsReservedColumn(name) {
			t.Errorf("IsReservedColumn(%q) = true, want false", name)
		}
	}
}
