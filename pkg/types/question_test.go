package types

import "testing"

func TestKindOf(t *testing.T) {
	tests := []struct {
		typ  string
		want QuestionKind
	}{
		{"string", KindString},
		{"String", KindString},
		{" integer ", KindInteger},
		{"date", KindDate},
		{"time", KindTime},
		{"METER", KindMeter},
		{"multiple-choice", KindMultipleChoice},
		{"Multiple Choice Question", KindMultipleChoice},
		{"multiple_choice", KindMultipleChoice},
		{"multiple-tick", KindMultipleTick},
		{"Multiple Tick Answer", KindMultipleTick},
		{"", KindFallback},
		{"paragraph", KindFallback},
		{"multiple", KindFallback},
	}
	for _, tt := range tests {
		if got := KindOf(tt.typ); got != tt.want {
			t.Errorf("KindOf(%q) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestQuestionKindString(t *testing.T) {
	if got := KindMultipleTick.String(); got != TypeMultipleTick {
		t.Errorf("String() = %q, want %q", got, TypeMultipleTick)
	}
	if got := QuestionKind(99).String(); got != "fallback" {
		t.Errorf("out of range String() = %q, want fallback", got)
	}
}

func TestQuestionKindHasOptions(t *testing.T) {
	for k := QuestionKind(0); int(k) < NumKinds; k++ {
		want := k == KindMultipleChoice || k == KindMultipleTick
		if got := k.HasOptions(); got != want {
			t.Errorf("%v.HasOptions() = %v, want %v", k, got, want)
		}
	}
}

func TestQuestionColumn(t *testing.T) {
	q := Question{Text: "What is your name?"}
	if got := q.Column(); got != "What_is_your_name?" {
		t.Errorf("Column() = %q", got)
	}
}
