package types

import "strings"

// QuestionKind is the closed set of question behaviours. Authored type
// strings resolve to exactly one kind; anything unrecognised resolves to
// KindFallback so new question types degrade to plain text input.
type QuestionKind int

const (
	KindString QuestionKind = iota
	KindInteger
	KindDate
	KindTime
	KindMeter
	KindMultipleChoice
	KindMultipleTick
	KindFallback

	// NumKinds is the number of kinds, KindFallback included.
	NumKinds = int(KindFallback) + 1
)

// Canonical type names, as written by the authoring UI.
const (
	TypeString         = "string"
	TypeInteger        = "integer"
	TypeDate           = "date"
	TypeTime           = "time"
	TypeMeter          = "meter"
	TypeMultipleChoice = "multiple-choice"
	TypeMultipleTick   = "multiple-tick"
)

var kindNames = [...]string{
	KindString:         TypeString,
	KindInteger:        TypeInteger,
	KindDate:           TypeDate,
	KindTime:           TypeTime,
	KindMeter:          TypeMeter,
	KindMultipleChoice: TypeMultipleChoice,
	KindMultipleTick:   TypeMultipleTick,
	KindFallback:       "fallback",
}

// typeAliases maps lower-cased authored spellings to kinds. The long forms
// are the values older authoring clients stored.
var typeAliases = map[string]QuestionKind{
	TypeString:                 KindString,
	TypeInteger:                KindInteger,
	TypeDate:                   KindDate,
	TypeTime:                   KindTime,
	TypeMeter:                  KindMeter,
	TypeMultipleChoice:         KindMultipleChoice,
	"multiple choice":          KindMultipleChoice,
	"multiple_choice":          KindMultipleChoice,
	"multiple choice question": KindMultipleChoice,
	TypeMultipleTick:           KindMultipleTick,
	"multiple tick":            KindMultipleTick,
	"multiple_tick":            KindMultipleTick,
	"multiple tick answer":     KindMultipleTick,
}

// KindOf resolves an authored type string, case-insensitively.
func KindOf(typ string) QuestionKind {
	if k, ok := typeAliases[strings.ToLower(strings.TrimSpace(typ))]; ok {
		return k
	}
	return KindFallback
}

func (k QuestionKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindFallback]
	}
	return kindNames[k]
}

// HasOptions reports whether questions of this kind select from options.
func (k QuestionKind) HasOptions() bool {
	return k == KindMultipleChoice || k == KindMultipleTick
}

// Question is one field of a Schema.
type Question struct {
	Text     string   `json:"text"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required"`
}

// Kind returns the resolved behaviour of the question.
func (q Question) Kind() QuestionKind { return KindOf(q.Type) }

// Column returns the response column identifier for the question.
func (q Question) Column() string { return Identifier(q.Text) }
