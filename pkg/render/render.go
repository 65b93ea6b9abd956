// Package render resolves each question of a schema to the widget a client
// should draw, the coercion applied to submitted text, and the constraint that
// text must satisfy. Resolution never fails: unknown question types resolve to
// a plain text field.
package render

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/formsmith/pkg/types"
)

// Widget names the input control a client renders for a question.
type Widget string

// Widgets.
const (
	WidgetText          Widget = "text"
	WidgetNumber        Widget = "number"
	WidgetDate          Widget = "date"
	WidgetTime          Widget = "time"
	WidgetRange         Widget = "range"
	WidgetSelect        Widget = "select"
	WidgetCheckboxGroup Widget = "checkbox-group"
)

// Meter bounds.
const (
	MeterMin     = 0
	MeterMax     = 10
	MeterDefault = 5
)

// Value layouts.
const (
	DateLayout        = "2006-01-02"
	TimeLayout        = "15:04"
	TimeSecondsLayout = "15:04:05"
	TickSeparator     = ","
)

// Range is the numeric span of a range widget.
type Range struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

type behavior struct {
	widget Widget
	rng    *Range
	coerce func(r Rule, value string) (string, error)
}

var meterRange = Range{Min: MeterMin, Max: MeterMax, Default: MeterDefault}

var behaviors = [...]behavior{
	types.KindString:         {widget: WidgetText, coerce: passthrough},
	types.KindInteger:        {widget: WidgetNumber, coerce: coerceNumber},
	types.KindDate:           {widget: WidgetDate, coerce: coerceDate},
	types.KindTime:           {widget: WidgetTime, coerce: coerceTime},
	types.KindMeter:          {widget: WidgetRange, rng: &meterRange, coerce: coerceMeter},
	types.KindMultipleChoice: {widget: WidgetSelect, coerce: coerceChoice},
	types.KindMultipleTick:   {widget: WidgetCheckboxGroup, coerce: coerceTick},
	types.KindFallback:       {widget: WidgetText, coerce: passthrough},
}

// Every kind has exactly one behaviour.
var _ = [1]struct{}{}[len(behaviors)-types.NumKinds]

// Rule is the resolved rendering contract of one question.
type Rule struct {
	Kind     types.QuestionKind
	Widget   Widget
	Options  []string
	Required bool
	Range    *Range
}

// Resolve returns the rule for q.
func Resolve(q types.Question) Rule {
	k := q.Kind()
	if int(k) < 0 || int(k) >= len(behaviors) {
		k = types.KindFallback
	}
	b := behaviors[k]
	r := Rule{Kind: k, Widget: b.widget, Required: q.Required, Range: b.rng}
	if k.HasOptions() {
		r.Options = q.Options
	}
	return r
}

// Coerce converts submitted text to its stored form, or reports why the text
// does not satisfy the rule. Callers pass non-blank values only.
func (r Rule) Coerce(value string) (string, error) {
	return behaviors[r.Kind].coerce(r, value)
}

func passthrough(_ Rule, value string) (string, error) { return value, nil }

// coerceNumber accepts whole numbers only. Exponent and trailing-zero forms
// such as "1e3" or "4.0" are stored in plain digits.
func coerceNumber(_ Rule, value string) (string, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%q is not a number", value)
	}
	if f != math.Trunc(f) {
		return "", fmt.Errorf("%q is not a whole number", value)
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

func coerceDate(_ Rule, value string) (string, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%q is not a date (want YYYY-MM-DD)", value)
	}
	return d.Format(DateLayout), nil
}

// coerceTime accepts HH:MM or HH:MM:SS and stores HH:MM.
func coerceTime(_ Rule, value string) (string, error) {
	v := strings.TrimSpace(value)
	for _, layout := range []string{TimeLayout, TimeSecondsLayout} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	return "", fmt.Errorf("%q is not a time (want HH:MM)", value)
}

func coerceMeter(r Rule, value string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%q is not a whole number", value)
	}
	rng := meterRange
	if r.Range != nil {
		rng = *r.Range
	}
	if n < rng.Min || n > rng.Max {
		return "", fmt.Errorf("%d is outside %d..%d", n, rng.Min, rng.Max)
	}
	return strconv.Itoa(n), nil
}

func coerceChoice(r Rule, value string) (string, error) {
	v := strings.TrimSpace(value)
	if !slices.Contains(r.Options, v) {
		return "", fmt.Errorf("%q is not one of the options", value)
	}
	return v, nil
}

func coerceTick(r Rule, value string) (string, error) {
	var picked []string
	for _, part := range strings.Split(value, TickSeparator) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !slices.Contains(r.Options, part) {
			return "", fmt.Errorf("%q is not one of the options", part)
		}
		picked = append(picked, part)
	}
	if len(picked) == 0 {
		return "", fmt.Errorf("no option selected")
	}
	return strings.Join(picked, TickSeparator), nil
}

// FieldView describes one input for a client.
type FieldView struct {
	Name     string   `json:"name" yaml:"name"`
	Label    string   `json:"label" yaml:"label"`
	Widget   Widget   `json:"widget" yaml:"widget"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty"`
	Min      *int     `json:"min,omitempty" yaml:"min,omitempty"`
	Max      *int     `json:"max,omitempty" yaml:"max,omitempty"`
	Default  *int     `json:"default,omitempty" yaml:"default,omitempty"`
	Required bool     `json:"required" yaml:"required"`
}

// Field returns the client view of q. Name is the key a submission should
// use for the answer.
func Field(q types.Question) FieldView {
	r := Resolve(q)
	f := FieldView{
		Name:     q.Column(),
		Label:    q.Text,
		Widget:   r.Widget,
		Options:  r.Options,
		Required: r.Required,
	}
	if r.Range != nil {
		lo, hi, def := r.Range.Min, r.Range.Max, r.Range.Default
		f.Min, f.Max, f.Default = &lo, &hi, &def
	}
	return f
}

// FormView is everything a client needs to draw a form.
type FormView struct {
	Identifier  string      `json:"identifier" yaml:"identifier"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description,omitempty"`
	Postscript  string      `json:"postscript" yaml:"postscript,omitempty"`
	Fields      []FieldView `json:"fields" yaml:"fields"`
}

// View returns the client view of s, fields in question order.
func View(s *types.Schema) FormView {
	v := FormView{
		Identifier:  s.Identifier(),
		Title:       s.Title,
		Description: s.Description,
		Postscript:  s.Postscript,
		Fields:      make([]FieldView, 0, len(s.Questions)),
	}
	for _, q := range s.Questions {
		v.Fields = append(v.Fields, Field(q))
	}
	return v
}
