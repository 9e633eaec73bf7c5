package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Case int

const (
	KeepCase Case = iota
	UpperCase
	LowerCase
)

// Bound is one end of a numeric range.
type Bound struct {
	Value     decimal.Decimal
	Inclusive bool
}

func AtLeast(d decimal.Decimal) *Bound     { return &Bound{Value: d, Inclusive: true} }
func GreaterThan(d decimal.Decimal) *Bound { return &Bound{Value: d} }
func AtMost(d decimal.Decimal) *Bound      { return &Bound{Value: d, Inclusive: true} }
func LessThan(d decimal.Decimal) *Bound    { return &Bound{Value: d} }

type FieldSpec struct {
	Name     string
	Label    string
	Kind     FieldKind
	Required bool
	Min      *Bound
	Max      *Bound
	Case     Case
	OnLabel  string
	OffLabel string
}

func (f FieldSpec) label() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// StateLabel describes a flag value in notifications.
func (f FieldSpec) StateLabel(on bool) string {
	if on {
		if f.OnLabel != "" {
			return f.OnLabel
		}
		return "enabled"
	}
	if f.OffLabel != "" {
		return f.OffLabel
	}
	return "disabled"
}

// Schema is the declarative rule set of one collection. KeyField names the
// text field that must be unique, compared trimmed and case-folded.
type Schema struct {
	Name     string
	Noun     string
	Fields   []FieldSpec
	KeyField string
}

func (s Schema) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: empty collection name", ErrInvalidSchema)
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("%w: %s has no fields", ErrInvalidSchema, s.Name)
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" || f.Name == "id" {
			return fmt.Errorf("%w: %s has a field named %q", ErrInvalidSchema, s.Name, f.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: %s declares %q twice", ErrInvalidSchema, s.Name, f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.Kind != Number && (f.Min != nil || f.Max != nil) {
			return fmt.Errorf("%w: %s.%s has a range but is not a number", ErrInvalidSchema, s.Name, f.Name)
		}
	}
	key, ok := s.Field(s.KeyField)
	if !ok {
		return fmt.Errorf("%w: %s key field %q is not declared", ErrInvalidSchema, s.Name, s.KeyField)
	}
	if key.Kind != Text {
		return fmt.Errorf("%w: %s key field %q must be text", ErrInvalidSchema, s.Name, s.KeyField)
	}
	if !key.Required {
		return fmt.Errorf("%w: %s key field %q must be required", ErrInvalidSchema, s.Name, s.KeyField)
	}
	return nil
}

func (s Schema) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

func (s Schema) NounOrName() string {
	if s.Noun != "" {
		return s.Noun
	}
	return s.Name
}

// Key is the form of a key field value used for uniqueness checks.
func (s Schema) Key(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}

// KeyOf returns the display value of r's key field.
func (s Schema) KeyOf(r Record) string {
	return r.Text(s.KeyField)
}

// Normalize validates draft against the schema and returns the field values
// of a record. Fields are checked in declaration order and the first failure
// is returned as a *ValidationError.
func (s Schema) Normalize(draft Draft) (map[string]Value, error) {
	out := make(map[string]Value, len(s.Fields))
	for _, f := range s.Fields {
		switch f.Kind {
		case Flag:
			out[f.Name] = FlagValue(draft.Flags[f.Name])
		case Text:
			raw := strings.TrimSpace(draft.Text[f.Name])
			if raw == "" && f.Required {
				return nil, missing(f)
			}
			out[f.Name] = TextValue(applyCase(f.Case, raw))
		case Number:
			raw := strings.TrimSpace(draft.Text[f.Name])
			if raw == "" {
				if f.Required {
					return nil, missing(f)
				}
				continue
			}
			d, err := parseNumber(f, raw)
			if err != nil {
				return nil, err
			}
			out[f.Name] = NumberValue(d)
		}
	}
	return out, nil
}

// Check verifies that a ready-made record (sample data, fixtures) is one the
// schema could have produced: every field is declared with the same kind,
// required fields are present, text is trimmed and cased, and numbers are in
// range.
func (s Schema) Check(r Record) error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: %s record without id", ErrInvalidSchema, s.Name)
	}
	for name, v := range r.fields {
		f, ok := s.Field(name)
		if !ok {
			return fmt.Errorf("%w: %s record %s: %q", ErrUnknownField, s.Name, r.ID, name)
		}
		if f.Kind != v.Kind() {
			return fmt.Errorf("%w: %s record %s: %q is %s, want %s", ErrInvalidSchema, s.Name, r.ID, name, v.Kind(), f.Kind)
		}
	}
	for _, f := range s.Fields {
		v, ok := r.fields[f.Name]
		if f.Required && (!ok || (f.Kind == Text && strings.TrimSpace(v.Text()) == "")) {
			return fmt.Errorf("%w: %s record %s: %q", ErrMissingField, s.Name, r.ID, f.Name)
		}
		if !ok {
			continue
		}
		switch f.Kind {
		case Text:
			if want := applyCase(f.Case, strings.TrimSpace(v.Text())); want != v.Text() {
				return fmt.Errorf("%w: %s record %s: %q is %q, want %q", ErrInvalidSchema, s.Name, r.ID, f.Name, v.Text(), want)
			}
		case Number:
			if err := checkRange(f, v.Number()); err != nil {
				return fmt.Errorf("%s record %s: %w", s.Name, r.ID, err)
			}
		}
	}
	return nil
}

// WithDefaults fills absent optional text and flag fields with the values
// Normalize gives a blank input.
func (s Schema) WithDefaults(r Record) Record {
	out := NewRecord(r.ID, r.fields)
	for _, f := range s.Fields {
		if _, ok := out.fields[f.Name]; ok {
			continue
		}
		switch f.Kind {
		case Text:
			out.fields[f.Name] = TextValue("")
		case Flag:
			out.fields[f.Name] = FlagValue(false)
		}
	}
	return out
}

// DraftOf loads r into a draft the way input controls would show it.
func (s Schema) DraftOf(r Record) Draft {
	d := NewDraft()
	for _, f := range s.Fields {
		v, ok := r.Get(f.Name)
		if !ok {
			continue
		}
		if f.Kind == Flag {
			d.Flags[f.Name] = v.Flag()
			continue
		}
		d.Text[f.Name] = v.String()
	}
	return d
}

func applyCase(c Case, s string) string {
	switch c {
	case UpperCase:
		return cases.Upper(language.Und).String(s)
	case LowerCase:
		return cases.Lower(language.Und).String(s)
	}
	return s
}

func missing(f FieldSpec) error {
	return &ValidationError{
		Field:   f.Name,
		Message: fmt.Sprintf("Please enter the %s", f.label()),
		Err:     ErrMissingField,
	}
}

func invalid(f FieldSpec, format string, args ...any) error {
	return &ValidationError{
		Field:   f.Name,
		Message: fmt.Sprintf(format, args...),
		Err:     ErrInvalidNumber,
	}
}

func parseNumber(f FieldSpec, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, invalid(f, "%s must be a number", capitalize(f.label()))
	}
	if err := checkRange(f, d); err != nil {
		return decimal.Decimal{}, err
	}
	return d, nil
}

func checkRange(f FieldSpec, d decimal.Decimal) error {
	if b := f.Min; b != nil {
		if b.Inclusive && d.LessThan(b.Value) {
			return invalid(f, "%s must be at least %s", capitalize(f.label()), b.Value)
		}
		if !b.Inclusive && d.LessThanOrEqual(b.Value) {
			return invalid(f, "%s must be greater than %s", capitalize(f.label()), b.Value)
		}
	}
	if b := f.Max; b != nil {
		if b.Inclusive && d.GreaterThan(b.Value) {
			return invalid(f, "%s must be at most %s", capitalize(f.label()), b.Value)
		}
		if !b.Inclusive && d.GreaterThanOrEqual(b.Value) {
			return invalid(f, "%s must be less than %s", capitalize(f.label()), b.Value)
		}
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
