package form

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// State tracks the current values and per-field errors of one form instance.
// Values are strings for text-like fields and time.Time for date fields; a
// zero time means the date is unset. State is not safe for concurrent use.
type State struct {
	schema    *Schema
	values    map[string]any
	errors    map[string]string
	touched   map[string]bool
	submitted bool
}

// NewState creates a state holding the schema's initial values.
func NewState(schema *Schema) *State {
	s := &State{schema: schema}
	s.Reset()
	return s
}

// Schema returns the schema the state validates against.
func (s *State) Schema() *Schema {
	return s.schema
}

// Reset restores initial values and clears errors and interaction flags.
func (s *State) Reset() {
	s.values = make(map[string]any, len(s.schema.fields))
	for _, f := range s.schema.fields {
		s.values[f.Name] = initialValue(f)
	}
	s.errors = make(map[string]string)
	s.touched = make(map[string]bool)
	s.submitted = false
}

func initialValue(f Field) any {
	if f.Type == FieldTypeDate {
		return time.Time{}
	}
	return ""
}

// Set records an edit to a field and recomputes the affected errors. Date
// fields accept DateLayout text (empty clears the date) and go through
// SetDate.
func (s *State) Set(name, value string) error {
	f, ok := s.schema.field(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if f.Type == FieldTypeDate {
		if strings.TrimSpace(value) == "" {
			return s.SetDate(name, time.Time{})
		}
		t, err := time.Parse(DateLayout, strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDate, value)
		}
		return s.SetDate(name, t)
	}

	s.values[name] = value
	s.touched[name] = true
	s.revalidate(name)
	return nil
}

// SetDate records a date selection. Dates outside the field's selectable range
// are rejected with ErrDateNotSelectable and leave the state untouched.
func (s *State) SetDate(name string, t time.Time) error {
	f, ok := s.schema.field(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if f.Type != FieldTypeDate {
		return fmt.Errorf("%w: %q is %s", ErrFieldType, name, f.Type)
	}
	if !t.IsZero() {
		if !f.Selectable(t) {
			return fmt.Errorf("%w: %s", ErrDateNotSelectable, t.Format(DateLayout))
		}
		t = calendarDay(t)
	}

	s.values[name] = t
	s.touched[name] = true
	s.revalidate(name)
	return nil
}

// Validate re-evaluates every rule against the current values in one pass and
// reports whether the form is valid. Cross-field rules apply to every field
// from here on.
func (s *State) Validate() bool {
	s.submitted = true
	s.errors = make(map[string]string)
	for _, f := range s.schema.fields {
		if msg := s.fieldError(f.Name); msg != "" {
			s.errors[f.Name] = msg
		}
	}
	return len(s.errors) == 0
}

// Valid reports whether no field currently carries an error. It does not
// re-run the rules.
func (s *State) Valid() bool {
	return len(s.errors) == 0
}

// Value returns the raw value of a field.
func (s *State) Value(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// String returns the textual value of a field; dates are formatted with
// DateLayout.
func (s *State) String(name string) string {
	return stringValue(s.values[name])
}

// Date returns the selected date of a date field, or the zero time.
func (s *State) Date(name string) time.Time {
	t, _ := s.values[name].(time.Time)
	return t
}

// Values returns a copy of the value map.
func (s *State) Values() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Error returns the current error for a field, or "".
func (s *State) Error(name string) string {
	return s.errors[name]
}

// Errors returns a copy of the field error map.
func (s *State) Errors() map[string]string {
	out := make(map[string]string, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// Touched reports whether the field has been edited since the last reset.
func (s *State) Touched(name string) bool {
	return s.touched[name]
}

// Submitted reports whether Validate ran since the last reset.
func (s *State) Submitted() bool {
	return s.submitted
}

// Snapshot serializes the values into the request shape: dates as
// DateLayout, text trimmed and secrets exactly as typed. Rules are evaluated
// against these same values.
func (s *State) Snapshot() map[string]string {
	out := make(map[string]string, len(s.values))
	for _, f := range s.schema.fields {
		switch v := submitValue(f, s.values[f.Name]).(type) {
		case time.Time, string:
			out[f.Name] = stringValue(v)
		}
	}
	return out
}

// submitValue is the value a field is validated and sent with.
func submitValue(f Field, value any) any {
	if v, ok := value.(string); ok && !f.Secret() {
		return strings.TrimSpace(v)
	}
	return value
}

func (s *State) submitValues() map[string]any {
	out := make(map[string]any, len(s.values))
	for _, f := range s.schema.fields {
		out[f.Name] = submitValue(f, s.values[f.Name])
	}
	return out
}

// ApplyServerErrors attaches server-reported field errors to matching fields
// and returns the messages that could not be tied to a field.
func (s *State) ApplyServerErrors(payload map[string][]string) []string {
	mapping := MapErrorPayload(s.schema, payload)
	for name, messages := range mapping.Fields {
		if len(messages) > 0 {
			s.errors[name] = messages[0]
		}
	}
	return mapping.Form
}

func (s *State) revalidate(name string) {
	s.setError(name, s.fieldError(name))
	for _, rule := range s.schema.cross {
		if rule.Target != name && rule.involves(name) {
			s.setError(rule.Target, s.fieldError(rule.Target))
		}
	}
}

func (s *State) setError(name, msg string) {
	if msg == "" {
		delete(s.errors, name)
		return
	}
	s.errors[name] = msg
}

// fieldError evaluates the field's own rules first and, once the field has
// been touched or the form submitted, the cross rules that target it.
func (s *State) fieldError(name string) string {
	f, ok := s.schema.field(name)
	if !ok {
		return ""
	}
	value := submitValue(*f, s.values[name])
	for _, rule := range f.Rules {
		if !rule.Passes(value) {
			return rule.Message
		}
	}
	if !s.touched[name] && !s.submitted {
		return ""
	}
	var values map[string]any
	for _, rule := range s.schema.cross {
		if rule.Target != name {
			continue
		}
		if values == nil {
			values = s.submitValues()
		}
		if !rule.Passes(values) {
			return rule.Message
		}
	}
	return ""
}

// IsValidationError reports whether err came from a rejected edit.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrDateNotSelectable) || errors.Is(err, ErrInvalidDate)
}
