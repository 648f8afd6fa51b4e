package form

import (
	"errors"
	"fmt"
	"strings"
)

// Schema is an ordered, immutable set of fields plus cross-field rules.
// Accessors hand out copies so a built schema cannot be altered.
type Schema struct {
	name   string
	fields []Field
	index  map[string]int
	cross  []CrossRule
}

// NewSchema validates and freezes a schema definition.
func NewSchema(name string, fields []Field, cross ...CrossRule) (*Schema, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("form: schema name is required")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("form: schema %q has no fields", name)
	}

	s := &Schema{
		name:  name,
		index: make(map[string]int, len(fields)),
	}
	for i, field := range fields {
		if strings.TrimSpace(field.Name) == "" {
			return nil, fmt.Errorf("form: schema %q field %d has no name", name, i)
		}
		if _, exists := s.index[field.Name]; exists {
			return nil, fmt.Errorf("form: schema %q declares field %q twice", name, field.Name)
		}
		switch field.Type {
		case FieldTypeText, FieldTypeEmail, FieldTypeSecret, FieldTypeDate:
		default:
			return nil, fmt.Errorf("form: field %q has unsupported type %q", field.Name, field.Type)
		}
		if field.Dates != nil && field.Type != FieldTypeDate {
			return nil, fmt.Errorf("form: field %q declares a date range but is %q", field.Name, field.Type)
		}
		clone := field.clone()
		if clone.Label == "" {
			clone.Label = DefaultLabel(clone.Name)
		}
		s.index[field.Name] = len(s.fields)
		s.fields = append(s.fields, clone)
	}

	for _, rule := range cross {
		if _, ok := s.index[rule.Target]; !ok {
			return nil, fmt.Errorf("%w: cross rule target %q", ErrUnknownField, rule.Target)
		}
		for _, f := range rule.Fields {
			if _, ok := s.index[f]; !ok {
				return nil, fmt.Errorf("%w: cross rule field %q", ErrUnknownField, f)
			}
		}
		clone := rule
		clone.Fields = append([]string(nil), rule.Fields...)
		s.cross = append(s.cross, clone)
	}

	return s, nil
}

// MustSchema is like NewSchema but panics on an invalid definition. It is
// meant for package-level form definitions.
func MustSchema(name string, fields []Field, cross ...CrossRule) *Schema {
	s, err := NewSchema(name, fields, cross...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the schema identifier.
func (s *Schema) Name() string {
	return s.name
}

// Fields returns a copy of the ordered fields.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.clone()
	}
	return out
}

// FieldNames returns field names in declaration order.
func (s *Schema) FieldNames() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	idx, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[idx].clone(), true
}

// CrossRules returns a copy of the cross-field rules.
func (s *Schema) CrossRules() []CrossRule {
	out := make([]CrossRule, len(s.cross))
	for i, r := range s.cross {
		out[i] = r
		out[i].Fields = append([]string(nil), r.Fields...)
	}
	return out
}

func (s *Schema) field(name string) (*Field, bool) {
	idx, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return &s.fields[idx], true
}
