package form

import "time"

// FieldType is the semantic kind of a form input.
type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeEmail  FieldType = "email"
	FieldTypeSecret FieldType = "secret"
	FieldTypeDate   FieldType = "date"
)

const (
	RuleRequired  = "required"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RuleEmail     = "email"
	RuleEqual     = "equal"
)

// DateLayout is the calendar-date format used on the wire and for textual
// date input.
const DateLayout = "2006-01-02"

// Rule is a single per-field constraint. Kind uses the Rule* constants and
// Params carries the threshold in Params["value"] for length rules so callers
// can render hints without evaluating the predicate.
type Rule struct {
	Kind    string            `json:"kind"`
	Params  map[string]string `json:"params,omitempty"`
	Message string            `json:"message"`

	check func(value any) bool
}

// Passes reports whether value satisfies the rule. A rule without a predicate
// always passes.
func (r Rule) Passes(value any) bool {
	if r.check == nil {
		return true
	}
	return r.check(value)
}

// CrossRule constrains a Target field against one or more other fields. The
// error is always attached to Target.
type CrossRule struct {
	Kind    string   `json:"kind"`
	Fields  []string `json:"fields"`
	Target  string   `json:"target"`
	Message string   `json:"message"`

	check func(values map[string]any) bool
}

// Passes evaluates the rule against the full value map.
func (r CrossRule) Passes(values map[string]any) bool {
	if r.check == nil {
		return true
	}
	return r.check(values)
}

func (r CrossRule) involves(name string) bool {
	if r.Target == name {
		return true
	}
	for _, f := range r.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// DateRange restricts which calendar dates a date field accepts. Min is
// inclusive; the upper bound is the current day as reported by Now.
type DateRange struct {
	Min time.Time
	Now func() time.Time
}

// Field describes a single named input.
type Field struct {
	Name        string            `json:"name"`
	Type        FieldType         `json:"type"`
	Label       string            `json:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Rules       []Rule            `json:"rules,omitempty"`
	Dates       *DateRange        `json:"-"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Secret reports whether the field holds a secret value.
func (f Field) Secret() bool {
	return f.Type == FieldTypeSecret
}

// Selectable reports whether t may be picked for the field. Fields without a
// date range accept any date.
func (f Field) Selectable(t time.Time) bool {
	if f.Dates == nil {
		return true
	}
	day := calendarDay(t)
	if !f.Dates.Min.IsZero() && day.Before(calendarDay(f.Dates.Min)) {
		return false
	}
	now := time.Now
	if f.Dates.Now != nil {
		now = f.Dates.Now
	}
	return !day.After(calendarDay(now()))
}

func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (f Field) clone() Field {
	out := f
	if len(f.Rules) > 0 {
		out.Rules = make([]Rule, len(f.Rules))
		for i, rule := range f.Rules {
			out.Rules[i] = rule
			out.Rules[i].Params = cloneParams(rule.Params)
		}
	}
	if f.Dates != nil {
		dates := *f.Dates
		out.Dates = &dates
	}
	out.Metadata = cloneParams(f.Metadata)
	return out
}

func cloneParams(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
