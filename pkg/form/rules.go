package form

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Required fails on blank strings and unset dates.
func Required(message string) Rule {
	return Rule{
		Kind:    RuleRequired,
		Message: message,
		check: func(value any) bool {
			switch v := value.(type) {
			case string:
				return strings.TrimSpace(v) != ""
			case time.Time:
				return !v.IsZero()
			default:
				return v != nil
			}
		},
	}
}

// MinLength requires at least n characters.
func MinLength(n int, message string) Rule {
	return Rule{
		Kind:    RuleMinLength,
		Params:  map[string]string{"value": strconv.Itoa(n)},
		Message: message,
		check: func(value any) bool {
			return utf8.RuneCountInString(stringValue(value)) >= n
		},
	}
}

// MaxLength allows at most n characters.
func MaxLength(n int, message string) Rule {
	return Rule{
		Kind:    RuleMaxLength,
		Params:  map[string]string{"value": strconv.Itoa(n)},
		Message: message,
		check: func(value any) bool {
			return utf8.RuneCountInString(stringValue(value)) <= n
		},
	}
}

// Email requires a syntactically valid address.
func Email(message string) Rule {
	return Rule{
		Kind:    RuleEmail,
		Message: message,
		check: func(value any) bool {
			return validate.Var(stringValue(value), "required,email") == nil
		},
	}
}

// Equal requires target to hold exactly the same value as field.
func Equal(field, target, message string) CrossRule {
	return CrossRule{
		Kind:    RuleEqual,
		Fields:  []string{field},
		Target:  target,
		Message: message,
		check: func(values map[string]any) bool {
			return stringValue(values[field]) == stringValue(values[target])
		},
	}
}

func stringValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(DateLayout)
	default:
		return ""
	}
}
