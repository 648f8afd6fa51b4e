package form

import "errors"

var (
	// ErrUnknownField is returned when an operation names a field the schema
	// does not declare.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrFieldType is returned when a value is written through the wrong
	// setter for the field type.
	ErrFieldType = errors.New("form: field type mismatch")
	// ErrDateNotSelectable is returned when a date falls outside the field's
	// selectable range. The state is left untouched.
	ErrDateNotSelectable = errors.New("form: date not selectable")
	// ErrInvalidDate is returned when textual date input does not parse.
	ErrInvalidDate = errors.New("form: invalid date")
)
