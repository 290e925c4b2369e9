package store

import "strconv"

// Kind tags the value held by a Variable.
type Kind int

const (
	// KindInteger marks a signed 64-bit value.
	KindInteger Kind = iota
	// KindString marks a text value.
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Variable is a tagged union of an int64 and a string. Only the field matching
// Kind is meaningful.
type Variable struct {
	kind    Kind
	integer int64
	text    string
}

// Integer builds an integer variable.
func Integer(value int64) Variable {
	return Variable{kind: KindInteger, integer: value}
}

// String builds a string variable.
func String(value string) Variable {
	return Variable{kind: KindString, text: value}
}

// Kind reports which variant the variable holds.
func (v Variable) Kind() Kind {
	return v.kind
}

// Int returns the integer value and whether the variable is an integer.
func (v Variable) Int() (int64, bool) {
	return v.integer, v.kind == KindInteger
}

// Text returns the string value and whether the variable is a string.
func (v Variable) Text() (string, bool) {
	return v.text, v.kind == KindString
}

// Value returns the native Go value: int64 or string.
func (v Variable) Value() any {
	switch v.kind {
	case KindInteger:
		return v.integer
	case KindString:
		return v.text
	default:
		return nil
	}
}

// Format renders the value the way assertion messages print it.
func (v Variable) Format() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.integer, 10)
	case KindString:
		return v.text
	default:
		return ""
	}
}
