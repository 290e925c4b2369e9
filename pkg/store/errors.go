package store

import (
	"fmt"
	"strconv"
)

// DuplicateVariableError reports an init of a name that already exists.
type DuplicateVariableError struct {
	Name string
}

func (e *DuplicateVariableError) Error() string {
	return fmt.Sprintf("store: variable %q already initialized", e.Name)
}

// UndefinedVariableError reports a reference to a name that was never
// initialized.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("store: undefined variable %q", e.Name)
}

// ParseError reports a token that had to be an int64 but was not.
type ParseError struct {
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("store: parse integer %q: %v", e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// OverflowError reports an increment whose result does not fit in an int64.
// The stored value is left unchanged.
type OverflowError struct {
	Name    string
	Current int64
	Delta   int64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("store: increment of %q overflows int64 (%s + %s)",
		e.Name, strconv.FormatInt(e.Current, 10), strconv.FormatInt(e.Delta, 10))
}
