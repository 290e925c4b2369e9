package interpreter

import "fmt"

// AssertionFailedError reports an \assert whose expected value did not match.
type AssertionFailedError struct {
	Name     string
	Expected string
	Actual   string
}

func (e *AssertionFailedError) Error() string {
	return fmt.Sprintf("interpreter: expected %s to be %s but was %s", e.Name, e.Expected, e.Actual)
}

// IOError reports a failure reading the input.
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("interpreter: read input: %v", e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// LineError attaches the 1-based input line to a directive failure.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
