package directive

import "fmt"

// UnknownDirectiveError reports a directive line whose leading token is not a
// known directive.
type UnknownDirectiveError struct {
	Line string
}

func (e *UnknownDirectiveError) Error() string {
	return fmt.Sprintf("directive: unknown directive: %s", e.Line)
}

// MalformedDirectiveError reports a known directive missing a required
// argument.
type MalformedDirectiveError struct {
	Line   string
	Reason string
}

func (e *MalformedDirectiveError) Error() string {
	return fmt.Sprintf("directive: %s: %s", e.Reason, e.Line)
}
