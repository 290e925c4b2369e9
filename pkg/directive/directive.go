// Package directive classifies input lines. A line whose trimmed form starts
// with a backslash is a directive; everything else is literal text. Parsing
// never touches the variable store, so callers can validate a document before
// executing it.
package directive

import (
	"strings"
)

// Marker opens every directive line.
const Marker = `\`

// Op identifies the operation a directive performs.
type Op int

const (
	// OpLiteral passes the line through.
	OpLiteral Op = iota
	// OpInit defines a variable.
	OpInit
	// OpIncr increments an integer or replaces a string.
	OpIncr
	// OpRender renders a template file.
	OpRender
	// OpAssert checks a variable against an expected value.
	OpAssert
)

var opNames = map[Op]string{
	OpLiteral: "literal",
	OpInit:    `\init`,
	OpIncr:    `\incr`,
	OpRender:  `\render`,
	OpAssert:  `\assert`,
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

var opsByName = map[string]Op{
	`\init`:   OpInit,
	`\incr`:   OpIncr,
	`\render`: OpRender,
	`\assert`: OpAssert,
}

// Directive is one parsed line. Fields are populated per Op:
//
//	OpLiteral: Text
//	OpInit, OpIncr, OpAssert: Name, Value
//	OpRender: Path
type Directive struct {
	Op    Op
	Line  string
	Text  string
	Name  string
	Value string
	Path  string
}

// Parse trims line and classifies it. Directive arguments are split on single
// spaces without collapsing runs, so `\init x  5` carries the value " 5".
// Value tokens are rejoined with single spaces.
func Parse(line string) (Directive, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, Marker) {
		return Directive{Op: OpLiteral, Line: trimmed, Text: trimmed}, nil
	}

	words := strings.Split(trimmed, " ")
	op, ok := opsByName[words[0]]
	if !ok {
		return Directive{}, &UnknownDirectiveError{Line: trimmed}
	}

	d := Directive{Op: op, Line: trimmed}
	switch op {
	case OpRender:
		if len(words) < 2 || words[1] == "" {
			return Directive{}, &MalformedDirectiveError{Line: trimmed, Reason: "missing template path"}
		}
		d.Path = words[1]
	case OpInit, OpIncr, OpAssert:
		if len(words) < 2 || words[1] == "" {
			return Directive{}, &MalformedDirectiveError{Line: trimmed, Reason: "missing variable name"}
		}
		if len(words) < 3 {
			return Directive{}, &MalformedDirectiveError{Line: trimmed, Reason: "missing value"}
		}
		d.Name = words[1]
		d.Value = strings.Join(words[2:], " ")
	}
	return d, nil
}

// IsDirective reports whether line would be parsed as a directive.
func IsDirective(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), Marker)
}
