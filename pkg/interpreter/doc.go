// Package interpreter runs a render pass: it reads input line by line, passes
// literal lines through with a trailing newline and executes directives
// against a variable store it owns. The first failure aborts the pass and no
// partial output is returned.
//
// Directives:
//
//	\init <name> <value...>     define a variable (int64 when the value parses, else string)
//	\incr <name> <value...>     add to an integer, replace a string
//	\render <path>              render a template with the store as bindings
//	\assert <name> <value...>   fail unless the variable equals value
package interpreter
