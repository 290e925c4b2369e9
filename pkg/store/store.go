package store

import (
	"sort"
	"strconv"
)

// Store maps variable names to typed values for one render pass.
type Store struct {
	vars map[string]Variable
}

// New returns an empty store.
func New() *Store {
	return &Store{vars: make(map[string]Variable)}
}

// Init defines name. A literal that parses as an int64 produces an integer
// variable; anything else is stored verbatim as a string. Names are
// define-once.
func (s *Store) Init(name, literal string) error {
	if _, exists := s.vars[name]; exists {
		return &DuplicateVariableError{Name: name}
	}
	if value, err := ParseInt(literal); err == nil {
		s.vars[name] = Integer(value)
		return nil
	}
	s.vars[name] = String(literal)
	return nil
}

// Set defines name with an already typed value, applying the same define-once
// rule as Init.
func (s *Store) Set(name string, v Variable) error {
	if _, exists := s.vars[name]; exists {
		return &DuplicateVariableError{Name: name}
	}
	s.vars[name] = v
	return nil
}

// Increment updates an existing variable. Integers are added to and fail with
// OverflowError instead of wrapping. Strings are replaced by literal, not
// appended to.
func (s *Store) Increment(name, literal string) error {
	current, ok := s.vars[name]
	if !ok {
		return &UndefinedVariableError{Name: name}
	}

	switch current.kind {
	case KindInteger:
		delta, err := ParseInt(literal)
		if err != nil {
			return err
		}
		sum, ok := addInt64(current.integer, delta)
		if !ok {
			return &OverflowError{Name: name, Current: current.integer, Delta: delta}
		}
		s.vars[name] = Integer(sum)
	case KindString:
		s.vars[name] = String(literal)
	}
	return nil
}

// Get returns the variable stored under name.
func (s *Store) Get(name string) (Variable, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Len reports how many variables are defined.
func (s *Store) Len() int {
	return len(s.vars)
}

// Names returns the defined names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bindings snapshots the store for template input. Values keep their native
// type (int64 or string) so the engine can format them itself.
func (s *Store) Bindings() map[string]any {
	out := make(map[string]any, len(s.vars))
	for name, v := range s.vars {
		out[name] = v.Value()
	}
	return out
}

// ParseInt parses a base-10 int64, wrapping failures in ParseError.
func ParseInt(token string) (int64, error) {
	value, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, &ParseError{Token: token, Err: err}
	}
	return value, nil
}

func addInt64(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}
