package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseSeed decodes a JSON or YAML mapping of initial variables. JSON is tried
// first; YAML is the fallback.
func ParseSeed(data []byte, source string) (map[string]any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("store: seed file %s is empty", source)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fromJSON map[string]any
	if err := dec.Decode(&fromJSON); err == nil {
		return fromJSON, nil
	}

	var fromYAML map[string]any
	if err := yaml.Unmarshal(data, &fromYAML); err != nil {
		return nil, fmt.Errorf("store: parse seed %s: invalid JSON or YAML: %w", source, err)
	}
	return fromYAML, nil
}

// Seed defines every entry of values. Names are applied in sorted order so the
// first failure is deterministic. Integers become integer variables, strings
// follow the Init literal rule; any other type is rejected.
func (s *Store) Seed(values map[string]any) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		key := strings.TrimSpace(name)
		if key == "" {
			return fmt.Errorf("store: seed defines an empty variable name")
		}
		if err := s.seedOne(key, values[name]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) seedOne(name string, raw any) error {
	switch v := raw.(type) {
	case string:
		return s.Init(name, v)
	case int:
		return s.Set(name, Integer(int64(v)))
	case int64:
		return s.Set(name, Integer(v))
	case uint64:
		if v > math.MaxInt64 {
			return fmt.Errorf("store: seed %q: value %d overflows int64", name, v)
		}
		return s.Set(name, Integer(int64(v)))
	case json.Number:
		n, err := ParseInt(v.String())
		if err != nil {
			return fmt.Errorf("store: seed %q: %w", name, err)
		}
		return s.Set(name, Integer(n))
	default:
		return fmt.Errorf("store: seed %q: unsupported value type %T", name, raw)
	}
}
