package store_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-literal/pkg/store"
)

func TestParseSeed_JSONAndYAML(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "json", data: `{"count": 3, "name": "Ada", "label": "42"}`},
		{name: "yaml", data: "count: 3\nname: Ada\nlabel: \"42\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := store.ParseSeed([]byte(tt.data), tt.name)
			if err != nil {
				t.Fatalf("parse seed: %v", err)
			}

			s := store.New()
			if err := s.Seed(values); err != nil {
				t.Fatalf("seed: %v", err)
			}

			// Quoted numbers follow the init literal rule and become integers.
			want := map[string]any{"count": int64(3), "name": "Ada", "label": int64(42)}
			if diff := cmp.Diff(want, s.Bindings()); diff != "" {
				t.Fatalf("bindings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseSeed_Rejects(t *testing.T) {
	if _, err := store.ParseSeed([]byte("   \n"), "empty.yml"); err == nil {
		t.Fatal("expected error for empty seed")
	}
	if _, err := store.ParseSeed([]byte("- a\n- b\n"), "list.yml"); err == nil {
		t.Fatal("expected error for non-mapping seed")
	}
}

func TestStore_SeedRejectsUnsupportedTypes(t *testing.T) {
	s := store.New()
	err := s.Seed(map[string]any{"ratio": 1.5})
	if err == nil {
		t.Fatal("expected error for float seed value")
	}
}

func TestStore_SeedIsDefineOnce(t *testing.T) {
	s := store.New()
	if err := s.Init("name", "Ada"); err != nil {
		t.Fatalf("init: %v", err)
	}

	err := s.Seed(map[string]any{"name": "Grace"})
	var dup *store.DuplicateVariableError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateVariableError, got %v", err)
	}
}
