package template_test

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-literal/pkg/render/template/gotemplate"
	"github.com/goliatone/go-literal/pkg/testsupport"
)

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello.tmpl", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "hello.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_IncludesSiblingAndKeepsIntegers(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("page.tmpl", map[string]any{"name": "Ada", "count": int64(3)})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "page.golden"))
	if result != want {
		t.Fatalf("render template mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_LoadsWholeDirectory(t *testing.T) {
	engine := newEngine(t)

	want := []string{"hello.tmpl", "page.tmpl", "use-filter.tmpl", "use-sanitize.tmpl"}
	if diff := cmp.Diff(want, engine.Templates()); diff != "" {
		t.Fatalf("templates mismatch (-want +got):\n%s", diff)
	}
}

func TestGoTemplateEngine_SyntaxErrorInSiblingFailsLoad(t *testing.T) {
	_, err := gotemplate.New(gotemplate.WithBaseDir(filepath.Join("testdata", "broken")))
	if err == nil {
		t.Fatal("expected load error for broken sibling template")
	}
	if !strings.Contains(err.Error(), "bad.tmpl") {
		t.Fatalf("expected error to name the broken file, got %v", err)
	}
}

func TestGoTemplateEngine_UnknownTemplate(t *testing.T) {
	engine := newEngine(t)

	_, err := engine.RenderTemplate("missing.tmpl", nil)
	if err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestGoTemplateEngine_FilterOption(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("use-filter.tmpl", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "ADA!" {
		t.Fatalf("filter output = %q, want %q", result, "ADA!")
	}
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("whisper_test", func(input any, _ any) (any, error) {
		return strings.ToLower(fmt.Sprint(input)), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}

	result, err := engine.RenderString("{{ name|whisper_test }}", map[string]any{"name": "ADA"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "ada" {
		t.Fatalf("filter output = %q, want %q", result, "ada")
	}

	err = engine.RegisterFilter("whisper_test", func(input any, _ any) (any, error) {
		return "(" + fmt.Sprint(input) + ")", nil
	})
	if err != nil {
		t.Fatalf("replace filter: %v", err)
	}
	result, err = engine.RenderString("{{ name|whisper_test }}", map[string]any{"name": "ADA"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "(ADA)" {
		t.Fatalf("replaced filter output = %q, want %q", result, "(ADA)")
	}
}

func TestGoTemplateEngine_RegisterFilterRejectsBuiltin(t *testing.T) {
	engine := newEngine(t)

	err := engine.RegisterFilter("upper", func(input any, _ any) (any, error) { return input, nil })
	if err == nil || !strings.Contains(err.Error(), `"upper"`) {
		t.Fatalf("expected builtin filter to be rejected, got %v", err)
	}
}

func TestGoTemplateEngine_FilterOptionRejectsBuiltin(t *testing.T) {
	_, err := gotemplate.New(
		gotemplate.WithFS(fstest.MapFS{"x.tmpl": {Data: []byte("x")}}),
		gotemplate.WithFilters(map[string]gotemplate.FilterFunc{
			"lower": func(input any, _ any) (any, error) { return input, nil },
		}),
	)
	if err == nil {
		t.Fatal("expected WithFilters to reject a pongo2 builtin name")
	}
}

func TestGoTemplateEngine_FilterOptionLatestWins(t *testing.T) {
	files := fstest.MapFS{"x.tmpl": {Data: []byte("{{ name|tag_test }}")}}
	build := func(tag string) *gotemplate.Engine {
		t.Helper()
		engine, err := gotemplate.New(
			gotemplate.WithFS(files),
			gotemplate.WithFilters(map[string]gotemplate.FilterFunc{
				"tag_test": func(input any, _ any) (any, error) { return tag + fmt.Sprint(input), nil },
			}),
		)
		if err != nil {
			t.Fatalf("new engine: %v", err)
		}
		return engine
	}

	for _, tag := range []string{"a:", "b:"} {
		result, err := build(tag).RenderTemplate("x.tmpl", map[string]any{"name": "Ada"})
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if result != tag+"Ada" {
			t.Fatalf("filter output = %q, want %q", result, tag+"Ada")
		}
	}
}

func TestGoTemplateEngine_UnboundNameFails(t *testing.T) {
	files := fstest.MapFS{
		"typo.tmpl":    {Data: []byte("Hello {{ nmae }}!")},
		"outer.tmpl":   {Data: []byte(`[{% include "inner.tmpl" %}]`)},
		"inner.tmpl":   {Data: []byte("{{ title }}")},
		"partial.tmpl": {Data: []byte("{{ name }} {{ user.missing }}")},
	}
	engine, err := gotemplate.New(gotemplate.WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	tests := []struct {
		template string
		missing  string
	}{
		{template: "typo.tmpl", missing: "nmae"},
		{template: "outer.tmpl", missing: "title"},
	}
	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			result, err := engine.RenderTemplate(tt.template, map[string]any{"name": "Ada"})
			if !errors.Is(err, gotemplate.ErrUndefinedVariable) {
				t.Fatalf("expected ErrUndefinedVariable, got %v (result %q)", err, result)
			}
			if !strings.Contains(err.Error(), tt.missing) {
				t.Fatalf("expected error to name %q, got %v", tt.missing, err)
			}
		})
	}

	result, err := engine.RenderTemplate("partial.tmpl", map[string]any{"name": "Ada", "user": map[string]any{}})
	if err != nil {
		t.Fatalf("attribute lookups on bound names should not fail: %v", err)
	}
	if result != "Ada " {
		t.Fatalf("render = %q", result)
	}

	if _, err := engine.RenderString("{{ ghost }}", nil); !errors.Is(err, gotemplate.ErrUndefinedVariable) {
		t.Fatalf("expected ErrUndefinedVariable from RenderString, got %v", err)
	}
}

func TestGoTemplateEngine_LocallyDefinedNamesRender(t *testing.T) {
	files := fstest.MapFS{
		"local.tmpl": {Data: []byte(
			`{% if draft %}draft {% endif %}` +
				`{{ audience|default:"all" }} ` +
				`{% for item in items %}{{ item }}{{ forloop.Counter }} {% endfor %}` +
				`{% set greeting = "hi" %}{{ greeting }} ` +
				`{% with who=name %}{{ who }}{% endwith %} ` +
				`{% macro tag(label) %}<{{ label }}>{% endmacro %}{{ tag("x") }}` +
				`{# {{ commented }} #}{% comment %}{{ hidden }}{% endcomment %}`,
		)},
	}
	engine, err := gotemplate.New(gotemplate.WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	result, err := engine.RenderTemplate("local.tmpl", map[string]any{
		"name":  "Ada",
		"items": []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff("all a1 b2 hi Ada <x>", result); diff != "" {
		t.Fatalf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestGoTemplateEngine_EscapesOnlyMarkupTemplates(t *testing.T) {
	files := fstest.MapFS{
		"note.tmpl": {Data: []byte("{{ co }} {{ co|upper }}")},
		"note.txt":  {Data: []byte("{{ co }}")},
		"note.html": {Data: []byte("{{ co }}")},
		"note.xml":  {Data: []byte("{{ co }}")},
	}
	engine, err := gotemplate.New(gotemplate.WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	data := map[string]any{"co": "O'Brien & <Co>"}

	tests := []struct {
		name string
		want string
	}{
		{name: "note.tmpl", want: "O'Brien & <Co> O'BRIEN & <CO>"},
		{name: "note.txt", want: "O'Brien & <Co>"},
		{name: "note.html", want: "O&#39;Brien &amp; &lt;Co&gt;"},
		{name: "note.xml", want: "O&#39;Brien &amp; &lt;Co&gt;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.RenderTemplate(tt.name, data)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if result != tt.want {
				t.Fatalf("render = %q, want %q", result, tt.want)
			}
		})
	}

	result, err := engine.RenderString("{{ co }}", data)
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if result != "O'Brien & <Co>" {
		t.Fatalf("render string = %q", result)
	}
}

func TestGoTemplateEngine_SanitizeFilter(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("use-sanitize.tmpl", map[string]any{
		"note": `<b>bold</b><script>alert(1)</script>`,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "<b>bold</b>" {
		t.Fatalf("sanitize output = %q", result)
	}
}

func TestGoTemplateEngine_RenderString(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderString("{{ name|lowerfirst }} {{ pad|trim }}", map[string]any{"name": "Ada", "pad": "  x  "}, w)
	})
	if result != "ada x" || written != result {
		t.Fatalf("render string = %q (written %q)", result, written)
	}
}

func TestGoTemplateEngine_FSFactory(t *testing.T) {
	files := fstest.MapFS{
		"site/partials/greeting.tmpl": {Data: []byte("Hi {{ name }}")},
		"site/partials/.swap":         {Data: []byte("{% broken")},
	}

	renderer, err := gotemplate.NewFSFactory(files)("site/partials")
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if diff := cmp.Diff([]string{"greeting.tmpl"}, renderer.Templates()); diff != "" {
		t.Fatalf("templates mismatch (-want +got):\n%s", diff)
	}

	result, err := renderer.RenderTemplate("greeting.tmpl", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Hi Ada" {
		t.Fatalf("render = %q", result)
	}
}

func TestGoTemplateEngine_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatal("expected error without base dir or fs")
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	engine, err := gotemplate.New(
		gotemplate.WithBaseDir(filepath.Join("testdata", "templates")),
		gotemplate.WithFilters(map[string]gotemplate.FilterFunc{"shout": shout}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func shout(input any, _ any) (any, error) {
	if input == nil {
		return "", nil
	}
	return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
}
