package interpreter

import (
	"bufio"
	"errors"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/goliatone/go-literal/pkg/directive"
	"github.com/goliatone/go-literal/pkg/render"
	"github.com/goliatone/go-literal/pkg/render/template/gotemplate"
	"github.com/goliatone/go-literal/pkg/store"
)

// Interpreter executes one render pass. It is not safe for concurrent use and
// should not be reused across documents.
type Interpreter struct {
	store    *store.Store
	renderer Renderer
	logger   *log.Logger
}

// New builds an Interpreter with an empty store and an on-disk pongo2 bridge.
func New(options ...Option) *Interpreter {
	i := &Interpreter{
		store:    store.New(),
		renderer: render.NewBridge(gotemplate.NewFactory()),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(i)
	}
	return i
}

// Store exposes the variables defined so far.
func (i *Interpreter) Store() *store.Store {
	return i.store
}

// Run renders every line of r. On failure the accumulated output is
// discarded and the error identifies the offending line.
func (i *Interpreter) Run(r io.Reader) (string, error) {
	var (
		out    strings.Builder
		reader = bufio.NewReader(r)
		lineNo int
	)

	for {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return "", &IOError{Err: readErr}
		}
		if line == "" && readErr != nil {
			break
		}
		lineNo++

		rendered, err := i.Process(line)
		if err != nil {
			return "", &LineError{Line: lineNo, Text: strings.TrimSpace(line), Err: err}
		}
		out.WriteString(rendered)

		if readErr != nil {
			break
		}
	}

	return out.String(), nil
}

// Process parses and executes a single line.
func (i *Interpreter) Process(line string) (string, error) {
	d, err := directive.Parse(line)
	if err != nil {
		return "", err
	}
	return i.Execute(d)
}

// Execute applies a parsed directive and returns the text it contributes.
func (i *Interpreter) Execute(d directive.Directive) (string, error) {
	if i.logger != nil && d.Op != directive.OpLiteral {
		i.logger.Printf("%s %s", d.Op, strings.TrimSpace(d.Name+" "+d.Value+d.Path))
	}

	switch d.Op {
	case directive.OpLiteral:
		return d.Text + "\n", nil
	case directive.OpInit:
		return "", i.store.Init(d.Name, d.Value)
	case directive.OpIncr:
		return "", i.store.Increment(d.Name, d.Value)
	case directive.OpRender:
		return i.renderer.Render(d.Path, i.store.Bindings())
	case directive.OpAssert:
		return "", i.assert(d.Name, d.Value)
	default:
		return "", &directive.UnknownDirectiveError{Line: d.Line}
	}
}

func (i *Interpreter) assert(name, expected string) error {
	actual, ok := i.store.Get(name)
	if !ok {
		return &store.UndefinedVariableError{Name: name}
	}

	switch actual.Kind() {
	case store.KindInteger:
		want, err := store.ParseInt(expected)
		if err != nil {
			return err
		}
		if got, _ := actual.Int(); got != want {
			return &AssertionFailedError{Name: name, Expected: strconv.FormatInt(want, 10), Actual: actual.Format()}
		}
	case store.KindString:
		if got, _ := actual.Text(); got != expected {
			return &AssertionFailedError{Name: name, Expected: expected, Actual: actual.Format()}
		}
	}
	return nil
}
