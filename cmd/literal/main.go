package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/goliatone/go-literal"
)

type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

type cli struct {
	stdout  io.Writer
	stderr  io.Writer
	confirm func(path string) (bool, error)
}

func main() {
	c := cli{
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		confirm: confirmOverwrite,
	}
	os.Exit(c.run(os.Args[1:]))
}

func (c cli) run(args []string) int {
	flags := flag.NewFlagSet("literal", flag.ContinueOnError)
	flags.SetOutput(c.stderr)

	var (
		varsFiles stringList
		vars      stringList
	)
	flags.Var(&varsFiles, "vars", "JSON or YAML file of initial variables (repeatable)")
	flags.Var(&vars, "var", "initial variable in name=value form (repeatable)")
	output := flags.String("output", "", "output file (stdout if empty)")
	force := flags.Bool("force", false, "overwrite the output file without asking")
	verbose := flags.Bool("verbose", false, "trace executed directives to stderr")
	noColor := flags.Bool("no-color", false, "disable coloured error output")
	flags.Usage = func() {
		fmt.Fprintln(flags.Output(), "usage: literal [flags] <file>")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *noColor {
		color.NoColor = true
	}

	if flags.NArg() < 1 {
		return c.fail(errors.New("must specify a file to render"))
	}

	options := []literal.Option{}
	for _, path := range varsFiles {
		options = append(options, literal.WithVariablesFile(path))
	}
	for _, raw := range vars {
		name, value, err := literal.ParseVariable(raw)
		if err != nil {
			return c.fail(err)
		}
		options = append(options, literal.WithVariable(name, value))
	}
	if *verbose {
		options = append(options, literal.WithLogger(log.New(c.stderr, "literal: ", 0)))
	}

	rendered, err := literal.RenderFile(context.Background(), flags.Arg(0), options...)
	if err != nil {
		return c.fail(err)
	}

	if *output == "" {
		fmt.Fprint(c.stdout, rendered)
		return 0
	}

	if !*force {
		if _, statErr := os.Stat(*output); statErr == nil {
			ok, err := c.confirm(*output)
			if err != nil {
				return c.fail(err)
			}
			if !ok {
				return c.fail(fmt.Errorf("not overwriting %s", *output))
			}
		}
	}

	if err := os.WriteFile(*output, []byte(rendered), 0o644); err != nil {
		return c.fail(fmt.Errorf("write output: %w", err))
	}
	return 0
}

func (c cli) fail(err error) int {
	color.New(color.FgRed, color.Bold).Fprint(c.stderr, "error: ")
	fmt.Fprintln(c.stderr, err)
	return 1
}

func confirmOverwrite(path string) (bool, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return false, fmt.Errorf("%s exists; pass -force to overwrite", path)
	}

	var overwrite bool
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("%s exists. Overwrite?", path),
		Default: false,
	}
	if err := survey.AskOne(prompt, &overwrite); err != nil {
		return false, err
	}
	return overwrite, nil
}
